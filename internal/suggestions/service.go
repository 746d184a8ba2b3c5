package suggestions

import (
	"context"
	"errors"
	"strings"

	"synergies-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service stores feature suggestions from the suggestion box.
type Service struct {
	DB *gorm.DB
}

// Submit records a suggestion from an employee.
func (s *Service) Submit(ctx context.Context, employeeID uuid.UUID, name, suggestion string) (*domain.FeatureSuggestion, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return nil, errors.New("Suggestion is required")
	}
	row := domain.FeatureSuggestion{
		EmployeeID: employeeID,
		Name:       strings.TrimSpace(name),
		Suggestion: suggestion,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all suggestions, newest first. Admin only at the route level.
func (s *Service) List(ctx context.Context) ([]domain.FeatureSuggestion, error) {
	var rows []domain.FeatureSuggestion
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
