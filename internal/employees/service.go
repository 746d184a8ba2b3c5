package employees

import (
	"context"
	"errors"

	"synergies-backend/internal/constants"
	"synergies-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service reads the employee directory and the team oversight view.
type Service struct {
	DB *gorm.DB
}

// DirectoryEntry is what the receiver picker needs; no hash, no flags.
type DirectoryEntry struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Fullname  string     `json:"fullname"`
	Role      string     `json:"role"`
	ManagerID *uuid.UUID `json:"manager_id"`
}

// Directory lists active employees ordered by name.
func (s *Service) Directory(ctx context.Context) ([]DirectoryEntry, error) {
	var emps []domain.Employee
	if err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC, email ASC").
		Find(&emps).Error; err != nil {
		return nil, err
	}
	out := make([]DirectoryEntry, 0, len(emps))
	for i := range emps {
		out = append(out, DirectoryEntry{
			ID:        emps[i].ID,
			Email:     emps[i].Email,
			Fullname:  emps[i].FullName(),
			Role:      emps[i].Role,
			ManagerID: emps[i].ManagerID,
		})
	}
	return out, nil
}

// Get returns one employee by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var e domain.Employee
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Employee not found")
		}
		return nil, err
	}
	return &e, nil
}

// TeamMember pairs a direct report with their open recommendations.
type TeamMember struct {
	Employee        DirectoryEntry          `json:"employee"`
	OpenCount       int                     `json:"open_count"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// Team returns, for a manager, each direct report with the recommendations
// they received that have not reached acte_recrute yet.
func (s *Service) Team(ctx context.Context, managerID uuid.UUID) ([]TeamMember, error) {
	var reports []domain.Employee
	if err := s.DB.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC, email ASC").
		Find(&reports).Error; err != nil {
		return nil, err
	}

	out := make([]TeamMember, 0, len(reports))
	for i := range reports {
		rep := reports[i]
		var recos []domain.Recommendation
		if err := s.DB.WithContext(ctx).
			Where("deal_stage <> ?", constants.StageClosedWon).
			Where("receiver_id = ? OR receiver_email = ?", rep.ID, rep.Email).
			Order("created_at DESC").
			Find(&recos).Error; err != nil {
			return nil, err
		}
		out = append(out, TeamMember{
			Employee: DirectoryEntry{
				ID:        rep.ID,
				Email:     rep.Email,
				Fullname:  rep.FullName(),
				Role:      rep.Role,
				ManagerID: rep.ManagerID,
			},
			OpenCount:       len(recos),
			Recommendations: recos,
		})
	}
	return out, nil
}
