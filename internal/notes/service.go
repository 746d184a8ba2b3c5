package notes

import (
	"context"
	"errors"
	"strings"

	"synergies-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages the free-text notes attached to a recommendation.
type Service struct {
	DB *gorm.DB
}

// List returns the notes of one recommendation, newest first, with authors.
func (s *Service) List(ctx context.Context, recoID uuid.UUID) ([]domain.Note, error) {
	var notes []domain.Note
	if err := s.DB.WithContext(ctx).
		Preload("Author").
		Where("reco_id = ?", recoID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Add appends a note; the author is the authenticated employee.
func (s *Service) Add(ctx context.Context, recoID, authorID uuid.UUID, content string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("Note content is required")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Recommendation{}).
		Where("id = ?", recoID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("Recommendation not found")
	}

	note := domain.Note{RecoID: recoID, AuthorID: &authorID, Body: content}
	if err := s.DB.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Preload("Author").First(&note, "id = ?", note.ID).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes a note. Only the author or an admin may delete.
func (s *Service) Delete(ctx context.Context, noteID, actorID uuid.UUID, actorIsAdmin bool) error {
	var note domain.Note
	if err := s.DB.WithContext(ctx).Where("id = ?", noteID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Note not found")
		}
		return err
	}
	if (note.AuthorID == nil || *note.AuthorID != actorID) && !actorIsAdmin {
		return errors.New("Unauthorized")
	}
	return s.DB.WithContext(ctx).Delete(&domain.Note{}, "id = ?", noteID).Error
}
