package commission

import (
	"context"
	"errors"
	"time"

	"synergies-backend/internal/constants"
	"synergies-backend/internal/domain"
	"synergies-backend/internal/export"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// EnsureForRecommendation creates the pending commission for a recommendation
// that just reached acte_recrute. Idempotent: an existing row is returned
// untouched, so a later stage flip-flop never resets an edited amount.
func (s *Service) EnsureForRecommendation(ctx context.Context, reco *domain.Recommendation) (*domain.Commission, error) {
	var existing domain.Commission
	err := s.DB.WithContext(ctx).Where("reco_id = ?", reco.ID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	title := ""
	if reco.ProjectTitle != nil {
		title = *reco.ProjectTitle
	}
	comm := &domain.Commission{
		RecoID: reco.ID,
		Amount: AmountForProject(title),
		Status: domain.CommissionPending,
	}
	if err := s.DB.WithContext(ctx).Create(comm).Error; err != nil {
		return nil, err
	}
	return comm, nil
}

// LedgerRow is one line of the direction commission ledger: the closed-won
// recommendation joined with its commission. A missing commission row is
// surfaced as pending with the calculated amount.
type LedgerRow struct {
	RecoID           uuid.UUID `json:"reco_id"`
	CreatedAt        time.Time `json:"created_at"`
	ClientName       string    `json:"client_name"`
	ProjectTitle     *string   `json:"project_title"`
	PrescriptorName  string    `json:"prescriptor_name"`
	PrescriptorEmail string    `json:"prescriptor_email"`

	CommissionID       *uuid.UUID `json:"commission_id"`
	Amount             float64    `json:"amount"`
	Status             string     `json:"status"`
	DueDate            *time.Time `json:"due_date"`
	PaidAt             *time.Time `json:"paid_at"`
	ValidatedByManager bool       `json:"validated_by_manager"`
}

// Ledger lists every acte_recrute recommendation with its commission state,
// newest first.
func (s *Service) Ledger(ctx context.Context) ([]LedgerRow, error) {
	var recos []domain.Recommendation
	if err := s.DB.WithContext(ctx).
		Where("deal_stage = ?", constants.StageClosedWon).
		Order("created_at DESC").
		Find(&recos).Error; err != nil {
		return nil, err
	}
	if len(recos) == 0 {
		return []LedgerRow{}, nil
	}

	ids := make([]uuid.UUID, len(recos))
	for i, r := range recos {
		ids[i] = r.ID
	}
	var comms []domain.Commission
	if err := s.DB.WithContext(ctx).Where("reco_id IN ?", ids).Find(&comms).Error; err != nil {
		return nil, err
	}
	byReco := make(map[uuid.UUID]domain.Commission, len(comms))
	for _, c := range comms {
		byReco[c.RecoID] = c
	}

	rows := make([]LedgerRow, 0, len(recos))
	for _, r := range recos {
		row := LedgerRow{
			RecoID:           r.ID,
			CreatedAt:        r.CreatedAt,
			ClientName:       r.ClientName,
			ProjectTitle:     r.ProjectTitle,
			PrescriptorName:  r.PrescriptorName,
			PrescriptorEmail: r.PrescriptorEmail,
			Status:           domain.CommissionPending,
		}
		if c, ok := byReco[r.ID]; ok {
			cid := c.ID
			row.CommissionID = &cid
			row.Amount = c.Amount
			row.Status = c.Status
			row.DueDate = c.DueDate
			row.PaidAt = c.PaidAt
			row.ValidatedByManager = c.ValidatedByManager
		} else {
			title := ""
			if r.ProjectTitle != nil {
				title = *r.ProjectTitle
			}
			row.Amount = AmountForProject(title)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*domain.Commission, error) {
	var comm domain.Commission
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&comm).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Commission not found")
		}
		return nil, err
	}
	return &comm, nil
}

// UpdateAmount sets a manually adjusted amount.
func (s *Service) UpdateAmount(ctx context.Context, id uuid.UUID, amount float64) (*domain.Commission, error) {
	if amount < 0 {
		return nil, errors.New("Invalid amount")
	}
	comm, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(comm).Update("amount", amount).Error; err != nil {
		return nil, err
	}
	return comm, nil
}

// UpdateDueDate sets the payment due date.
func (s *Service) UpdateDueDate(ctx context.Context, id uuid.UUID, due time.Time) (*domain.Commission, error) {
	comm, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(comm).Update("due_date", due).Error; err != nil {
		return nil, err
	}
	return comm, nil
}

// MarkPaid sets status=paid and paid_at in one write. Already-paid
// commissions are rejected so the paid timestamp is never overwritten.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Commission, error) {
	comm, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if comm.Status == domain.CommissionPaid {
		return nil, errors.New("Commission already paid")
	}
	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(comm).Updates(map[string]interface{}{
		"status":  domain.CommissionPaid,
		"paid_at": now,
	}).Error; err != nil {
		return nil, err
	}
	comm.Status = domain.CommissionPaid
	comm.PaidAt = &now
	return comm, nil
}

type ToggleValidationInput struct {
	CommissionID uuid.UUID
	DoneBy       string // authenticated actor name, not self-reported
	Comment      string
}

// ToggleValidation flips validated_by_manager and appends the audit log entry
// in the same transaction.
func (s *Service) ToggleValidation(ctx context.Context, in ToggleValidationInput) (*domain.Commission, error) {
	if in.DoneBy == "" {
		return nil, errors.New("Actor is required")
	}
	comm, err := s.find(ctx, in.CommissionID)
	if err != nil {
		return nil, err
	}

	next := !comm.ValidatedByManager
	action := "unvalidated"
	if next {
		action = "validated"
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(comm).Update("validated_by_manager", next).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(&domain.CommissionLog{
		CommissionID: comm.ID,
		Action:       action,
		DoneBy:       in.DoneBy,
		Comment:      in.Comment,
		DoneAt:       time.Now(),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(&domain.Activity{
		RecoID:     comm.RecoID,
		ActionType: domain.ActivityValidationToggled,
		Note:       "Commission " + action + " par " + in.DoneBy,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	comm.ValidatedByManager = next
	return comm, nil
}

// Logs returns the validation audit trail for one commission, newest first.
func (s *Service) Logs(ctx context.Context, id uuid.UUID) ([]domain.CommissionLog, error) {
	var logs []domain.CommissionLog
	if err := s.DB.WithContext(ctx).
		Where("commission_id = ?", id).
		Order("done_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ledgerCSVHeader matches the spreadsheet the direction already works with.
var ledgerCSVHeader = []string{
	"Date reco", "Client", "Projet", "Prescripteur", "Email prescripteur",
	"Commission €", "Échéance", "Statut", "Payé le",
}

// ExportCSV renders ledger rows as the downloadable commissions CSV.
func ExportCSV(rows []LedgerRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		created := r.CreatedAt
		title := ""
		if r.ProjectTitle != nil {
			title = *r.ProjectTitle
		}
		out = append(out, []string{
			export.FormatDate(&created),
			r.ClientName,
			title,
			r.PrescriptorName,
			r.PrescriptorEmail,
			export.FormatMoney(r.Amount),
			export.FormatDate(r.DueDate),
			r.Status,
			export.FormatDate(r.PaidAt),
		})
	}
	return export.Document(ledgerCSVHeader, out)
}
