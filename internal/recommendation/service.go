package recommendation

import (
	"context"
	"errors"
	"strings"
	"time"

	"synergies-backend/internal/commission"
	"synergies-backend/internal/constants"
	"synergies-backend/internal/domain"
	"synergies-backend/internal/emails"
	"synergies-backend/internal/export"
	"synergies-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB          *gorm.DB
	Commissions *commission.Service
	Sender      emails.Sender
}

type CreateInput struct {
	PrescriptorID  uuid.UUID
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	ProjectTitle   string
	ProjectDetails string
	ReceiverID     *uuid.UUID
	ReceiverEmail  string
	Amount         *float64
	AnnualAmount   *float64
}

// Create inserts a new recommendation. The receiver is resolved by id when
// given, by email otherwise. The notification email is best-effort: a send
// failure never fails the creation.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Recommendation, error) {
	if strings.TrimSpace(in.ClientName) == "" {
		return nil, errors.New("Client name is required")
	}
	if in.ProjectTitle != "" && !constants.IsValidProjectTitle(in.ProjectTitle) {
		return nil, errors.New("Unknown project title")
	}
	if in.ClientEmail != "" && !validation.IsValidEmail(in.ClientEmail) {
		return nil, errors.New("Invalid client email")
	}
	if in.ClientPhone != "" && !validation.IsValidPhone(in.ClientPhone) {
		return nil, errors.New("Invalid client phone")
	}
	if in.ReceiverID == nil && in.ReceiverEmail == "" {
		return nil, errors.New("Receiver is required")
	}

	var prescriptor domain.Employee
	if err := s.DB.WithContext(ctx).Where("id = ?", in.PrescriptorID).First(&prescriptor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Prescriptor not found")
		}
		return nil, err
	}

	receiver, err := s.resolveReceiver(ctx, in.ReceiverID, in.ReceiverEmail)
	if err != nil {
		return nil, err
	}

	reco := &domain.Recommendation{
		PrescriptorID:    prescriptor.ID,
		PrescriptorName:  prescriptor.FullName(),
		PrescriptorEmail: prescriptor.Email,
		ReceiverEmail:    in.ReceiverEmail,
		ClientName:       strings.TrimSpace(in.ClientName),
		IntakeStatus:     constants.IntakeUntreated,
		DealStage:        constants.StageNew,
		Amount:           in.Amount,
		AnnualAmount:     in.AnnualAmount,
	}
	if receiver != nil {
		rid := receiver.ID
		reco.ReceiverID = &rid
		reco.ReceiverEmail = receiver.Email
	}
	if in.ClientEmail != "" {
		reco.ClientEmail = &in.ClientEmail
	}
	if in.ClientPhone != "" {
		reco.ClientPhone = &in.ClientPhone
	}
	if in.ProjectTitle != "" {
		reco.ProjectTitle = &in.ProjectTitle
	}
	if in.ProjectDetails != "" {
		reco.ProjectDetails = &in.ProjectDetails
	}

	if err := s.DB.WithContext(ctx).Create(reco).Error; err != nil {
		return nil, err
	}

	if reco.ReceiverEmail != "" && s.Sender != nil {
		subject, html := emails.ReferralNotification(reco.ClientName, in.ProjectTitle, reco.PrescriptorName)
		msg := emails.Message{
			To:      []string{reco.ReceiverEmail},
			Cc:      []string{reco.PrescriptorEmail},
			Subject: subject,
			HTML:    html,
		}
		if err := s.Sender.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Str("reco_id", reco.ID.String()).Msg("referral notification email failed")
		}
	}
	return reco, nil
}

// resolveReceiver finds the receiving employee by id, then by email as a
// fallback. A nil result with nil error means the email did not match any
// employee record; the recommendation still carries the raw address.
func (s *Service) resolveReceiver(ctx context.Context, id *uuid.UUID, email string) (*domain.Employee, error) {
	if id != nil {
		var e domain.Employee
		if err := s.DB.WithContext(ctx).Where("id = ?", *id).First(&e).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New("Receiver not found")
			}
			return nil, err
		}
		return &e, nil
	}
	normalized := validation.NormalizeEmail(email)
	if !validation.IsValidEmail(normalized) {
		return nil, errors.New("Invalid receiver email")
	}
	var e domain.Employee
	err := s.DB.WithContext(ctx).Where("email = ?", normalized).First(&e).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Get fetches one recommendation.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	var reco domain.Recommendation
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&reco).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Recommendation not found")
		}
		return nil, err
	}
	return &reco, nil
}

// Inbox lists the recommendations received by an employee (id match, email
// fallback for rows created before the employee record existed).
func (s *Service) Inbox(ctx context.Context, employeeID uuid.UUID, email string) ([]domain.Recommendation, error) {
	var recos []domain.Recommendation
	if err := s.DB.WithContext(ctx).
		Where("receiver_id = ? OR receiver_email = ?", employeeID, validation.NormalizeEmail(email)).
		Order("created_at DESC").
		Find(&recos).Error; err != nil {
		return nil, err
	}
	return recos, nil
}

// Outbox lists the recommendations an employee has prescribed.
func (s *Service) Outbox(ctx context.Context, employeeID uuid.UUID) ([]domain.Recommendation, error) {
	var recos []domain.Recommendation
	if err := s.DB.WithContext(ctx).
		Where("prescriptor_id = ?", employeeID).
		Order("created_at DESC").
		Find(&recos).Error; err != nil {
		return nil, err
	}
	return recos, nil
}

// AdminListInput are the direction dashboard filters.
type AdminListInput struct {
	Q                string
	Stage            string
	Intake           string
	DateFrom         *time.Time
	DateTo           *time.Time
	ReceiverEmail    string
	PrescriptorEmail string
}

// AdminListResult carries the filtered rows plus the visible one-time revenue total.
type AdminListResult struct {
	Rows        []domain.Recommendation `json:"rows"`
	TotalAmount float64                 `json:"total_amount"`
}

// AdminList lists all recommendations with the direction filters applied.
func (s *Service) AdminList(ctx context.Context, in AdminListInput) (*AdminListResult, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Recommendation{}).Order("created_at DESC")
	if in.Stage != "" {
		q = q.Where("deal_stage = ?", in.Stage)
	}
	if in.Intake != "" {
		q = q.Where("intake_status = ?", in.Intake)
	}
	if in.DateFrom != nil {
		q = q.Where("created_at >= ?", *in.DateFrom)
	}
	if in.DateTo != nil {
		q = q.Where("created_at <= ?", *in.DateTo)
	}
	if in.ReceiverEmail != "" {
		q = q.Where("receiver_email = ?", in.ReceiverEmail)
	}
	if in.PrescriptorEmail != "" {
		q = q.Where("prescriptor_email = ?", in.PrescriptorEmail)
	}
	if in.Q != "" {
		like := "%" + strings.ToLower(in.Q) + "%"
		q = q.Where(
			"LOWER(client_name) LIKE ? OR LOWER(COALESCE(project_title, '')) LIKE ? OR LOWER(prescriptor_name) LIKE ? OR LOWER(prescriptor_email) LIKE ? OR LOWER(receiver_email) LIKE ?",
			like, like, like, like, like,
		)
	}

	var recos []domain.Recommendation
	if err := q.Find(&recos).Error; err != nil {
		return nil, err
	}
	total := 0.0
	for _, r := range recos {
		if r.Amount != nil {
			total += *r.Amount
		}
	}
	return &AdminListResult{Rows: recos, TotalAmount: total}, nil
}

// UpdateIntakeStatus writes a new intake status after allow-list validation.
func (s *Service) UpdateIntakeStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Recommendation, error) {
	if !constants.IsValidIntakeStatus(status) {
		return nil, errors.New("Invalid intake status")
	}
	reco, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(reco).Update("intake_status", status).Error; err != nil {
		return nil, err
	}
	reco.IntakeStatus = status
	return reco, nil
}

// UpdateDealStage writes a new deal stage after allow-list validation.
// Reaching acte_recrute auto-creates the pending commission; the one-shot
// manager notification is left for the cron scan (manager_notified_at null).
func (s *Service) UpdateDealStage(ctx context.Context, id uuid.UUID, stage string) (*domain.Recommendation, error) {
	if !constants.IsValidDealStage(stage) {
		return nil, errors.New("Invalid deal stage")
	}
	reco, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(reco).Update("deal_stage", stage).Error; err != nil {
		return nil, err
	}
	reco.DealStage = stage

	if stage == constants.StageClosedWon && s.Commissions != nil {
		if _, err := s.Commissions.EnsureForRecommendation(ctx, reco); err != nil {
			log.Error().Err(err).Str("reco_id", reco.ID.String()).Msg("commission auto-create failed")
		}
	}
	return reco, nil
}

// Kanban groups an employee's inbox by deal stage, in column order.
type Kanban struct {
	Columns []string                           `json:"columns"`
	Cards   map[string][]domain.Recommendation `json:"cards"`
}

func (s *Service) KanbanBoard(ctx context.Context, employeeID uuid.UUID, email string) (*Kanban, error) {
	recos, err := s.Inbox(ctx, employeeID, email)
	if err != nil {
		return nil, err
	}
	board := &Kanban{
		Columns: constants.DealStages,
		Cards:   make(map[string][]domain.Recommendation, len(constants.DealStages)),
	}
	for _, stage := range constants.DealStages {
		board.Cards[stage] = []domain.Recommendation{}
	}
	for _, r := range recos {
		board.Cards[r.DealStage] = append(board.Cards[r.DealStage], r)
	}
	return board, nil
}

// Relance sends a manual reminder to the receiver of one of the actor's
// outbox rows, cc'ing the actor.
func (s *Service) Relance(ctx context.Context, recoID, actorID uuid.UUID, actorName, actorEmail string) error {
	reco, err := s.Get(ctx, recoID)
	if err != nil {
		return err
	}
	if reco.PrescriptorID != actorID {
		return errors.New("Unauthorized")
	}
	if reco.ReceiverEmail == "" {
		return errors.New("Recommendation has no receiver email")
	}
	title := ""
	if reco.ProjectTitle != nil {
		title = *reco.ProjectTitle
	}
	subject, html := emails.ManualReminder(reco.ClientName, title, reco.IntakeStatus, reco.DealStage, actorName, actorEmail)
	return s.Sender.Send(ctx, emails.Message{
		To:      []string{reco.ReceiverEmail},
		Cc:      []string{actorEmail},
		Subject: subject,
		HTML:    html,
	})
}

// adminCSVHeader matches the direction dashboard export.
var adminCSVHeader = []string{
	"id", "date", "client", "projet", "prescripteur", "email_prescripteur",
	"email_receveur", "intake_status", "deal_stage", "montant_euros",
}

// ExportCSV renders the filtered admin rows as the downloadable CSV.
func ExportCSV(rows []domain.Recommendation) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		created := r.CreatedAt
		title := ""
		if r.ProjectTitle != nil {
			title = *r.ProjectTitle
		}
		amount := ""
		if r.Amount != nil {
			amount = export.FormatMoney(*r.Amount)
		}
		out = append(out, []string{
			r.ID.String(),
			export.FormatDate(&created),
			r.ClientName,
			title,
			r.PrescriptorName,
			r.PrescriptorEmail,
			r.ReceiverEmail,
			r.IntakeStatus,
			r.DealStage,
			amount,
		})
	}
	return export.Document(adminCSVHeader, out)
}
