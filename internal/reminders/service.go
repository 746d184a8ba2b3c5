package reminders

import (
	"context"
	"errors"
	"time"

	"synergies-backend/internal/constants"
	"synergies-backend/internal/domain"
	"synergies-backend/internal/emails"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// batchLimit caps one scan so a backlog never outlives the serverless
// execution window; leftovers are picked up on the next scheduled run.
const batchLimit = 200

// cooldown is the minimum gap between two reminders for the same row.
const cooldown = 24 * time.Hour

// Service runs the scheduled reminder scans. Each run is stateless: all
// idempotence comes from the per-row timestamps, and a failed email send
// leaves the row unmarked so it is retried on the next invocation.
type Service struct {
	DB             *gorm.DB
	Sender         emails.Sender
	DirectionEmail string
	// Pause between sends, for the provider's rate limit. Zero in tests.
	Pause time.Duration
}

// Summary is the JSON body returned by every cron endpoint.
type Summary struct {
	OK      bool `json:"ok"`
	Checked int  `json:"checked"`
	Sent    int  `json:"sent"`
}

func (s *Service) pause() {
	if s.Pause > 0 {
		time.Sleep(s.Pause)
	}
}

// Run48h reminds receivers about recommendations untreated for 48h, at most
// once per 24h per row.
func (s *Service) Run48h(ctx context.Context) (Summary, error) {
	now := time.Now()
	since48h := now.Add(-48 * time.Hour)
	since24h := now.Add(-cooldown)

	var recos []domain.Recommendation
	if err := s.DB.WithContext(ctx).
		Where("intake_status = ?", constants.IntakeUntreated).
		Where("created_at <= ?", since48h).
		Where("due_reminder_at IS NULL OR due_reminder_at <= ?", since24h).
		Order("created_at ASC").
		Limit(batchLimit).
		Find(&recos).Error; err != nil {
		return Summary{}, err
	}

	sent := 0
	for _, r := range recos {
		if r.ReceiverEmail == "" {
			log.Warn().Str("reco_id", r.ID.String()).Msg("48h reminder: recommendation without receiver email")
			continue
		}

		subject, html := emails.Reminder48h(r.ClientName, r.IntakeStatus, r.CreatedAt)
		msg := emails.Message{To: []string{r.ReceiverEmail}, Subject: subject, HTML: html}
		if r.PrescriptorEmail != "" {
			msg.Cc = []string{r.PrescriptorEmail}
		}
		err := s.Sender.Send(ctx, msg)
		s.pause()
		if err != nil {
			// Unmarked row: retried on the next run.
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("48h reminder send failed")
			continue
		}

		if err := s.DB.WithContext(ctx).Model(&domain.Recommendation{}).
			Where("id = ?", r.ID).
			Update("due_reminder_at", time.Now()).Error; err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("48h reminder: due_reminder_at update failed")
			continue
		}
		if err := s.DB.WithContext(ctx).Create(&domain.Activity{
			RecoID:     r.ID,
			ActionType: domain.ActivityReminderSent,
			Note:       "Relance automatique 48h (intake non_traitee)",
		}).Error; err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("48h reminder: activity insert failed")
			continue
		}
		sent++
	}
	return Summary{OK: true, Checked: len(recos), Sent: sent}, nil
}

// Run72hManager escalates still-untreated recommendations to the receiver's
// manager after 72h, at most once per 24h per row. A receiver without a
// manager link is a terminal skip: the row is logged and retried unchanged.
func (s *Service) Run72hManager(ctx context.Context) (Summary, error) {
	now := time.Now()
	since72h := now.Add(-72 * time.Hour)
	since24h := now.Add(-cooldown)

	var recos []domain.Recommendation
	if err := s.DB.WithContext(ctx).
		Where("intake_status = ?", constants.IntakeUntreated).
		Where("created_at <= ?", since72h).
		Where("manager_due_reminder_at IS NULL OR manager_due_reminder_at <= ?", since24h).
		Order("created_at ASC").
		Limit(batchLimit).
		Find(&recos).Error; err != nil {
		return Summary{}, err
	}

	sent := 0
	for _, r := range recos {
		manager, receiver := s.resolveManager(ctx, &r)
		if manager == nil {
			continue
		}

		receiverName := ""
		if receiver != nil {
			receiverName = receiver.FullName()
		}
		managerFirstName := ""
		if manager.FirstName != nil {
			managerFirstName = *manager.FirstName
		}
		subject, html := emails.ManagerReminder72h(managerFirstName, receiverName, r.ClientName, r.CreatedAt)
		err := s.Sender.Send(ctx, emails.Message{To: []string{manager.Email}, Subject: subject, HTML: html})
		s.pause()
		if err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("72h manager reminder send failed")
			continue
		}

		if err := s.DB.WithContext(ctx).Model(&domain.Recommendation{}).
			Where("id = ?", r.ID).
			Update("manager_due_reminder_at", time.Now()).Error; err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("72h reminder: manager_due_reminder_at update failed")
			continue
		}
		if err := s.DB.WithContext(ctx).Create(&domain.Activity{
			RecoID:     r.ID,
			ActionType: domain.ActivityManagerReminder,
			Note:       "Relance 72h au manager (reco toujours non_traitee)",
		}).Error; err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("72h reminder: activity insert failed")
			continue
		}
		sent++
	}
	return Summary{OK: true, Checked: len(recos), Sent: sent}, nil
}

// NotifyManagerClosedWon sends the one-shot notification to the receiver's
// manager when a recommendation reaches acte_recrute. No cooldown: once
// manager_notified_at is set the row is never scanned again.
func (s *Service) NotifyManagerClosedWon(ctx context.Context) (Summary, error) {
	var recos []domain.Recommendation
	if err := s.DB.WithContext(ctx).
		Where("deal_stage = ?", constants.StageClosedWon).
		Where("manager_notified_at IS NULL").
		Order("created_at ASC").
		Limit(batchLimit).
		Find(&recos).Error; err != nil {
		return Summary{}, err
	}

	sent := 0
	for _, r := range recos {
		manager, receiver := s.resolveManager(ctx, &r)
		if manager == nil {
			continue
		}

		receiverName := ""
		if receiver != nil {
			receiverName = receiver.FullName()
		}
		managerFirstName := ""
		if manager.FirstName != nil {
			managerFirstName = *manager.FirstName
		}
		title := ""
		if r.ProjectTitle != nil {
			title = *r.ProjectTitle
		}
		subject, html := emails.ClosedWonNotification(managerFirstName, receiverName, r.ClientName, title, r.CreatedAt)
		err := s.Sender.Send(ctx, emails.Message{To: []string{manager.Email}, Subject: subject, HTML: html})
		s.pause()
		if err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("closed-won notification send failed")
			continue
		}

		if err := s.DB.WithContext(ctx).Model(&domain.Recommendation{}).
			Where("id = ?", r.ID).
			Update("manager_notified_at", time.Now()).Error; err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("closed-won: manager_notified_at update failed")
			continue
		}
		if err := s.DB.WithContext(ctx).Create(&domain.Activity{
			RecoID:     r.ID,
			ActionType: domain.ActivityManagerNotified,
			Note:       "Notification manager (acte_recrute)",
		}).Error; err != nil {
			log.Error().Err(err).Str("reco_id", r.ID.String()).Msg("closed-won: activity insert failed")
			continue
		}
		sent++
	}
	return Summary{OK: true, Checked: len(recos), Sent: sent}, nil
}

// CommissionsDue reminds the direction mailbox about unpaid commissions past
// their due date, at most once per 24h per commission.
func (s *Service) CommissionsDue(ctx context.Context) (Summary, error) {
	if s.DirectionEmail == "" {
		return Summary{}, errors.New("DIRECTION_EMAIL missing")
	}
	now := time.Now()
	since24h := now.Add(-cooldown)

	var comms []domain.Commission
	if err := s.DB.WithContext(ctx).
		Where("status <> ?", domain.CommissionPaid).
		Where("due_date IS NOT NULL AND due_date <= ?", now).
		Where("reminded_at IS NULL OR reminded_at <= ?", since24h).
		Order("due_date ASC").
		Limit(batchLimit).
		Find(&comms).Error; err != nil {
		return Summary{}, err
	}

	sent := 0
	for _, comm := range comms {
		var reco domain.Recommendation
		if err := s.DB.WithContext(ctx).Where("id = ?", comm.RecoID).First(&reco).Error; err != nil {
			log.Warn().Str("commission_id", comm.ID.String()).Msg("commission-due: recommendation missing")
			continue
		}

		subject, html := emails.CommissionDue(reco.ClientName, reco.PrescriptorName, comm.Amount, *comm.DueDate)
		err := s.Sender.Send(ctx, emails.Message{To: []string{s.DirectionEmail}, Subject: subject, HTML: html})
		s.pause()
		if err != nil {
			log.Error().Err(err).Str("commission_id", comm.ID.String()).Msg("commission-due send failed")
			continue
		}

		if err := s.DB.WithContext(ctx).Model(&domain.Commission{}).
			Where("id = ?", comm.ID).
			Update("reminded_at", time.Now()).Error; err != nil {
			log.Error().Err(err).Str("commission_id", comm.ID.String()).Msg("commission-due: reminded_at update failed")
			continue
		}
		if err := s.DB.WithContext(ctx).Create(&domain.Activity{
			RecoID:     comm.RecoID,
			ActionType: domain.ActivityCommissionDue,
			Note:       "Relance commission échue (direction)",
		}).Error; err != nil {
			log.Error().Err(err).Str("commission_id", comm.ID.String()).Msg("commission-due: activity insert failed")
			continue
		}
		sent++
	}
	return Summary{OK: true, Checked: len(comms), Sent: sent}, nil
}

// resolveManager walks recommendation → receiver → manager. Returns a nil
// manager when any link is missing; the caller skips the row.
func (s *Service) resolveManager(ctx context.Context, r *domain.Recommendation) (manager, receiver *domain.Employee) {
	var rec domain.Employee
	switch {
	case r.ReceiverID != nil:
		if err := s.DB.WithContext(ctx).Where("id = ?", *r.ReceiverID).First(&rec).Error; err != nil {
			log.Warn().Str("reco_id", r.ID.String()).Msg("receiver not found by id")
			return nil, nil
		}
	case r.ReceiverEmail != "":
		if err := s.DB.WithContext(ctx).Where("email = ?", r.ReceiverEmail).First(&rec).Error; err != nil {
			log.Warn().Str("reco_id", r.ID.String()).Msg("receiver not found by email")
			return nil, nil
		}
	default:
		log.Warn().Str("reco_id", r.ID.String()).Msg("recommendation without receiver")
		return nil, nil
	}

	if rec.ManagerID == nil {
		log.Warn().Str("receiver_id", rec.ID.String()).Msg("receiver has no manager_id")
		return nil, &rec
	}
	var mgr domain.Employee
	if err := s.DB.WithContext(ctx).Where("id = ?", *rec.ManagerID).First(&mgr).Error; err != nil {
		log.Warn().Str("receiver_id", rec.ID.String()).Msg("manager not found")
		return nil, &rec
	}
	if mgr.Email == "" {
		log.Warn().Str("manager_id", mgr.ID.String()).Msg("manager has no email")
		return nil, &rec
	}
	return &mgr, &rec
}
