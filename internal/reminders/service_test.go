package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"synergies-backend/internal/constants"
	"synergies-backend/internal/domain"
	"synergies-backend/internal/emails"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	sent []emails.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg emails.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupRemindersTest(t *testing.T) (*Service, *fakeSender, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Employee{},
		&domain.Recommendation{},
		&domain.Commission{},
		&domain.Activity{},
	))
	sender := &fakeSender{}
	svc := &Service{DB: db, Sender: sender, DirectionEmail: "direction@agence-skdigital.fr"}
	return svc, sender, db
}

func strPtr(s string) *string { return &s }

func seedReco(t *testing.T, db *gorm.DB, age time.Duration, mutate func(*domain.Recommendation)) domain.Recommendation {
	t.Helper()
	reco := domain.Recommendation{
		CreatedAt:        time.Now().Add(-age),
		PrescriptorID:    uuid.New(),
		PrescriptorName:  "Claire Martin",
		PrescriptorEmail: "claire@agence-skdigital.fr",
		ReceiverEmail:    "paul@agence-skdigital.fr",
		ClientName:       "M. Bernard",
		ProjectTitle:     strPtr("Vente"),
		IntakeStatus:     constants.IntakeUntreated,
		DealStage:        constants.StageNew,
	}
	if mutate != nil {
		mutate(&reco)
	}
	require.NoError(t, db.Create(&reco).Error)
	return reco
}

func TestRun48h_SendsAndMarks(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)
	reco := seedReco(t, db, 50*time.Hour, nil)
	// Too young: must not be picked up.
	seedReco(t, db, 3*time.Hour, nil)

	summary, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 1, summary.Sent)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"paul@agence-skdigital.fr"}, sender.sent[0].To)
	assert.Equal(t, []string{"claire@agence-skdigital.fr"}, sender.sent[0].Cc)

	var got domain.Recommendation
	require.NoError(t, db.First(&got, "id = ?", reco.ID).Error)
	require.NotNil(t, got.DueReminderAt)

	var activity domain.Activity
	require.NoError(t, db.First(&activity, "reco_id = ?", reco.ID).Error)
	assert.Equal(t, domain.ActivityReminderSent, activity.ActionType)
}

// A second run inside the 24h cooldown must not re-send.
func TestRun48h_CooldownIsIdempotent(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)
	seedReco(t, db, 50*time.Hour, nil)

	first, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)

	second, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Checked)
	assert.Equal(t, 0, second.Sent)
	assert.Len(t, sender.sent, 1)

	// Cooldown elapsed: eligible again.
	past := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Model(&domain.Recommendation{}).
		Where("1 = 1").Update("due_reminder_at", past).Error)
	third, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Sent)
}

// A failed send leaves the row unmarked so the next run retries it.
func TestRun48h_SendFailureLeavesRowUnmarked(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)
	reco := seedReco(t, db, 50*time.Hour, nil)
	sender.err = errors.New("provider down")

	summary, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 0, summary.Sent)

	var got domain.Recommendation
	require.NoError(t, db.First(&got, "id = ?", reco.ID).Error)
	assert.Nil(t, got.DueReminderAt)

	sender.err = nil
	retry, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Sent)
}

func TestRun48h_TreatedRecoIsIgnored(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)
	seedReco(t, db, 50*time.Hour, func(r *domain.Recommendation) {
		r.IntakeStatus = constants.IntakeContacted
	})

	summary, err := svc.Run48h(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Checked)
	assert.Empty(t, sender.sent)
}

func TestRun72hManager_EscalatesThroughHierarchy(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)

	manager := domain.Employee{Email: "manager@agence-skdigital.fr", FirstName: strPtr("Sophie"), Role: constants.Admin}
	require.NoError(t, db.Create(&manager).Error)
	receiver := domain.Employee{Email: "paul@agence-skdigital.fr", FirstName: strPtr("Paul"), ManagerID: &manager.ID}
	require.NoError(t, db.Create(&receiver).Error)

	reco := seedReco(t, db, 80*time.Hour, func(r *domain.Recommendation) {
		r.ReceiverID = &receiver.ID
	})

	summary, err := svc.Run72hManager(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"manager@agence-skdigital.fr"}, sender.sent[0].To)

	var got domain.Recommendation
	require.NoError(t, db.First(&got, "id = ?", reco.ID).Error)
	require.NotNil(t, got.ManagerDueReminderAt)

	// Within cooldown: nothing to do.
	again, err := svc.Run72hManager(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Sent)
}

// A receiver without a manager link is skipped, not an error, and the row
// stays untouched.
func TestRun72hManager_MissingManagerSkips(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)

	receiver := domain.Employee{Email: "paul@agence-skdigital.fr"}
	require.NoError(t, db.Create(&receiver).Error)
	reco := seedReco(t, db, 80*time.Hour, func(r *domain.Recommendation) {
		r.ReceiverID = &receiver.ID
	})

	summary, err := svc.Run72hManager(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 0, summary.Sent)
	assert.Empty(t, sender.sent)

	var got domain.Recommendation
	require.NoError(t, db.First(&got, "id = ?", reco.ID).Error)
	assert.Nil(t, got.ManagerDueReminderAt)
}

func TestNotifyManagerClosedWon_OneShot(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)

	manager := domain.Employee{Email: "manager@agence-skdigital.fr"}
	require.NoError(t, db.Create(&manager).Error)
	receiver := domain.Employee{Email: "paul@agence-skdigital.fr", ManagerID: &manager.ID}
	require.NoError(t, db.Create(&receiver).Error)

	reco := seedReco(t, db, time.Hour, func(r *domain.Recommendation) {
		r.DealStage = constants.StageClosedWon
		r.ReceiverID = &receiver.ID
	})

	summary, err := svc.NotifyManagerClosedWon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)

	var got domain.Recommendation
	require.NoError(t, db.First(&got, "id = ?", reco.ID).Error)
	require.NotNil(t, got.ManagerNotifiedAt)

	// Already notified: never scanned again.
	again, err := svc.NotifyManagerClosedWon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Checked)
	assert.Len(t, sender.sent, 1)
}

// Receiver resolution falls back to the stored email when receiver_id is null.
func TestNotifyManagerClosedWon_ReceiverEmailFallback(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)

	manager := domain.Employee{Email: "manager@agence-skdigital.fr"}
	require.NoError(t, db.Create(&manager).Error)
	receiver := domain.Employee{Email: "paul@agence-skdigital.fr", ManagerID: &manager.ID}
	require.NoError(t, db.Create(&receiver).Error)

	seedReco(t, db, time.Hour, func(r *domain.Recommendation) {
		r.DealStage = constants.StageClosedWon
	})

	summary, err := svc.NotifyManagerClosedWon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"manager@agence-skdigital.fr"}, sender.sent[0].To)
}

func TestCommissionsDue_RemindsDirection(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)

	reco := seedReco(t, db, 200*time.Hour, func(r *domain.Recommendation) {
		r.DealStage = constants.StageClosedWon
	})
	due := time.Now().Add(-72 * time.Hour)
	comm := domain.Commission{RecoID: reco.ID, Amount: 100, Status: domain.CommissionPending, DueDate: &due}
	require.NoError(t, db.Create(&comm).Error)

	summary, err := svc.CommissionsDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"direction@agence-skdigital.fr"}, sender.sent[0].To)

	var got domain.Commission
	require.NoError(t, db.First(&got, "id = ?", comm.ID).Error)
	require.NotNil(t, got.RemindedAt)

	// Cooldown: no duplicate inside 24h.
	again, err := svc.CommissionsDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Checked)
}

func TestCommissionsDue_PaidAndFutureAreIgnored(t *testing.T) {
	svc, sender, db := setupRemindersTest(t)

	recoPaid := seedReco(t, db, 200*time.Hour, nil)
	recoFuture := seedReco(t, db, 200*time.Hour, nil)
	past := time.Now().Add(-72 * time.Hour)
	future := time.Now().Add(72 * time.Hour)
	require.NoError(t, db.Create(&domain.Commission{RecoID: recoPaid.ID, Amount: 100, Status: domain.CommissionPaid, DueDate: &past}).Error)
	require.NoError(t, db.Create(&domain.Commission{RecoID: recoFuture.ID, Amount: 100, Status: domain.CommissionPending, DueDate: &future}).Error)

	summary, err := svc.CommissionsDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Checked)
	assert.Empty(t, sender.sent)
}

func TestCommissionsDue_MissingDirectionEmail(t *testing.T) {
	svc, _, _ := setupRemindersTest(t)
	svc.DirectionEmail = ""
	_, err := svc.CommissionsDue(context.Background())
	require.Error(t, err)
}
