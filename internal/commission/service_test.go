package commission

import (
	"context"
	"testing"
	"time"

	"synergies-backend/internal/constants"
	"synergies-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCommissionTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Recommendation{},
		&domain.Commission{},
		&domain.CommissionLog{},
		&domain.Activity{},
	))
	return &Service{DB: db}, db
}

func strPtr(s string) *string { return &s }

func seedClosedWon(t *testing.T, db *gorm.DB, project string) domain.Recommendation {
	t.Helper()
	reco := domain.Recommendation{
		PrescriptorID:   uuid.New(),
		PrescriptorName: "Claire Martin",
		ClientName:      "M. Bernard",
		ProjectTitle:    strPtr(project),
		IntakeStatus:    constants.IntakeContacted,
		DealStage:       constants.StageClosedWon,
	}
	require.NoError(t, db.Create(&reco).Error)
	return reco
}

func TestEnsureForRecommendation_Idempotent(t *testing.T) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Vente")

	first, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)
	assert.Equal(t, 100.0, first.Amount)
	assert.Equal(t, domain.CommissionPending, first.Status)

	// Manually adjusted amount must survive a second ensure.
	require.NoError(t, db.Model(first).Update("amount", 250.0).Error)
	second, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 250.0, second.Amount)

	var count int64
	require.NoError(t, db.Model(&domain.Commission{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureForRecommendation_RecruitmentAmount(t *testing.T) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Recrutement")

	comm, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)
	assert.Equal(t, 500.0, comm.Amount)
}

func TestLedger_MissingCommissionSurfacesAsPending(t *testing.T) {
	svc, db := setupCommissionTest(t)
	withComm := seedClosedWon(t, db, "Vente")
	orphan := seedClosedWon(t, db, "Recrutement")
	_, err := svc.EnsureForRecommendation(context.Background(), &withComm)
	require.NoError(t, err)

	rows, err := svc.Ledger(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byReco := make(map[uuid.UUID]LedgerRow, len(rows))
	for _, r := range rows {
		byReco[r.RecoID] = r
	}
	require.NotNil(t, byReco[withComm.ID].CommissionID)
	assert.Equal(t, 100.0, byReco[withComm.ID].Amount)
	// Orphan: no row in commissions yet, the rule amount is shown.
	assert.Nil(t, byReco[orphan.ID].CommissionID)
	assert.Equal(t, 500.0, byReco[orphan.ID].Amount)
	assert.Equal(t, domain.CommissionPending, byReco[orphan.ID].Status)
}

func TestMarkPaid_SingleWriteAndRepeatRejected(t *testing.T) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Vente")
	comm, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), comm.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	firstPaidAt := *paid.PaidAt

	_, err = svc.MarkPaid(context.Background(), comm.ID)
	require.EqualError(t, err, "Commission already paid")

	var got domain.Commission
	require.NoError(t, db.First(&got, "id = ?", comm.ID).Error)
	require.NotNil(t, got.PaidAt)
	assert.WithinDuration(t, firstPaidAt, *got.PaidAt, time.Second)
}

func TestUpdateAmount_RejectsNegative(t *testing.T) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Vente")
	comm, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)

	_, err = svc.UpdateAmount(context.Background(), comm.ID, -10)
	require.EqualError(t, err, "Invalid amount")

	updated, err := svc.UpdateAmount(context.Background(), comm.ID, 180)
	require.NoError(t, err)
	assert.Equal(t, 180.0, updated.Amount)
}

func TestUpdateAmount_NotFound(t *testing.T) {
	svc, _ := setupCommissionTest(t)
	_, err := svc.UpdateAmount(context.Background(), uuid.New(), 100)
	require.EqualError(t, err, "Commission not found")
}

func TestToggleValidation_FlipsAndLogs(t *testing.T) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Vente")
	comm, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)

	toggled, err := svc.ToggleValidation(context.Background(), ToggleValidationInput{
		CommissionID: comm.ID,
		DoneBy:       "Sophie Durand",
		Comment:      "OK pour paiement",
	})
	require.NoError(t, err)
	assert.True(t, toggled.ValidatedByManager)

	back, err := svc.ToggleValidation(context.Background(), ToggleValidationInput{
		CommissionID: comm.ID,
		DoneBy:       "Sophie Durand",
	})
	require.NoError(t, err)
	assert.False(t, back.ValidatedByManager)

	logs, err := svc.Logs(context.Background(), comm.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	actions := []string{logs[0].Action, logs[1].Action}
	assert.Contains(t, actions, "validated")
	assert.Contains(t, actions, "unvalidated")

	var activities int64
	require.NoError(t, db.Model(&domain.Activity{}).
		Where("action_type = ?", domain.ActivityValidationToggled).
		Count(&activities).Error)
	assert.EqualValues(t, 2, activities)
}

func TestToggleValidation_RequiresActor(t *testing.T) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Vente")
	comm, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)

	_, err = svc.ToggleValidation(context.Background(), ToggleValidationInput{CommissionID: comm.ID})
	require.EqualError(t, err, "Actor is required")
}

func TestExportCSV_FrenchFormatting(t *testing.T) {
	created := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	rows := []LedgerRow{{
		CreatedAt:        created,
		ClientName:       `Société "Dupont"`,
		ProjectTitle:     strPtr("Vente"),
		PrescriptorName:  "Claire Martin",
		PrescriptorEmail: "claire@agence-skdigital.fr",
		Amount:           100,
		Status:           domain.CommissionPending,
		DueDate:          &due,
	}}
	doc := ExportCSV(rows)

	assert.True(t, len(doc) > 3 && doc[:3] == "\xef\xbb\xbf")
	assert.Contains(t, doc, `"15/03/2026"`)
	assert.Contains(t, doc, `"30/04/2026"`)
	assert.Contains(t, doc, `"100,00"`)
	assert.Contains(t, doc, `"Société ""Dupont"""`)
}
