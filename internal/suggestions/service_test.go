package suggestions

import (
	"context"
	"testing"
	"time"

	"synergies-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSuggestionsTest(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.FeatureSuggestion{}))
	return &Service{DB: db}
}

func TestSubmit_TrimsAndStores(t *testing.T) {
	svc := setupSuggestionsTest(t)
	employeeID := uuid.New()

	row, err := svc.Submit(context.Background(), employeeID, "  Julien Morel ", "  Ajouter un filtre par agence  ")
	require.NoError(t, err)
	assert.Equal(t, employeeID, row.EmployeeID)
	assert.Equal(t, "Julien Morel", row.Name)
	assert.Equal(t, "Ajouter un filtre par agence", row.Suggestion)
	assert.NotEqual(t, uuid.Nil, row.ID)
}

func TestSubmit_EmptySuggestionRejected(t *testing.T) {
	svc := setupSuggestionsTest(t)

	_, err := svc.Submit(context.Background(), uuid.New(), "Julien Morel", "   ")
	require.Error(t, err)
	assert.Equal(t, "Suggestion is required", err.Error())

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestList_NewestFirst(t *testing.T) {
	svc := setupSuggestionsTest(t)
	employeeID := uuid.New()

	first, err := svc.Submit(context.Background(), employeeID, "Julien Morel", "Export PDF")
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), employeeID, "Julien Morel", "Notifications push")
	require.NoError(t, err)
	// Same-second inserts: force distinct created_at so the ordering is observable
	require.NoError(t, svc.DB.Model(&domain.FeatureSuggestion{}).
		Where("id = ?", first.ID).
		Update("created_at", first.CreatedAt.Add(-time.Second)).Error)

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}
