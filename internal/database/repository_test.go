package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db)
}

func TestProfileRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	profile := types.Profile{
		GPA:                3.8,
		SATScore:           1400,
		IntendedMajor:      "STEM",
		AnnualFamilyIncome: 40000,
		BudgetCeiling:      20000,
		LocationPreferences: []string{
			"CA", "NY",
		},
		PreferenceWeights: map[string]float64{"academic_fit": 2, "cost": 1},
	}

	require.NoError(t, repo.SaveProfile(ctx, profile))

	stored, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, stored.Profile)
	assert.WithinDuration(t, time.Now(), stored.UpdatedAt, 5*time.Second)
}

func TestSaveProfileReplacesPrevious(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveProfile(ctx, types.Profile{GPA: 3.0}))
	require.NoError(t, repo.SaveProfile(ctx, types.Profile{GPA: 3.9}))

	stored, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.9, stored.Profile.GPA)
}

func TestGetProfileMissingIsNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetProfile(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReportHistory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := NewSavedReport("hash-a", "State University", 0.82, `{"ranking":[]}`, "127.0.0.1", "test-agent")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := NewSavedReport("hash-b", "Tech Institute", 0.91, `{"ranking":[]}`, "127.0.0.1", "test-agent")

	require.NoError(t, repo.InsertReport(ctx, first))
	require.NoError(t, repo.InsertReport(ctx, second))

	reports, err := repo.ListReports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, second.ID, reports[0].ID, "newest first")
	assert.Equal(t, "Tech Institute", reports[0].TopCollege)
	assert.Equal(t, 0.91, reports[0].TopScore)
	assert.Empty(t, reports[0].Payload, "listing omits payloads")
}

func TestListReportsClampsLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		report := NewSavedReport("hash", "State University", 0.5, "{}", "127.0.0.1", "")
		require.NoError(t, repo.InsertReport(ctx, report))
	}

	reports, err := repo.ListReports(ctx, -5)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
}
