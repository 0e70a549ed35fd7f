package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegecompass/college-compass/internal/database"
	"github.com/collegecompass/college-compass/internal/engine"
	"github.com/collegecompass/college-compass/internal/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(database.NewRepository(db))
}

func sampleReport(t *testing.T) *engine.DecisionReport {
	t.Helper()

	eng, err := engine.New(engine.DefaultConfig())
	require.NoError(t, err)

	profile := types.Profile{GPA: 3.8, SATScore: 1400, AnnualFamilyIncome: 40000, BudgetCeiling: 20000}
	colleges := []types.CollegeRecord{
		{Name: "State University", Tuition: 25000, SATAvg: 1250, AcceptanceRate: 0.65, Location: "CA", Size: types.SizeLarge},
		{Name: "Community College", Tuition: 8000, SATAvg: 1050, AcceptanceRate: 0.90, Location: "TX", Size: types.SizeMedium},
	}

	report, err := eng.BuildReport(profile, colleges, nil, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return report
}

func TestSaveAndListReports(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report := sampleReport(t)

	profile := types.Profile{GPA: 3.8, SATScore: 1400}
	require.NoError(t, svc.SaveReport(ctx, report, profile, "127.0.0.1", "test-agent"))

	entries, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, report.Ranking[0].College.Name, entries[0].TopCollege)
	assert.Equal(t, report.Ranking[0].Score, entries[0].TopScore)
	assert.Len(t, entries[0].ProfileHash, 64, "sha256 hex digest")
}

func TestSaveReportWithEmptyRanking(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	eng, err := engine.New(engine.DefaultConfig())
	require.NoError(t, err)
	report, err := eng.BuildReport(types.Profile{GPA: 3.0}, nil, nil, time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.SaveReport(ctx, report, types.Profile{GPA: 3.0}, "127.0.0.1", ""))

	entries, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].TopCollege)
}

func TestIdenticalProfilesShareHash(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report := sampleReport(t)

	profile := types.Profile{GPA: 3.8}
	require.NoError(t, svc.SaveReport(ctx, report, profile, "127.0.0.1", ""))
	require.NoError(t, svc.SaveReport(ctx, report, profile, "10.0.0.1", ""))

	entries, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].ProfileHash, entries[1].ProfileHash)
}
