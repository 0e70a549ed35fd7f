package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

func TestNeedFraction(t *testing.T) {
	estimator, err := NewAidEstimator(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		income   float64
		expected float64
	}{
		{name: "below low threshold gets full fraction", income: 20000, expected: 0.9},
		{name: "at low threshold gets full fraction", income: 30000, expected: 0.9},
		{name: "midpoint tapers linearly", income: 75000, expected: 0.45},
		{name: "at high threshold gets zero", income: 120000, expected: 0.0},
		{name: "above high threshold stays zero", income: 250000, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, estimator.needFraction(tt.income), 1e-9)
		})
	}
}

func TestMeritAward(t *testing.T) {
	estimator, err := NewAidEstimator(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		gpa      float64
		expected float64
	}{
		{name: "below first step gets nothing", gpa: 3.2, expected: 0},
		{name: "at first step", gpa: 3.5, expected: 3000},
		{name: "between steps keeps lower award", gpa: 3.6, expected: 3000},
		{name: "at second step", gpa: 3.7, expected: 6000},
		{name: "top step", gpa: 4.0, expected: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, estimator.meritAward(tt.gpa))
		})
	}
}

func TestEstimate(t *testing.T) {
	estimator, err := NewAidEstimator(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		profile  types.Profile
		college  types.CollegeRecord
		expected AidEstimate
	}{
		{
			name:    "mid income with merit tier",
			profile: types.Profile{GPA: 3.8, AnnualFamilyIncome: 40000, BudgetCeiling: 20000},
			college: types.CollegeRecord{Name: "State U", Tuition: 25000},
			expected: AidEstimate{
				// need fraction at 40k income = 0.9 * 80/90 = 0.8
				NeedBasedAmount:  20000,
				MeritBasedAmount: 5000, // 6000 capped to the 5000 gap
				TotalAid:         25000,
				NetCost:          0,
				EstimatedLoanGap: 0,
			},
		},
		{
			name:    "high income pays full freight minus merit",
			profile: types.Profile{GPA: 3.9, AnnualFamilyIncome: 200000, BudgetCeiling: 15000},
			college: types.CollegeRecord{Name: "Private U", Tuition: 50000},
			expected: AidEstimate{
				NeedBasedAmount:  0,
				MeritBasedAmount: 10000,
				TotalAid:         10000,
				NetCost:          40000,
				EstimatedLoanGap: 25000,
			},
		},
		{
			name:    "no budget ceiling means no loan gap",
			profile: types.Profile{GPA: 3.0, AnnualFamilyIncome: 150000, BudgetCeiling: 0},
			college: types.CollegeRecord{Name: "Private U", Tuition: 50000},
			expected: AidEstimate{
				NeedBasedAmount:  0,
				MeritBasedAmount: 0,
				TotalAid:         0,
				NetCost:          50000,
				EstimatedLoanGap: 0,
			},
		},
		{
			name:    "free tuition yields zero everything",
			profile: types.Profile{GPA: 4.0, AnnualFamilyIncome: 10000, BudgetCeiling: 5000},
			college: types.CollegeRecord{Name: "Tuition-Free College", Tuition: 0},
			expected: AidEstimate{
				NeedBasedAmount:  0,
				MeritBasedAmount: 0,
				TotalAid:         0,
				NetCost:          0,
				EstimatedLoanGap: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := estimator.Estimate(tt.profile, tt.college)
			require.NoError(t, err)

			assert.InDelta(t, tt.expected.NeedBasedAmount, got.NeedBasedAmount, 1e-9)
			assert.InDelta(t, tt.expected.MeritBasedAmount, got.MeritBasedAmount, 1e-9)
			assert.InDelta(t, tt.expected.TotalAid, got.TotalAid, 1e-9)
			assert.InDelta(t, tt.expected.NetCost, got.NetCost, 1e-9)
			assert.InDelta(t, tt.expected.EstimatedLoanGap, got.EstimatedLoanGap, 1e-9)
		})
	}
}

func TestEstimateNeverExceedsTuition(t *testing.T) {
	estimator, err := NewAidEstimator(DefaultConfig())
	require.NoError(t, err)

	incomes := []float64{0, 15000, 30000, 45000, 75000, 119000, 120000, 300000}
	gpas := []float64{0, 2.5, 3.5, 3.7, 3.9, 4.0}
	tuitions := []float64{0, 3000, 12000, 25000, 60000}

	for _, income := range incomes {
		for _, gpa := range gpas {
			for _, tuition := range tuitions {
				got, err := estimator.Estimate(
					types.Profile{GPA: gpa, AnnualFamilyIncome: income},
					types.CollegeRecord{Name: "X", Tuition: tuition},
				)
				require.NoError(t, err)

				assert.LessOrEqual(t, got.TotalAid, tuition+1e-9,
					"income=%v gpa=%v tuition=%v", income, gpa, tuition)
				assert.GreaterOrEqual(t, got.NetCost, 0.0)
				assert.InDelta(t, tuition-got.TotalAid, got.NetCost, 1e-9)
			}
		}
	}
}

func TestEstimateRejectsNegativeInputs(t *testing.T) {
	estimator, err := NewAidEstimator(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name    string
		profile types.Profile
		college types.CollegeRecord
	}{
		{name: "negative gpa", profile: types.Profile{GPA: -0.1}},
		{name: "negative income", profile: types.Profile{AnnualFamilyIncome: -1}},
		{name: "negative tuition", college: types.CollegeRecord{Name: "Bad U", Tuition: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := estimator.Estimate(tt.profile, tt.college)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}
