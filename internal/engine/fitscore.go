package engine

import (
	"fmt"
	"sort"

	"github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

// FactorScore is one factor's normalized sub-score and the weight that was
// applied to it in the aggregate.
type FactorScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// ScoreBreakdown explains how a college's total fit score was assembled.
// Factors excluded from aggregation (cost, when no budget is given) do not
// appear at all.
type ScoreBreakdown struct {
	Factors map[string]FactorScore `json:"factors"`
	Total   float64                `json:"total"`
}

// RankedCollege pairs a college with its total score and breakdown.
type RankedCollege struct {
	College   types.CollegeRecord `json:"college"`
	Score     float64             `json:"score"`
	Breakdown ScoreBreakdown      `json:"breakdown"`
}

// FitScoreCalculator ranks colleges against a profile using normalized,
// weighted per-factor sub-scores.
type FitScoreCalculator struct {
	cfg ScoringConfig
}

// NewFitScoreCalculator validates the config and returns a calculator.
func NewFitScoreCalculator(cfg ScoringConfig) (*FitScoreCalculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FitScoreCalculator{cfg: cfg}, nil
}

// Rank scores every college against the profile and returns them ordered
// descending by total score, ties broken by ascending tuition, then by
// name. An empty college slice yields an empty ranking and no error.
func (c *FitScoreCalculator) Rank(profile types.Profile, colleges []types.CollegeRecord) ([]RankedCollege, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := validateWeights(profile.PreferenceWeights); err != nil {
		return nil, err
	}

	weights := activeWeights(profile)

	ranked := make([]RankedCollege, 0, len(colleges))
	for _, college := range colleges {
		if err := validateCollege(college); err != nil {
			return nil, err
		}

		breakdown := c.score(profile, college, weights)
		ranked = append(ranked, RankedCollege{
			College:   college,
			Score:     breakdown.Total,
			Breakdown: breakdown,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].College.Tuition != ranked[j].College.Tuition {
			return ranked[i].College.Tuition < ranked[j].College.Tuition
		}
		return ranked[i].College.Name < ranked[j].College.Name
	})

	return ranked, nil
}

// score computes the per-factor sub-scores and the weighted total for one
// college. Accumulation follows the canonical factor order.
func (c *FitScoreCalculator) score(profile types.Profile, college types.CollegeRecord, weights map[string]float64) ScoreBreakdown {
	breakdown := ScoreBreakdown{Factors: make(map[string]FactorScore, len(weights))}

	for _, factor := range Factors() {
		weight, active := weights[factor]
		if !active {
			continue
		}

		var sub float64
		switch factor {
		case FactorAcademicFit:
			sub = academicFit(profile.SATScore, college.SATAvg, c.cfg.AcademicTolerance)
		case FactorCost:
			sub = costFit(college.Tuition, profile.BudgetCeiling)
		case FactorSelectivity:
			sub = clamp01(college.AcceptanceRate)
		case FactorLocation:
			sub = locationFit(college.Location, profile.LocationPreferences)
		}

		breakdown.Factors[factor] = FactorScore{Score: sub, Weight: weight}
		breakdown.Total += weight * sub
	}

	breakdown.Total = clamp01(breakdown.Total)
	return breakdown
}

// activeWeights normalizes the profile's preference weights to sum to 1
// over the active factor set. The cost factor is excluded when no budget
// ceiling is given, which redistributes its weight proportionally across
// the remaining factors. An all-zero weight map falls back to equal
// weighting rather than producing a degenerate zero score.
func activeWeights(profile types.Profile) map[string]float64 {
	active := make([]string, 0, 4)
	for _, f := range Factors() {
		if f == FactorCost && profile.BudgetCeiling == 0 {
			continue
		}
		active = append(active, f)
	}

	sum := 0.0
	for _, f := range active {
		sum += profile.PreferenceWeights[f]
	}

	weights := make(map[string]float64, len(active))
	if sum == 0 {
		equal := 1.0 / float64(len(active))
		for _, f := range active {
			weights[f] = equal
		}
		return weights
	}

	for _, f := range active {
		weights[f] = profile.PreferenceWeights[f] / sum
	}
	return weights
}

func validateProfile(p types.Profile) error {
	if p.GPA < 0 {
		return errors.NewValidationError(fmt.Sprintf("gpa must be non-negative, got %v", p.GPA))
	}
	if p.SATScore < 0 {
		return errors.NewValidationError(fmt.Sprintf("sat_score must be non-negative, got %v", p.SATScore))
	}
	if p.AnnualFamilyIncome < 0 {
		return errors.NewValidationError(fmt.Sprintf("annual_family_income must be non-negative, got %v", p.AnnualFamilyIncome))
	}
	if p.BudgetCeiling < 0 {
		return errors.NewValidationError(fmt.Sprintf("budget_ceiling must be non-negative, got %v", p.BudgetCeiling))
	}
	return nil
}

func validateCollege(c types.CollegeRecord) error {
	if c.Tuition < 0 {
		return errors.NewValidationError(fmt.Sprintf("college %q has negative tuition %v", c.Name, c.Tuition))
	}
	if c.SATAvg < 0 {
		return errors.NewValidationError(fmt.Sprintf("college %q has negative sat_avg %v", c.Name, c.SATAvg))
	}
	if c.AcceptanceRate < 0 || c.AcceptanceRate > 1 {
		return errors.NewValidationError(fmt.Sprintf("college %q has acceptance_rate %v outside [0,1]", c.Name, c.AcceptanceRate))
	}
	return nil
}
