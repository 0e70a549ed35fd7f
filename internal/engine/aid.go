package engine

import (
	"github.com/collegecompass/college-compass/internal/types"
)

// AidEstimate is the derived aid breakdown for one (profile, college)
// pair. Never persisted by the engine; freshly computed per call.
type AidEstimate struct {
	NeedBasedAmount  float64 `json:"need_based_amount"`
	MeritBasedAmount float64 `json:"merit_based_amount"`
	TotalAid         float64 `json:"total_aid"`
	NetCost          float64 `json:"net_cost"`
	EstimatedLoanGap float64 `json:"estimated_loan_gap"`
}

// AidEstimator combines need-based and merit-based aid with floor and
// ceiling clamps. Deterministic, no I/O.
type AidEstimator struct {
	cfg ScoringConfig
}

// NewAidEstimator validates the config and returns an estimator.
func NewAidEstimator(cfg ScoringConfig) (*AidEstimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AidEstimator{cfg: cfg}, nil
}

// Estimate computes the aid package for one profile and college.
// Need-based aid is computed first; merit aid fills only the remaining gap
// up to full tuition, so the pair never double-awards.
func (e *AidEstimator) Estimate(profile types.Profile, college types.CollegeRecord) (AidEstimate, error) {
	if err := validateProfile(profile); err != nil {
		return AidEstimate{}, err
	}
	if err := validateCollege(college); err != nil {
		return AidEstimate{}, err
	}

	need := e.needFraction(profile.AnnualFamilyIncome) * college.Tuition
	if need > college.Tuition {
		need = college.Tuition
	}

	merit := e.meritAward(profile.GPA)
	if remaining := college.Tuition - need; merit > remaining {
		merit = remaining
	}

	total := need + merit

	netCost := college.Tuition - total
	if netCost < 0 {
		netCost = 0
	}

	loanGap := 0.0
	if profile.BudgetCeiling > 0 {
		loanGap = netCost - profile.BudgetCeiling
		if loanGap < 0 {
			loanGap = 0
		}
	}

	return AidEstimate{
		NeedBasedAmount:  need,
		MeritBasedAmount: merit,
		TotalAid:         total,
		NetCost:          netCost,
		EstimatedLoanGap: loanGap,
	}, nil
}

// needFraction is the piecewise taper: full fraction at or below the low
// income bound, zero at or above the high bound, linear in between.
func (e *AidEstimator) needFraction(income float64) float64 {
	if income <= e.cfg.FullNeedIncome {
		return e.cfg.FullNeedFraction
	}
	if income >= e.cfg.ZeroNeedIncome {
		return 0
	}
	span := e.cfg.ZeroNeedIncome - e.cfg.FullNeedIncome
	return e.cfg.FullNeedFraction * (e.cfg.ZeroNeedIncome - income) / span
}

// meritAward returns the award of the highest merit step at or below the
// GPA. Monotonically non-decreasing in GPA by config invariant.
func (e *AidEstimator) meritAward(gpa float64) float64 {
	award := 0.0
	for _, step := range e.cfg.MeritSteps {
		if gpa >= step.MinGPA {
			award = step.Award
		}
	}
	return award
}
