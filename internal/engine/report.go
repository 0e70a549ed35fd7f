package engine

import (
	"time"

	"github.com/collegecompass/college-compass/internal/types"
)

// DecisionReport is the composed output of one full engine run: the
// ranking, an aid estimate per ranked college, and the eligible
// scholarships, all computed against the same as-of date.
type DecisionReport struct {
	Ranking      []RankedCollege        `json:"ranking"`
	Aid          map[string]AidEstimate `json:"aid"`
	Scholarships []ScholarshipMatch     `json:"scholarships"`
	AsOf         time.Time              `json:"as_of"`
}

// Engine bundles the three calculators behind one constructor so callers
// validate the config exactly once.
type Engine struct {
	calculator *FitScoreCalculator
	estimator  *AidEstimator
	matcher    *ScholarshipMatcher
}

// New builds an engine from a scoring config.
func New(cfg ScoringConfig) (*Engine, error) {
	calculator, err := NewFitScoreCalculator(cfg)
	if err != nil {
		return nil, err
	}
	estimator, err := NewAidEstimator(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		calculator: calculator,
		estimator:  estimator,
		matcher:    NewScholarshipMatcher(),
	}, nil
}

// Rank scores and orders the colleges for the profile.
func (e *Engine) Rank(profile types.Profile, colleges []types.CollegeRecord) ([]RankedCollege, error) {
	return e.calculator.Rank(profile, colleges)
}

// Estimate computes the aid package for one profile and college.
func (e *Engine) Estimate(profile types.Profile, college types.CollegeRecord) (AidEstimate, error) {
	return e.estimator.Estimate(profile, college)
}

// Match returns scholarships the profile is eligible for as of asOf.
func (e *Engine) Match(profile types.Profile, scholarships []types.ScholarshipRecord, asOf time.Time) ([]ScholarshipMatch, error) {
	return e.matcher.Match(profile, scholarships, asOf)
}

// BuildReport runs ranking, per-college aid estimation and scholarship
// matching against one profile. Any validation failure aborts the whole
// report; a partially filled report is never returned.
func (e *Engine) BuildReport(profile types.Profile, colleges []types.CollegeRecord, scholarships []types.ScholarshipRecord, asOf time.Time) (*DecisionReport, error) {
	ranking, err := e.calculator.Rank(profile, colleges)
	if err != nil {
		return nil, err
	}

	aid := make(map[string]AidEstimate, len(ranking))
	for _, rc := range ranking {
		estimate, err := e.estimator.Estimate(profile, rc.College)
		if err != nil {
			return nil, err
		}
		aid[rc.College.Name] = estimate
	}

	matches, err := e.matcher.Match(profile, scholarships, asOf)
	if err != nil {
		return nil, err
	}

	return &DecisionReport{
		Ranking:      ranking,
		Aid:          aid,
		Scholarships: matches,
		AsOf:         asOf,
	}, nil
}
