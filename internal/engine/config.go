package engine

import (
	"fmt"

	"github.com/collegecompass/college-compass/internal/errors"
)

// Factor names recognized in a profile's preference weight map.
const (
	FactorAcademicFit = "academic_fit"
	FactorCost        = "cost"
	FactorSelectivity = "selectivity"
	FactorLocation    = "location"
)

// Factors returns the full factor set in canonical order. Sub-scores and
// weighted totals are always accumulated in this order so repeated runs
// produce bit-identical results.
func Factors() []string {
	return []string{FactorAcademicFit, FactorCost, FactorSelectivity, FactorLocation}
}

// MeritStep unlocks a fixed merit award at a GPA threshold.
type MeritStep struct {
	MinGPA float64 `json:"min_gpa"`
	Award  float64 `json:"award"`
}

// ScoringConfig carries every tunable the engine uses. It is passed
// explicitly into the engine constructors; there is no process-wide state.
type ScoringConfig struct {
	// AcademicTolerance is the SAT distance at which the academic fit
	// sub-score reaches zero (400 on a 1600 scale by default).
	AcademicTolerance float64 `json:"academic_tolerance"`

	// Need-based aid tapers linearly from FullNeedFraction of tuition at
	// FullNeedIncome down to zero at ZeroNeedIncome.
	FullNeedIncome   float64 `json:"full_need_income"`
	ZeroNeedIncome   float64 `json:"zero_need_income"`
	FullNeedFraction float64 `json:"full_need_fraction"`

	// MeritSteps must be sorted ascending by MinGPA with non-decreasing
	// awards. The highest step at or below the student's GPA applies.
	MeritSteps []MeritStep `json:"merit_steps"`
}

// DefaultConfig returns the shipped scoring configuration, mirroring the
// income bands and GPA tiers of the original aid tables.
func DefaultConfig() ScoringConfig {
	return ScoringConfig{
		AcademicTolerance: 400,
		FullNeedIncome:    30000,
		ZeroNeedIncome:    120000,
		FullNeedFraction:  0.9,
		MeritSteps: []MeritStep{
			{MinGPA: 3.5, Award: 3000},
			{MinGPA: 3.7, Award: 6000},
			{MinGPA: 3.9, Award: 10000},
		},
	}
}

// Validate rejects malformed threshold tables. Errors are surfaced
// immediately and never defaulted.
func (c ScoringConfig) Validate() error {
	if c.AcademicTolerance <= 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("academic_tolerance must be positive, got %v", c.AcademicTolerance), nil)
	}
	if c.FullNeedIncome < 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("full_need_income must be non-negative, got %v", c.FullNeedIncome), nil)
	}
	if c.ZeroNeedIncome <= c.FullNeedIncome {
		return errors.NewConfigurationError(
			fmt.Sprintf("zero_need_income (%v) must exceed full_need_income (%v)",
				c.ZeroNeedIncome, c.FullNeedIncome), nil)
	}
	if c.FullNeedFraction < 0 || c.FullNeedFraction > 1 {
		return errors.NewConfigurationError(
			fmt.Sprintf("full_need_fraction must be in [0,1], got %v", c.FullNeedFraction), nil)
	}

	prev := MeritStep{MinGPA: -1, Award: 0}
	for i, step := range c.MeritSteps {
		if step.Award < 0 {
			return errors.NewConfigurationError(
				fmt.Sprintf("merit step %d has negative award %v", i, step.Award), nil)
		}
		if step.MinGPA <= prev.MinGPA {
			return errors.NewConfigurationError(
				fmt.Sprintf("merit steps must be sorted ascending by min_gpa (step %d)", i), nil)
		}
		if step.Award < prev.Award {
			return errors.NewConfigurationError(
				fmt.Sprintf("merit awards must be non-decreasing (step %d)", i), nil)
		}
		prev = step
	}

	return nil
}

// validateWeights rejects weight maps with negative weights or unknown
// factor names.
func validateWeights(weights map[string]float64) error {
	known := make(map[string]bool, 4)
	for _, f := range Factors() {
		known[f] = true
	}

	for name, w := range weights {
		if !known[name] {
			return errors.NewConfigurationError(
				fmt.Sprintf("unknown preference factor %q", name), nil)
		}
		if w < 0 {
			return errors.NewConfigurationError(
				fmt.Sprintf("preference weight for %q is negative (%v)", name, w), nil)
		}
	}

	return nil
}
