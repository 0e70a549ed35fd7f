package types

import (
	"strings"
	"time"
)

// Size buckets a college by enrollment.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// ValidSize reports whether s is one of the known size buckets.
func ValidSize(s Size) bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Profile holds a student's decision inputs for one scoring run.
// It is constructed once per session and never mutated by the engine.
type Profile struct {
	GPA                 float64            `json:"gpa"`
	SATScore            float64            `json:"sat_score"`
	IntendedMajor       string             `json:"intended_major"`
	AnnualFamilyIncome  float64            `json:"annual_family_income"`
	BudgetCeiling       float64            `json:"budget_ceiling"`
	LocationPreferences []string           `json:"location_preferences,omitempty"`
	PreferenceWeights   map[string]float64 `json:"preference_weights,omitempty"`
}

// UnconstrainedMajor reports whether the profile places no restriction on major.
func (p Profile) UnconstrainedMajor() bool {
	return p.IntendedMajor == "" || strings.EqualFold(p.IntendedMajor, "Any")
}

// CollegeRecord is one college's comparison attributes, immutable once loaded.
type CollegeRecord struct {
	Name           string  `json:"name"`
	Tuition        float64 `json:"tuition"`
	SATAvg         float64 `json:"sat_avg"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Location       string  `json:"location"`
	Size           Size    `json:"size"`
}

// ScholarshipRecord is one scholarship's eligibility attributes,
// immutable once loaded.
type ScholarshipRecord struct {
	Name     string    `json:"name"`
	Amount   float64   `json:"amount"`
	GPAMin   float64   `json:"gpa_min"`
	Major    string    `json:"major"`
	Deadline time.Time `json:"deadline"`
}

// OpenToMajor reports whether the scholarship accepts the given intended
// major. An "Any" scholarship accepts everyone; an unconstrained profile
// matches every scholarship.
func (s ScholarshipRecord) OpenToMajor(intended string) bool {
	if intended == "" || strings.EqualFold(intended, "Any") {
		return true
	}
	return strings.EqualFold(s.Major, "Any") || strings.EqualFold(s.Major, intended)
}

// ReportRequest is the payload for the report, rank and scholarship endpoints.
type ReportRequest struct {
	Profile Profile `json:"profile" binding:"required"`
	AsOf    string  `json:"as_of,omitempty"` // ISO date, defaults to today
}

// AidRequest is the payload for the aid estimate endpoint.
type AidRequest struct {
	Profile Profile `json:"profile" binding:"required"`
	College string  `json:"college" binding:"required"`
}
