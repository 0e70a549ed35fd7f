package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

// ScholarshipMatch is an eligible scholarship with its urgency relative to
// the as-of date.
type ScholarshipMatch struct {
	types.ScholarshipRecord
	DaysLeft int `json:"days_left"`
}

// ScholarshipMatcher filters scholarships by the profile's eligibility
// predicate and orders them by deadline urgency.
type ScholarshipMatcher struct{}

// NewScholarshipMatcher returns a matcher. Kept as a constructor for
// symmetry with the other engine components.
func NewScholarshipMatcher() *ScholarshipMatcher {
	return &ScholarshipMatcher{}
}

// Match returns scholarships whose GPA floor the profile meets, whose
// major constraint matches, and whose deadline has not passed as of asOf.
// Past deadlines are excluded outright, not de-prioritized. Ordering:
// ascending deadline, ties by descending amount, then by name.
func (m *ScholarshipMatcher) Match(profile types.Profile, scholarships []types.ScholarshipRecord, asOf time.Time) ([]ScholarshipMatch, error) {
	if profile.GPA < 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("gpa must be non-negative, got %v", profile.GPA))
	}

	matches := make([]ScholarshipMatch, 0, len(scholarships))
	for _, s := range scholarships {
		if s.GPAMin > profile.GPA {
			continue
		}
		if !s.OpenToMajor(profile.IntendedMajor) {
			continue
		}
		if s.Deadline.Before(asOf) {
			continue
		}

		matches = append(matches, ScholarshipMatch{
			ScholarshipRecord: s,
			DaysLeft:          int(s.Deadline.Sub(asOf).Hours() / 24),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Deadline.Equal(matches[j].Deadline) {
			return matches[i].Deadline.Before(matches[j].Deadline)
		}
		if matches[i].Amount != matches[j].Amount {
			return matches[i].Amount > matches[j].Amount
		}
		return matches[i].Name < matches[j].Name
	})

	return matches, nil
}
