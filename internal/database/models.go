package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/collegecompass/college-compass/internal/types"
)

// StoredProfile is the persisted student profile. The app keeps exactly
// one profile row; saving replaces the previous one.
type StoredProfile struct {
	Profile   types.Profile `json:"profile"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SavedReport is one generated decision report kept for history. The full
// report is stored as a JSON payload; the top-ranked college and its score
// are denormalized for cheap listing.
type SavedReport struct {
	ID          string    `json:"id" db:"id"`
	ProfileHash string    `json:"profile_hash" db:"profile_hash"`
	TopCollege  string    `json:"top_college" db:"top_college"`
	TopScore    float64   `json:"top_score" db:"top_score"`
	Payload     string    `json:"-" db:"payload"`
	IPAddress   string    `json:"-" db:"ip_address"`
	UserAgent   string    `json:"-" db:"user_agent"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewSavedReport creates a report row with a generated ID.
func NewSavedReport(profileHash, topCollege string, topScore float64, payload, ipAddress, userAgent string) *SavedReport {
	return &SavedReport{
		ID:          uuid.New().String(),
		ProfileHash: profileHash,
		TopCollege:  topCollege,
		TopScore:    topScore,
		Payload:     payload,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		CreatedAt:   time.Now(),
	}
}
