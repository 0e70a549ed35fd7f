package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/collegecompass/college-compass/internal/database"
	"github.com/collegecompass/college-compass/internal/engine"
	"github.com/collegecompass/college-compass/internal/types"
)

// Service records generated decision reports for later review.
type Service struct {
	repo *database.Repository
}

// NewService creates a new history service.
func NewService(repo *database.Repository) *Service {
	return &Service{repo: repo}
}

// SaveReport stores a generated report. The profile is hashed rather than
// stored, so the history carries no raw academic or income data.
func (s *Service) SaveReport(ctx context.Context, report *engine.DecisionReport, profile types.Profile, ipAddress, userAgent string) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	hash := sha256.Sum256(profileJSON)
	profileHash := hex.EncodeToString(hash[:])

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	topCollege := ""
	topScore := 0.0
	if len(report.Ranking) > 0 {
		topCollege = report.Ranking[0].College.Name
		topScore = report.Ranking[0].Score
	}

	saved := database.NewSavedReport(profileHash, topCollege, topScore, string(payload), ipAddress, userAgent)
	if err := s.repo.InsertReport(ctx, saved); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	slog.Info("Report saved to history",
		"profile_hash", profileHash[:8]+"...",
		"top_college", topCollege,
		"top_score", topScore,
	)

	return nil
}

// List returns recent report summaries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]database.SavedReport, error) {
	return s.repo.ListReports(ctx, limit)
}
