package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/types"
)

// Repository provides persistence operations for the stored profile and
// report history.
type Repository struct {
	db *DB
}

// NewRepository creates a repository backed by the given database.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveProfile persists the student profile, replacing any previous one.
func (r *Repository) SaveProfile(ctx context.Context, profile types.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return errors.NewInternalError("failed to marshal profile", err)
	}

	stmt, err := r.db.GetPreparedStatement("upsert_profile")
	if err != nil {
		return errors.NewInternalError("failed to get prepared statement", err)
	}

	if _, err := stmt.ExecContext(ctx, string(payload), time.Now()); err != nil {
		return errors.NewInternalError("failed to save profile", err)
	}

	return nil
}

// GetProfile returns the stored profile. A missing row is a not-found
// error; callers decide whether that means "use defaults".
func (r *Repository) GetProfile(ctx context.Context) (*StoredProfile, error) {
	stmt, err := r.db.GetPreparedStatement("get_profile")
	if err != nil {
		return nil, errors.NewInternalError("failed to get prepared statement", err)
	}

	var payload string
	var updatedAt time.Time
	if err := stmt.QueryRowContext(ctx).Scan(&payload, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no stored profile")
		}
		return nil, errors.NewInternalError("failed to load profile", err)
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, errors.NewInternalError("failed to unmarshal stored profile", err)
	}

	return &StoredProfile{Profile: profile, UpdatedAt: updatedAt}, nil
}

// InsertReport stores one generated report for history.
func (r *Repository) InsertReport(ctx context.Context, report *SavedReport) error {
	stmt, err := r.db.GetPreparedStatement("insert_report")
	if err != nil {
		return errors.NewInternalError("failed to get prepared statement", err)
	}

	_, err = stmt.ExecContext(ctx,
		report.ID,
		report.ProfileHash,
		report.TopCollege,
		report.TopScore,
		report.Payload,
		report.IPAddress,
		report.UserAgent,
		report.CreatedAt,
	)
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to insert report %s", report.ID), err)
	}

	return nil
}

// ListReports returns the most recent reports, newest first, without
// their full payloads.
func (r *Repository) ListReports(ctx context.Context, limit int) ([]SavedReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	stmt, err := r.db.GetPreparedStatement("list_reports")
	if err != nil {
		return nil, errors.NewInternalError("failed to get prepared statement", err)
	}

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to list reports", err)
	}
	defer rows.Close()

	reports := make([]SavedReport, 0, limit)
	for rows.Next() {
		var report SavedReport
		if err := rows.Scan(&report.ID, &report.ProfileHash, &report.TopCollege, &report.TopScore, &report.CreatedAt); err != nil {
			return nil, errors.NewInternalError("failed to scan report row", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to iterate report rows", err)
	}

	return reports, nil
}
