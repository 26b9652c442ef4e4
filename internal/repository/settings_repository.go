package repository

import (
	"context"
	"database/sql"

	"github.com/ttclub/table-booking/internal/model"
)

// SettingsRepo reads and writes the settings singleton.  The seeder
// creates the single row on first start; Get never invents one so that
// a missing row is surfaced as ErrSettingsMissing.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get returns the settings row, or ErrSettingsMissing when none exists.
func (r *SettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	const q = `SELECT id, pricing_matrix, monthly_rate, language, updated_at FROM settings ORDER BY id LIMIT 1`
	var s model.Settings
	err := r.db.QueryRowContext(ctx, q).Scan(&s.ID, &s.PricingMatrix, &s.MonthlyRate, &s.Language, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsMissing
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update writes the merged settings record back.  Concurrent updates
// resolve last-writer-wins; bookings snapshot their price at commit
// time so a racing policy change never rewrites history.
func (r *SettingsRepo) Update(ctx context.Context, s *model.Settings) error {
	const q = `UPDATE settings SET pricing_matrix = ?, monthly_rate = ?, language = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, s.PricingMatrix, s.MonthlyRate, s.Language, s.ID)
	return err
}
