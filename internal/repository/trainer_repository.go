package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ttclub/table-booking/internal/model"
)

// TrainerRepo provides CRUD operations for trainers.
type TrainerRepo struct {
	db *sql.DB
}

// NewTrainerRepo returns a new TrainerRepo bound to the given database.
func NewTrainerRepo(db *sql.DB) *TrainerRepo { return &TrainerRepo{db: db} }

// Create inserts a trainer and populates its generated ID.
// ErrEmailExists on a duplicate email.
func (r *TrainerRepo) Create(ctx context.Context, t *model.Trainer) error {
	const q = `INSERT INTO trainers (name, email, hourly_rate) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Email, t.HourlyRate)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches one trainer, or ErrNotFound.
func (r *TrainerRepo) GetByID(ctx context.Context, id uint64) (*model.Trainer, error) {
	const q = `SELECT id, name, email, hourly_rate, created_at FROM trainers WHERE id = ?`
	var t model.Trainer
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Email, &t.HourlyRate, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all trainers ordered by ID.
func (r *TrainerRepo) List(ctx context.Context) ([]model.Trainer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, hourly_rate, created_at FROM trainers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Trainer, 0)
	for rows.Next() {
		var t model.Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.HourlyRate, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update writes the full trainer record back.
func (r *TrainerRepo) Update(ctx context.Context, t *model.Trainer) error {
	const q = `UPDATE trainers SET name = ?, email = ?, hourly_rate = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Email, t.HourlyRate, t.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a trainer.  Bookings keep their trainer_id set NULL
// via the FK.
func (r *TrainerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trainers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
