package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ttclub/table-booking/internal/model"
	"github.com/ttclub/table-booking/internal/schedule"
)

// BookingRepo provides CRUD operations for bookings.  The create and
// update paths are exposed as Tx variants so the handler can run the
// whole check-then-commit sequence inside one transaction; the caller
// must commit or rollback.  All dates are stored as DATE columns and
// start times as "HH:MM" strings, mirroring minute precision.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for starting transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// dateFmt is the storage and wire format for booking dates.
const dateFmt = "2006-01-02"

// LockTableTx takes a row lock on the table record inside the given
// transaction.  Every booking create/update for a table passes through
// here first, so concurrent attempts on the same table serialize and
// the overlap scan of the second attempt observes the first one's
// committed row.  Returns ErrNotFound when the table does not exist.
func (r *BookingRepo) LockTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tables WHERE id = ? FOR UPDATE`, tableID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// SlotsForTableDateTx fetches all booked intervals for one table and
// date as minute-of-day slots, for the conflict scan.  Rows whose time
// column is unparsable are skipped; they cannot have been written by
// this service.
func (r *BookingRepo) SlotsForTableDateTx(ctx context.Context, tx *sql.Tx, tableID uint64, date string) ([]schedule.Slot, error) {
	const q = `SELECT id, time, duration FROM bookings WHERE table_id = ? AND date = ?`
	rows, err := tx.QueryContext(ctx, q, tableID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]schedule.Slot, 0)
	for rows.Next() {
		var id uint64
		var start string
		var duration int
		if err := rows.Scan(&id, &start, &duration); err != nil {
			return nil, err
		}
		s, e, err := schedule.Interval(start, duration)
		if err != nil {
			continue
		}
		slots = append(slots, schedule.Slot{ID: id, StartMin: s, EndMin: e})
	}
	return slots, rows.Err()
}

// CreateTx inserts a new booking within the transaction and populates
// the generated ID on the provided record.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (customer_id, trainer_id, table_id, date, time, duration, price, info)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.CustomerID, b.TrainerID, b.TableID, b.Date.Format(dateFmt), b.Time, b.Duration, b.Price, b.Info)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// UpdateTx writes the full merged record back within the transaction.
// Partial-field merging happens in the handler; by the time a row
// reaches here it is complete.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings
			   SET customer_id = ?, trainer_id = ?, table_id = ?, date = ?, time = ?, duration = ?, price = ?, info = ?
			   WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		b.CustomerID, b.TrainerID, b.TableID, b.Date.Format(dateFmt), b.Time, b.Duration, b.Price, b.Info, b.ID)
	return err
}

// GetByID returns the raw booking row, or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, customer_id, trainer_id, table_id, date, time, duration, price, info, created_at
			   FROM bookings WHERE id = ?`
	var b model.Booking
	var trainerID sql.NullInt64
	var info sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.CustomerID, &trainerID, &b.TableID, &b.Date, &b.Time,
		&b.Duration, &b.Price, &info, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if trainerID.Valid {
		tid := uint64(trainerID.Int64)
		b.TrainerID = &tid
	}
	if info.Valid {
		b.Info = info.String
	}
	return &b, nil
}

// Delete removes a booking unconditionally.  ErrNotFound when no row
// matched.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
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

// BookingFilter narrows ListDetails.  Zero values mean "no filter".
// StartDate/EndDate are inclusive "YYYY-MM-DD" bounds.  StaffedOnly
// restricts to bookings that have a trainer assigned, which the
// trainer earnings report uses.
type BookingFilter struct {
	StartDate   string
	EndDate     string
	TableID     uint64
	TrainerID   uint64
	StaffedOnly bool
}

// GetDetail returns one booking joined with customer, trainer and
// table reference data, or ErrNotFound.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	details, err := r.queryDetails(ctx, "b.id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}

// ListDetails returns bookings matching the filter, enriched with
// reference-data names, ordered by date and start time.
func (r *BookingRepo) ListDetails(ctx context.Context, f BookingFilter) ([]model.BookingDetail, error) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	if f.StartDate != "" {
		conds = append(conds, "b.date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		conds = append(conds, "b.date <= ?")
		args = append(args, f.EndDate)
	}
	if f.TableID != 0 {
		conds = append(conds, "b.table_id = ?")
		args = append(args, f.TableID)
	}
	if f.TrainerID != 0 {
		conds = append(conds, "b.trainer_id = ?")
		args = append(args, f.TrainerID)
	}
	if f.StaffedOnly {
		conds = append(conds, "b.trainer_id IS NOT NULL")
	}
	where := ""
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}
	return r.queryDetails(ctx, where, args)
}

// queryDetails runs the detail join with an optional WHERE clause.
func (r *BookingRepo) queryDetails(ctx context.Context, where string, args []interface{}) ([]model.BookingDetail, error) {
	q := `SELECT b.id, b.customer_id, c.name, b.trainer_id, t.name, t.hourly_rate,
				 b.table_id, tb.name, b.date, b.time, b.duration, b.price, b.info,
				 c.is_abo_holder, b.created_at
		  FROM bookings b
		  JOIN customers c ON c.id = b.customer_id
		  LEFT JOIN trainers t ON t.id = b.trainer_id
		  JOIN tables tb ON tb.id = b.table_id`
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY b.date, b.time, b.id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.BookingDetail, 0)
	for rows.Next() {
		var d model.BookingDetail
		var trainerID sql.NullInt64
		var trainerName sql.NullString
		var hourlyRate sql.NullFloat64
		var info sql.NullString
		var date, createdAt time.Time
		if err := rows.Scan(
			&d.ID, &d.CustomerID, &d.CustomerName, &trainerID, &trainerName, &hourlyRate,
			&d.TableID, &d.TableName, &date, &d.Time, &d.Duration, &d.Price, &info,
			&d.IsAbo, &createdAt,
		); err != nil {
			return nil, err
		}
		if trainerID.Valid {
			tid := uint64(trainerID.Int64)
			d.TrainerID = &tid
		}
		if trainerName.Valid {
			name := trainerName.String
			d.TrainerName = &name
		}
		if hourlyRate.Valid {
			rate := hourlyRate.Float64
			d.TrainerHourlyRate = &rate
		}
		if info.Valid {
			d.Info = info.String
		}
		d.Date = date.Format(dateFmt)
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		details = append(details, d)
	}
	return details, rows.Err()
}
