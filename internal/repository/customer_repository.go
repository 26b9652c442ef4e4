package repository

import (
	"context"
	"database/sql"

	"github.com/ttclub/table-booking/internal/model"
)

// CustomerRepo provides CRUD operations for customers plus the abo
// aggregation queries used by reports.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id, name, contact, is_abo_holder, abo_start, abo_end, created_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (model.Customer, error) {
	var c model.Customer
	var contact sql.NullString
	var aboStart, aboEnd sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &contact, &c.IsAboHolder, &aboStart, &aboEnd, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	if contact.Valid {
		c.Contact = contact.String
	}
	if aboStart.Valid {
		t := aboStart.Time
		c.AboStart = &t
	}
	if aboEnd.Valid {
		t := aboEnd.Time
		c.AboEnd = &t
	}
	return c, nil
}

// Create inserts a customer and populates its generated ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO customers (name, contact, is_abo_holder, abo_start, abo_end) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Contact, c.IsAboHolder, c.AboStart, c.AboEnd)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches one customer, or ErrNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by ID.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerCols+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update writes the full customer record back.  ErrNotFound when the
// row does not exist.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	const q = `UPDATE customers SET name = ?, contact = ?, is_abo_holder = ?, abo_start = ?, abo_end = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Contact, c.IsAboHolder, c.AboStart, c.AboEnd, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// Zero rows can also mean an identical write; confirm existence.
	if n == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a customer and, via FK cascade, their bookings.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
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

// CustomerBookingCount pairs a customer with the number of bookings
// they hold, for the customer report.
type CustomerBookingCount struct {
	Customer     model.Customer
	BookingCount int
}

// ListWithBookingCounts returns every customer with their booking
// count in one query.
func (r *CustomerRepo) ListWithBookingCounts(ctx context.Context) ([]CustomerBookingCount, error) {
	const q = `SELECT c.id, c.name, c.contact, c.is_abo_holder, c.abo_start, c.abo_end, c.created_at,
					  COUNT(b.id)
			   FROM customers c
			   LEFT JOIN bookings b ON b.customer_id = c.id
			   GROUP BY c.id
			   ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CustomerBookingCount, 0)
	for rows.Next() {
		var c model.Customer
		var contact sql.NullString
		var aboStart, aboEnd sql.NullTime
		var count int
		if err := rows.Scan(&c.ID, &c.Name, &contact, &c.IsAboHolder, &aboStart, &aboEnd, &c.CreatedAt, &count); err != nil {
			return nil, err
		}
		if contact.Valid {
			c.Contact = contact.String
		}
		if aboStart.Valid {
			t := aboStart.Time
			c.AboStart = &t
		}
		if aboEnd.Valid {
			t := aboEnd.Time
			c.AboEnd = &t
		}
		out = append(out, CustomerBookingCount{Customer: c, BookingCount: count})
	}
	return out, rows.Err()
}

// CountAboStartedIn counts abo holders whose subscription started in
// the given month, for the monthly report's abo revenue line.
func (r *CustomerRepo) CountAboStartedIn(ctx context.Context, year, month int) (int, error) {
	const q = `SELECT COUNT(*) FROM customers
			   WHERE is_abo_holder = TRUE AND YEAR(abo_start) = ? AND MONTH(abo_start) = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, year, month).Scan(&n)
	return n, err
}

// ListActiveAbo returns abo holders whose subscription window has not
// ended before the given date.
func (r *CustomerRepo) ListActiveAbo(ctx context.Context, today string) ([]model.Customer, error) {
	const q = `SELECT ` + customerCols + ` FROM customers
			   WHERE is_abo_holder = TRUE AND abo_end >= ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MonthlyAboSales returns, for each month 1..12 of the year, how many
// abo subscriptions started in that month.
func (r *CustomerRepo) MonthlyAboSales(ctx context.Context, year int) ([12]int, error) {
	var sales [12]int
	const q = `SELECT MONTH(abo_start), COUNT(*) FROM customers
			   WHERE is_abo_holder = TRUE AND YEAR(abo_start) = ?
			   GROUP BY MONTH(abo_start)`
	rows, err := r.db.QueryContext(ctx, q, year)
	if err != nil {
		return sales, err
	}
	defer rows.Close()
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return sales, err
		}
		if month >= 1 && month <= 12 {
			sales[month-1] = count
		}
	}
	return sales, rows.Err()
}
