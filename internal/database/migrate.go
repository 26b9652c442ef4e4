package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/ttclub/table-booking/internal/utils"
)

// schema holds the DDL for all tables.  Statements are idempotent so
// Migrate can run on every start.  The composite index on
// (table_id, date) backs the overlap scan of the booking transaction.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS trainers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		hourly_rate DOUBLE NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(80) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		trainer_id BIGINT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_users_trainer FOREIGN KEY (trainer_id) REFERENCES trainers(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		contact VARCHAR(100) NULL,
		is_abo_holder BOOLEAN NOT NULL DEFAULT FALSE,
		abo_start DATE NULL,
		abo_end DATE NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tables (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		customer_id BIGINT UNSIGNED NOT NULL,
		trainer_id BIGINT UNSIGNED NULL,
		table_id BIGINT UNSIGNED NOT NULL,
		date DATE NOT NULL,
		time CHAR(5) NOT NULL,
		duration INT NOT NULL,
		price DOUBLE NOT NULL,
		info TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_bookings_table_date (table_id, date),
		CONSTRAINT fk_bookings_customer FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE,
		CONSTRAINT fk_bookings_trainer FOREIGN KEY (trainer_id) REFERENCES trainers(id) ON DELETE SET NULL,
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES tables(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		pricing_matrix TEXT NOT NULL,
		monthly_rate DOUBLE NOT NULL DEFAULT 50,
		language VARCHAR(5) NOT NULL DEFAULT 'en',
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
}

// Migrate creates all tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// defaultPricingMatrix is the seeded price table: duration in minutes,
// trainer flag, abo flag.
var defaultPricingMatrix = map[string]float64{
	"30_no_trainer_no_abo": 15.0,
	"30_no_trainer_abo":    12.0,
	"30_trainer_no_abo":    25.0,
	"30_trainer_abo":       20.0,
	"60_no_trainer_no_abo": 25.0,
	"60_no_trainer_abo":    20.0,
	"60_trainer_no_abo":    45.0,
	"60_trainer_abo":       35.0,
}

// Seed inserts the default tables, trainers, users and settings on an
// empty database.  It is a no-op when any user already exists.  The
// default admin credentials are admin/admin and are meant to be changed
// immediately.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Println("seeding database")

	for _, name := range []string{"Table 1", "Table 2"} {
		if _, err := db.ExecContext(ctx, `INSERT INTO tables (name) VALUES (?)`, name); err != nil {
			return err
		}
	}

	trainerIDs := make([]int64, 0, 2)
	for _, t := range []struct {
		name  string
		email string
		rate  float64
	}{
		{"John Smith", "john@tabletennis.com", 30.0},
		{"Maria Garcia", "maria@tabletennis.com", 35.0},
	} {
		res, err := db.ExecContext(ctx,
			`INSERT INTO trainers (name, email, hourly_rate) VALUES (?, ?, ?)`, t.name, t.email, t.rate)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		trainerIDs = append(trainerIDs, id)
	}

	adminHash, err := utils.HashPassword("admin", bcryptCost)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, 'admin')`, "admin", adminHash); err != nil {
		return err
	}
	trainerHash, err := utils.HashPassword("trainer123", bcryptCost)
	if err != nil {
		return err
	}
	for i, username := range []string{"john", "maria"} {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role, trainer_id) VALUES (?, ?, 'trainer', ?)`,
			username, trainerHash, trainerIDs[i]); err != nil {
			return err
		}
	}

	matrix, err := json.Marshal(defaultPricingMatrix)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO settings (pricing_matrix, monthly_rate, language) VALUES (?, 50.0, 'en')`, matrix); err != nil {
		return err
	}

	log.Println("database seeded; default admin credentials: admin/admin")
	return nil
}
