package model

import "time"

// User is a login account.  Role is either "admin" or "trainer"; a
// trainer account links to its trainer record so the reports API can
// pin a trainer to their own data.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – "admin" or "trainer".
//  TrainerID    – linked trainer record for trainer accounts (nullable).
//  CreatedAt    – creation timestamp.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	TrainerID    *uint64   // users.trainer_id (nullable)
	CreatedAt    time.Time // users.created_at
}
