// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// without string matching.
package repository

import "errors"

// ErrNotFound is returned when a referenced booking, customer, trainer
// or table does not exist. Handlers should translate this into an
// HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrSettingsMissing is returned when no settings row exists yet.
// This is distinct from a missing key inside the pricing matrix,
// which is not an error.
var ErrSettingsMissing = errors.New("settings not found")

// ErrUsernameExists is returned when creating a user with a username
// that is already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when creating a trainer with an email
// that is already registered.
var ErrEmailExists = errors.New("email already exists")
