package domain

import "errors"

var (
	// Khata errors
	ErrKhataNotFound   = errors.New("khata not found")
	ErrKhataClosed     = errors.New("khata is closed")
	ErrDuplicatePerson = errors.New("an active khata already exists for this person")

	// Entry errors
	ErrEntryNotFound        = errors.New("entry not found")
	ErrEntryAlreadyDeleted  = errors.New("entry is already deleted")
	ErrEntryNotDeleted      = errors.New("entry is not deleted")
	ErrInvalidEntryType     = errors.New("entry type must be credit or debit")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidKhataType     = errors.New("khata type must be client or vendor")
	ErrInvalidKhataStatus   = errors.New("status must be active or closed")
	ErrAggregatesInconsistent = errors.New("stored aggregates do not match entry history")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user with this email already exists")
)

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
