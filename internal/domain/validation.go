package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidPersonName = errors.New("invalid person name")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrPasswordTooWeak   = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxPersonNameLength = 255
	MaxNotesLength      = 2000
	MaxEntryAmount      = "1000000000" // 1 billion
	MinPasswordLength   = 8
	MaxPasswordLength   = 128
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{4,19}$`)
)

// ValidatePersonName validates the person name of a khata.
func ValidatePersonName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPersonName)
	}

	if len(name) > MaxPersonNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPersonName, MaxPersonNameLength)
	}

	return nil
}

// ValidatePhone validates an optional phone number.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}

	return nil
}

// ValidateAmount validates an entry amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxEntryAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination normalizes page/limit query parameters.
func ValidatePagination(page, limit int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if page <= 0 {
		page = 1
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit
}
