package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
)

// CreateKhataRequest represents a request to open a khata.
type CreateKhataRequest struct {
	Type       string `json:"type"`
	PersonName string `json:"person_name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	Notes      string `json:"notes,omitempty"`
	ContactID  string `json:"contact_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateKhataRequest) ToUseCaseInput() usecase.CreateKhataInput {
	return usecase.CreateKhataInput{
		Type:       domain.KhataType(r.Type),
		PersonName: r.PersonName,
		Phone:      r.Phone,
		Address:    r.Address,
		Notes:      r.Notes,
		ContactID:  r.ContactID,
	}
}

// UpdateKhataRequest represents a partial khata update. Absent fields
// are left untouched.
type UpdateKhataRequest struct {
	PersonName *string `json:"person_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateKhataRequest) ToUseCaseInput() usecase.UpdateKhataInput {
	input := usecase.UpdateKhataInput{
		PersonName: r.PersonName,
		Phone:      r.Phone,
		Address:    r.Address,
		Notes:      r.Notes,
	}
	if r.Status != nil {
		status := domain.KhataStatus(*r.Status)
		input.Status = &status
	}
	return input
}

// AddEntryRequest represents a request to post a credit or debit.
type AddEntryRequest struct {
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	TransactionDate *time.Time      `json:"transaction_date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddEntryRequest) ToUseCaseInput() usecase.AddEntryInput {
	return usecase.AddEntryInput{
		Type:            domain.EntryType(r.Type),
		Amount:          r.Amount,
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
		Notes:           r.Notes,
	}
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
