package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/khata/internal/domain"
	"github.com/iho/khata/internal/usecase"
)

// KhataResponse represents a khata in API responses.
type KhataResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	PersonName     string          `json:"person_name"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	ContactID      string          `json:"contact_id,omitempty"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// KhataFromDomain converts a domain khata to a response.
func KhataFromDomain(k *domain.Khata) *KhataResponse {
	return &KhataResponse{
		ID:             k.ID,
		Type:           string(k.Type),
		PersonName:     k.PersonName,
		Phone:          k.Phone,
		Address:        k.Address,
		Notes:          k.Notes,
		ContactID:      k.ContactID,
		TotalCredit:    k.TotalCredit,
		TotalDebit:     k.TotalDebit,
		CurrentBalance: k.CurrentBalance,
		Status:         string(k.Status),
		CreatedAt:      k.CreatedAt,
		UpdatedAt:      k.UpdatedAt,
	}
}

// KhatasFromDomain converts domain khatas to responses.
func KhatasFromDomain(khatas []*domain.Khata) []*KhataResponse {
	result := make([]*KhataResponse, len(khatas))
	for i, k := range khatas {
		result[i] = KhataFromDomain(k)
	}
	return result
}

// KhataDetailResponse is a khata together with its most recent entries.
type KhataDetailResponse struct {
	Khata         *KhataResponse   `json:"khata"`
	RecentEntries []*EntryResponse `json:"recent_entries"`
}

// ListKhatasResponse is a paginated khata listing.
type ListKhatasResponse struct {
	Khatas []*KhataResponse `json:"khatas"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	KhataID         string          `json:"khata_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Notes           string          `json:"notes,omitempty"`
	IsDeleted       bool            `json:"is_deleted"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		KhataID:         e.KhataID,
		Type:            string(e.Type),
		Amount:          e.Amount,
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		BalanceAfter:    e.BalanceAfter,
		Notes:           e.Notes,
		IsDeleted:       e.IsDeleted,
		DeletedAt:       e.DeletedAt,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// AddEntryResponse is the posted entry plus the khata's new aggregates.
type AddEntryResponse struct {
	Entry *EntryResponse `json:"entry"`
	Khata *KhataResponse `json:"khata"`
}

// ListEntriesResponse is a paginated entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// SummaryRowResponse is a per-type summary row.
type SummaryRowResponse struct {
	Type        string          `json:"type,omitempty"`
	Total       int64           `json:"total"`
	Active      int64           `json:"active"`
	Closed      int64           `json:"closed"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	NetBalance  decimal.Decimal `json:"net_balance"`
}

// SummaryResponse represents the summary endpoint payload.
type SummaryResponse struct {
	Overall SummaryRowResponse    `json:"overall"`
	ByType  []*SummaryRowResponse `json:"by_type"`
}

// SummaryFromResult converts a use case summary result to a response.
func SummaryFromResult(result *usecase.SummaryResult) *SummaryResponse {
	resp := &SummaryResponse{
		Overall: summaryRow(&result.Overall),
		ByType:  make([]*SummaryRowResponse, len(result.ByType)),
	}
	for i, row := range result.ByType {
		r := summaryRow(row)
		resp.ByType[i] = &r
	}
	return resp
}

func summaryRow(s *domain.KhataSummary) SummaryRowResponse {
	return SummaryRowResponse{
		Type:        string(s.Type),
		Total:       s.Total,
		Active:      s.Active,
		Closed:      s.Closed,
		TotalCredit: s.TotalCredit,
		TotalDebit:  s.TotalDebit,
		NetBalance:  s.NetBalance,
	}
}

// VerifyResponse reports an aggregate consistency check.
type VerifyResponse struct {
	KhataID    string          `json:"khata_id"`
	Consistent bool            `json:"consistent"`
	EntryCount int             `json:"entry_count"`
	Stored     AggregatesBlock `json:"stored"`
	Computed   AggregatesBlock `json:"computed"`
}

// AggregatesBlock is one side of a verification comparison.
type AggregatesBlock struct {
	TotalCredit    decimal.Decimal `json:"total_credit"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// VerifyFromResult converts a use case verify result to a response.
func VerifyFromResult(result *usecase.VerifyResult) *VerifyResponse {
	return &VerifyResponse{
		KhataID:    result.KhataID,
		Consistent: result.Consistent,
		EntryCount: result.EntryCount,
		Stored:     aggregatesBlock(result.Stored),
		Computed:   aggregatesBlock(result.Computed),
	}
}

func aggregatesBlock(agg domain.Aggregates) AggregatesBlock {
	return AggregatesBlock{
		TotalCredit:    agg.TotalCredit,
		TotalDebit:     agg.TotalDebit,
		CurrentBalance: agg.CurrentBalance,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
