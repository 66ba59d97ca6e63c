package dto

import (
	"strconv"
	"time"

	"simple-atm/internal/core/domain"
)

// BillPayload is one (value, quantity) pair in a request or response.
type BillPayload struct {
	Value    int64 `json:"value"`
	Quantity int64 `json:"quantity"`
}

// DepositRequest is the request body for a deposit. Denomination and
// quantity checks are left to the inventory so they map to ATM_001/ATM_002.
// An empty list is a valid no-op deposit; a missing list is not.
type DepositRequest struct {
	Bills []BillPayload `json:"bills" binding:"required"`
}

// ToBills converts the payload to domain bills.
func (r DepositRequest) ToBills() []domain.Bill {
	bills := make([]domain.Bill, 0, len(r.Bills))
	for _, b := range r.Bills {
		bills = append(bills, domain.Bill{Value: domain.Denomination(b.Value), Quantity: b.Quantity})
	}
	return bills
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Total int64 `json:"total"`
}

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// TelemetryResponse reports the inventory total and per-denomination counts.
type TelemetryResponse struct {
	Total int64            `json:"total"`
	Bills map[string]int64 `json:"bills"`
}

// NewTelemetryResponse converts a snapshot, keying counts by face value.
func NewTelemetryResponse(t domain.Telemetry) TelemetryResponse {
	bills := make(map[string]int64, len(t.Bills))
	for d, n := range t.Bills {
		bills[strconv.FormatInt(int64(d), 10)] = n
	}
	return TelemetryResponse{Total: t.Total, Bills: bills}
}

// ReceiptResponse is the response body for a committed deposit or withdrawal.
type ReceiptResponse struct {
	Bills []BillPayload `json:"bills"`
	Total int64         `json:"total"` // inventory total after the transaction
}

// NewReceiptResponse converts a domain receipt.
func NewReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{Bills: toBillPayloads(r.Bills), Total: r.TotalAfter}
}

// JournalQuery holds the query string for listing journal entries.
type JournalQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Kind     string `form:"kind" binding:"omitempty,journal_kind"`
}

// JournalEntryResponse is one journal entry.
type JournalEntryResponse struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Bills      []BillPayload `json:"bills"`
	Amount     int64         `json:"amount"`
	TotalAfter int64         `json:"total_after"`
	RequestID  string        `json:"request_id,omitempty"`
	ClientIP   string        `json:"client_ip,omitempty"`
	CreatedAt  string        `json:"created_at"`
}

// JournalListResponse wraps a paginated journal listing.
type JournalListResponse struct {
	Items      []JournalEntryResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// NewJournalEntryResponse converts a domain journal entry.
func NewJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		Bills:      toBillPayloads(e.Bills),
		Amount:     e.Amount,
		TotalAfter: e.TotalAfter,
		RequestID:  e.RequestID,
		ClientIP:   e.ClientIP,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBillPayloads(bills []domain.Bill) []BillPayload {
	out := make([]BillPayload, 0, len(bills))
	for _, b := range bills {
		out = append(out, BillPayload{Value: int64(b.Value), Quantity: b.Quantity})
	}
	return out
}
