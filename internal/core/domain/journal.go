package domain

import (
	"time"

	"github.com/google/uuid"
)

// JournalKind identifies which inventory transaction produced an entry.
type JournalKind string

const (
	JournalKindDeposit    JournalKind = "DEPOSIT"
	JournalKindWithdrawal JournalKind = "WITHDRAWAL"
	JournalKindReset      JournalKind = "RESET"
)

// JournalEntry is an append-only record of a committed inventory transaction.
// Entries are informational; the inventory is never rebuilt from them.
type JournalEntry struct {
	ID         uuid.UUID   `json:"id"`
	Kind       JournalKind `json:"kind"`
	Bills      []Bill      `json:"bills"`
	Amount     int64       `json:"amount"`
	TotalAfter int64       `json:"total_after"`
	RequestID  string      `json:"request_id,omitempty"`
	ClientIP   string      `json:"client_ip,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewJournalEntry builds an entry for a committed receipt.
func NewJournalEntry(kind JournalKind, receipt *Receipt, requestID, clientIP string) *JournalEntry {
	entry := &JournalEntry{
		ID:        uuid.New(),
		Kind:      kind,
		RequestID: requestID,
		ClientIP:  clientIP,
		CreatedAt: time.Now().UTC(),
	}
	if receipt != nil {
		entry.Bills = receipt.Bills
		entry.Amount = SumBills(receipt.Bills)
		entry.TotalAfter = receipt.TotalAfter
	}
	return entry
}

// BuildIdempotencyKey namespaces a client-supplied idempotency key by operation.
func BuildIdempotencyKey(kind JournalKind, key string) string {
	return string(kind) + ":" + key
}
