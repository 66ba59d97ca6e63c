package ports

import (
	"context"
	"time"

	"simple-atm/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for administrative routes.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// IdempotencyCache stores responses of completed requests for replay.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// ATMService is the boundary contract over the shared bill inventory.
type ATMService interface {
	Telemetry(ctx context.Context) domain.Telemetry
	Deposit(ctx context.Context, req DepositRequest) (*domain.Receipt, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Receipt, error)
	Reset(ctx context.Context, req ResetRequest) (domain.Telemetry, error)
}

// DepositRequest holds decoded input for a deposit.
type DepositRequest struct {
	Bills          []domain.Bill
	IdempotencyKey string // optional
	RequestID      string
	ClientIP       string
}

// WithdrawRequest holds decoded input for a withdrawal.
type WithdrawRequest struct {
	Amount         int64
	IdempotencyKey string // optional
	RequestID      string
	ClientIP       string
}

// ResetRequest identifies who emptied the inventory.
type ResetRequest struct {
	Subject   string
	RequestID string
	ClientIP  string
}

// JournalService records and lists committed inventory transactions.
type JournalService interface {
	Record(ctx context.Context, entry *domain.JournalEntry)
	List(ctx context.Context, params JournalListParams) ([]domain.JournalEntry, int64, error)
}

// AdminService authenticates operators.
type AdminService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}
