package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"simple-atm/internal/core/domain"
	"simple-atm/internal/core/ports"
	"simple-atm/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// idempotencyTTL is how long a committed receipt can be replayed.
const idempotencyTTL = 24 * time.Hour

// ATMServiceImpl implements ports.ATMService over a single shared inventory.
type ATMServiceImpl struct {
	inventory  *domain.Inventory
	journal    ports.JournalService
	idempCache ports.IdempotencyCache // nil disables replays
	inflight   singleflight.Group     // keyed by namespaced idempotency key
	log        zerolog.Logger
}

// NewATMService creates a new ATM service. idempCache may be nil.
func NewATMService(
	inventory *domain.Inventory,
	journal ports.JournalService,
	idempCache ports.IdempotencyCache,
	log zerolog.Logger,
) *ATMServiceImpl {
	return &ATMServiceImpl{
		inventory:  inventory,
		journal:    journal,
		idempCache: idempCache,
		log:        log,
	}
}

// Telemetry returns a consistent snapshot of the inventory.
func (s *ATMServiceImpl) Telemetry(_ context.Context) domain.Telemetry {
	return s.inventory.Snapshot()
}

// Deposit adds a batch of bills atomically.
func (s *ATMServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Receipt, error) {
	return s.idempotent(ctx, domain.JournalKindDeposit, req.IdempotencyKey, depositFingerprint(req.Bills),
		func() (*domain.Receipt, error) { return s.deposit(ctx, req) })
}

func (s *ATMServiceImpl) deposit(ctx context.Context, req ports.DepositRequest) (*domain.Receipt, error) {
	receipt, err := s.inventory.Deposit(req.Bills)
	if err != nil {
		s.log.Warn().
			Str("reason", domain.KindOf(err).String()).
			Str("request_id", req.RequestID).
			Int("batch_size", len(req.Bills)).
			Msg("deposit rejected")
		return nil, apperror.FromDomain(err)
	}

	s.log.Info().
		Int64("amount", domain.SumBills(receipt.Bills)).
		Int64("total_after", receipt.TotalAfter).
		Str("request_id", req.RequestID).
		Msg("deposit committed")

	s.journal.Record(ctx, domain.NewJournalEntry(domain.JournalKindDeposit, receipt, req.RequestID, req.ClientIP))
	return receipt, nil
}

// Withdraw plans a greedy breakdown for the amount and commits it.
func (s *ATMServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Receipt, error) {
	return s.idempotent(ctx, domain.JournalKindWithdrawal, req.IdempotencyKey, withdrawFingerprint(req.Amount),
		func() (*domain.Receipt, error) { return s.withdraw(ctx, req) })
}

func (s *ATMServiceImpl) withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Receipt, error) {
	receipt, err := s.inventory.Withdraw(req.Amount)
	if err != nil {
		s.log.Warn().
			Str("reason", domain.KindOf(err).String()).
			Str("request_id", req.RequestID).
			Int64("amount", req.Amount).
			Msg("withdrawal rejected")
		return nil, apperror.FromDomain(err)
	}

	s.log.Info().
		Int64("amount", req.Amount).
		Int64("total_after", receipt.TotalAfter).
		Str("request_id", req.RequestID).
		Msg("withdrawal committed")

	s.journal.Record(ctx, domain.NewJournalEntry(domain.JournalKindWithdrawal, receipt, req.RequestID, req.ClientIP))
	return receipt, nil
}

// Reset empties the inventory and returns the resulting telemetry.
func (s *ATMServiceImpl) Reset(ctx context.Context, req ports.ResetRequest) (domain.Telemetry, error) {
	s.inventory.Reset()

	s.log.Warn().
		Str("subject", req.Subject).
		Str("request_id", req.RequestID).
		Msg("inventory reset")

	s.journal.Record(ctx, domain.NewJournalEntry(domain.JournalKindReset, nil, req.RequestID, req.ClientIP))
	return s.inventory.Snapshot(), nil
}

// idempotent runs commit at most once per idempotency key.
//
// Calls sharing a key are collapsed while one of them is in flight, and the
// receipt is cached before the key is released, so a later call either joins
// the running commit or replays the cached receipt. The inventory lives in
// this process, which makes the in-process collapse sufficient. A replay whose
// fingerprint differs from the one that committed is rejected.
func (s *ATMServiceImpl) idempotent(
	ctx context.Context,
	kind domain.JournalKind,
	key, fingerprint string,
	commit func() (*domain.Receipt, error),
) (*domain.Receipt, error) {
	if key == "" {
		return commit()
	}

	cacheKey := domain.BuildIdempotencyKey(kind, key)
	v, err, shared := s.inflight.Do(cacheKey, func() (any, error) {
		if rec := s.replay(ctx, cacheKey); rec != nil {
			return rec, nil
		}
		receipt, err := commit()
		if err != nil {
			return nil, err
		}
		rec := &idempotencyRecord{Fingerprint: fingerprint, Receipt: receipt}
		s.remember(ctx, cacheKey, rec)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}

	rec := v.(*idempotencyRecord)
	if rec.Fingerprint != fingerprint {
		s.log.Warn().Str("idempotency_key", key).Str("kind", string(kind)).Msg("idempotency key reused with a different request")
		return nil, apperror.ErrIdempotencyMismatch()
	}
	if shared {
		s.log.Info().Str("idempotency_key", key).Str("kind", string(kind)).Msg("joined in-flight request")
	}
	return rec.Receipt, nil
}

// idempotencyRecord is what the cache holds for a committed key.
type idempotencyRecord struct {
	Fingerprint string          `json:"fingerprint"`
	Receipt     *domain.Receipt `json:"receipt"`
}

// replay returns the cached record for a repeated idempotency key, or nil.
// Cache failures are logged and treated as a miss.
func (s *ATMServiceImpl) replay(ctx context.Context, cacheKey string) *idempotencyRecord {
	if s.idempCache == nil {
		return nil
	}
	cached, err := s.idempCache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", cacheKey).Msg("idempotency lookup failed")
		return nil
	}
	if cached == nil {
		return nil
	}

	var rec idempotencyRecord
	if err := json.Unmarshal(cached, &rec); err != nil || rec.Receipt == nil {
		s.log.Warn().Err(err).Str("idempotency_key", cacheKey).Msg("discarding malformed idempotency entry")
		return nil
	}
	s.log.Info().Str("idempotency_key", cacheKey).Msg("replaying committed receipt")
	return &rec
}

func (s *ATMServiceImpl) remember(ctx context.Context, cacheKey string, rec *idempotencyRecord) {
	if s.idempCache == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn().Err(err).Msg("encoding receipt for idempotency cache")
		return
	}
	if err := s.idempCache.Set(ctx, cacheKey, data, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", cacheKey).Msg("failed to cache receipt")
	}
}

// depositFingerprint identifies a deposit body; entry order is significant.
func depositFingerprint(bills []domain.Bill) string {
	h := sha256.New()
	for _, b := range bills {
		fmt.Fprintf(h, "%d:%d;", b.Value, b.Quantity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func withdrawFingerprint(amount int64) string {
	sum := sha256.Sum256([]byte(strconv.FormatInt(amount, 10)))
	return hex.EncodeToString(sum[:])
}
