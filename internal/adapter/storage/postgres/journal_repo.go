package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"simple-atm/internal/core/domain"
	"simple-atm/internal/core/ports"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id          UUID PRIMARY KEY,
		kind        VARCHAR(16) NOT NULL,
		bills       JSONB NOT NULL DEFAULT '[]'::jsonb,
		amount      BIGINT NOT NULL,
		total_after BIGINT NOT NULL,
		request_id  VARCHAR(64) NOT NULL DEFAULT '',
		client_ip   VARCHAR(45) NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at ON journal_entries (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_kind ON journal_entries (kind)`,
}

// JournalRepo implements ports.JournalRepository.
type JournalRepo struct {
	pool Pool
}

// NewJournalRepo creates a new JournalRepo.
func NewJournalRepo(pool Pool) *JournalRepo {
	return &JournalRepo{pool: pool}
}

// EnsureSchema creates the journal table and its indexes in one transaction.
func (r *JournalRepo) EnsureSchema(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply journal schema: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Create inserts a journal entry.
func (r *JournalRepo) Create(ctx context.Context, e *domain.JournalEntry) error {
	bills, err := encodeBills(e.Bills)
	if err != nil {
		return err
	}

	query := `INSERT INTO journal_entries (id, kind, bills, amount, total_after, request_id, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.pool.Exec(ctx, query,
		e.ID, string(e.Kind), bills, e.Amount, e.TotalAfter,
		e.RequestID, e.ClientIP, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// List fetches journal entries newest first, optionally filtered by kind.
func (r *JournalRepo) List(ctx context.Context, params ports.JournalListParams) ([]domain.JournalEntry, int64, error) {
	var args []any
	where := ""
	if params.Kind != nil {
		where = "WHERE kind = $1"
		args = append(args, string(*params.Kind))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM journal_entries " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count journal entries: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT id, kind, bills, amount, total_after, request_id, client_ip, created_at
		FROM journal_entries %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, params.PageSize)
	for rows.Next() {
		var (
			e     domain.JournalEntry
			kind  string
			bills []byte
		)
		if err := rows.Scan(&e.ID, &kind, &bills, &e.Amount, &e.TotalAfter, &e.RequestID, &e.ClientIP, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan journal row: %w", err)
		}
		e.Kind = domain.JournalKind(kind)
		if e.Bills, err = decodeBills(bills); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate journal rows: %w", err)
	}
	return entries, total, nil
}

func encodeBills(bills []domain.Bill) ([]byte, error) {
	if bills == nil {
		bills = []domain.Bill{}
	}
	data, err := json.Marshal(bills)
	if err != nil {
		return nil, fmt.Errorf("encode journal bills: %w", err)
	}
	return data, nil
}

func decodeBills(data []byte) ([]domain.Bill, error) {
	if len(data) == 0 {
		return []domain.Bill{}, nil
	}
	var bills []domain.Bill
	if err := json.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("decode journal bills: %w", err)
	}
	return bills, nil
}
