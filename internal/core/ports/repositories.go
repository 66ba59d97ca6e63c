package ports

import (
	"context"

	"simple-atm/internal/core/domain"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// JournalRepository persists committed inventory transactions.
type JournalRepository interface {
	Create(ctx context.Context, entry *domain.JournalEntry) error
	List(ctx context.Context, params JournalListParams) ([]domain.JournalEntry, int64, error)
}

// JournalListParams holds filter + pagination for listing journal entries.
type JournalListParams struct {
	Kind     *domain.JournalKind
	Page     int
	PageSize int
}

// Offset returns the row offset for the requested page (1-based).
func (p JournalListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
