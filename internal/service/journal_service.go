package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"simple-atm/internal/core/domain"
	"simple-atm/internal/core/ports"
	"simple-atm/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultJournalPageSize = 20
	maxJournalPageSize     = 100
	journalWriteTimeout    = 5 * time.Second
)

// JournalServiceImpl implements ports.JournalService.
type JournalServiceImpl struct {
	repo ports.JournalRepository
	log  zerolog.Logger
	wg   sync.WaitGroup
}

// NewJournalService creates a new journal service.
// If repo is nil, entries are only written to the logger.
func NewJournalService(repo ports.JournalRepository, log zerolog.Logger) *JournalServiceImpl {
	return &JournalServiceImpl{repo: repo, log: log}
}

// Record writes an entry asynchronously (fire-and-forget).
func (s *JournalServiceImpl) Record(_ context.Context, entry *domain.JournalEntry) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.log.Info().
			Str("journal_id", entry.ID.String()).
			Str("kind", string(entry.Kind)).
			Int64("amount", entry.Amount).
			Int64("total_after", entry.TotalAfter).
			Str("ip", entry.ClientIP).
			Msg("journal")

		if s.repo == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
		defer cancel()
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("journal_id", entry.ID.String()).Msg("failed to persist journal entry")
		}
	}()
}

// Wait blocks until every pending Record has finished.
func (s *JournalServiceImpl) Wait() {
	s.wg.Wait()
}

// List returns a page of persisted entries, newest first.
func (s *JournalServiceImpl) List(ctx context.Context, params ports.JournalListParams) ([]domain.JournalEntry, int64, error) {
	if s.repo == nil {
		return nil, 0, apperror.ErrJournalDisabled()
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultJournalPageSize
	}
	if params.PageSize > maxJournalPageSize {
		params.PageSize = maxJournalPageSize
	}

	entries, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list journal: %w", err))
	}
	return entries, total, nil
}
