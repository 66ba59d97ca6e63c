package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"simple-atm/internal/core/domain"
	"simple-atm/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:         uuid.New(),
		Kind:       domain.JournalKindWithdrawal,
		Bills:      []domain.Bill{{Value: 50, Quantity: 1}, {Value: 25, Quantity: 1}},
		Amount:     75,
		TotalAfter: 25,
		RequestID:  "req-1",
		ClientIP:   "192.168.1.1",
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func journalColumns() []string {
	return []string{"id", "kind", "bills", "amount", "total_after", "request_id", "client_ip", "created_at"}
}

func journalRow(rows *pgxmock.Rows, e *domain.JournalEntry) *pgxmock.Rows {
	bills, _ := encodeBills(e.Bills)
	return rows.AddRow(e.ID, string(e.Kind), bills, e.Amount, e.TotalAfter, e.RequestID, e.ClientIP, e.CreatedAt)
}

func TestJournalRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)
	e := newTestEntry()

	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(
			e.ID, "WITHDRAWAL", []byte(`[{"value":50,"quantity":1},{"value":25,"quantity":1}]`),
			e.Amount, e.TotalAfter, e.RequestID, e.ClientIP, e.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_Create_ResetHasEmptyBills(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)
	e := domain.NewJournalEntry(domain.JournalKindReset, nil, "", "")

	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(e.ID, "RESET", []byte(`[]`), int64(0), int64(0), "", "", e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)

	mock.ExpectExec("INSERT INTO journal_entries").
		WillReturnError(errors.New("connection refused"))

	err = repo.Create(context.Background(), newTestEntry())
	assert.ErrorContains(t, err, "insert journal entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)
	e1, e2 := newTestEntry(), newTestEntry()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
	mock.ExpectQuery("SELECT .+ FROM journal_entries").
		WithArgs(10, 10).
		WillReturnRows(journalRow(journalRow(pgxmock.NewRows(journalColumns()), e1), e2))

	entries, total, err := repo.List(context.Background(), ports.JournalListParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, entries, 2)
	assert.Equal(t, e1.ID, entries[0].ID)
	assert.Equal(t, domain.JournalKindWithdrawal, entries[0].Kind)
	assert.Equal(t, e1.Bills, entries[0].Bills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_List_FilterByKind(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)
	kind := domain.JournalKindDeposit

	mock.ExpectQuery("SELECT COUNT.+WHERE kind").
		WithArgs("DEPOSIT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT .+ FROM journal_entries WHERE kind").
		WithArgs("DEPOSIT", 20, 0).
		WillReturnRows(pgxmock.NewRows(journalColumns()))

	entries, total, err := repo.List(context.Background(), ports.JournalListParams{Kind: &kind, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_List_CountError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("timeout"))

	_, _, err = repo.List(context.Background(), ports.JournalListParams{Page: 1, PageSize: 20})
	assert.ErrorContains(t, err, "count journal entries")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_List_BadBillsColumn(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)
	e := newTestEntry()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM journal_entries").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(journalColumns()).
			AddRow(e.ID, "DEPOSIT", []byte("{oops"), e.Amount, e.TotalAfter, e.RequestID, e.ClientIP, e.CreatedAt))

	_, _, err = repo.List(context.Background(), ports.JournalListParams{Page: 1, PageSize: 20})
	assert.ErrorContains(t, err, "decode journal bills")
}

func TestJournalRepo_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS journal_entries").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_journal_entries_kind").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepo_EnsureSchema_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewJournalRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS journal_entries").
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = repo.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "apply journal schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hc := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", hc.Name())

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	assert.NoError(t, hc.Ping(context.Background()))

	mock.ExpectExec("SELECT 1").WillReturnError(errors.New("down"))
	assert.Error(t, hc.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
