package service

import (
	"context"
	"errors"
	"testing"

	"simple-atm/internal/core/domain"
	"simple-atm/internal/core/ports"
	"simple-atm/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestJournalService_Record_Persists(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJournalRepository(ctrl)
	svc := NewJournalService(repo, newTestLogger())

	entry := domain.NewJournalEntry(domain.JournalKindDeposit, &domain.Receipt{
		Bills:      []domain.Bill{{Value: 10, Quantity: 1}},
		TotalAfter: 10,
	}, "req", "127.0.0.1")

	repo.EXPECT().Create(gomock.Any(), entry).Return(nil)

	svc.Record(context.Background(), entry)
	svc.Wait()
}

func TestJournalService_Record_RepoErrorIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJournalRepository(ctrl)
	svc := NewJournalService(repo, newTestLogger())

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	svc.Record(context.Background(), domain.NewJournalEntry(domain.JournalKindReset, nil, "", ""))
	svc.Wait()
}

func TestJournalService_Record_NilRepo(t *testing.T) {
	svc := NewJournalService(nil, newTestLogger())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), domain.NewJournalEntry(domain.JournalKindReset, nil, "", ""))
		svc.Wait()
	})
}

func TestJournalService_List_NilRepo(t *testing.T) {
	svc := NewJournalService(nil, newTestLogger())

	_, _, err := svc.List(context.Background(), ports.JournalListParams{})
	assertAppError(t, err, "SYS_002")
}

func TestJournalService_List_NormalizesPaging(t *testing.T) {
	tests := []struct {
		name         string
		in           ports.JournalListParams
		wantPage     int
		wantPageSize int
	}{
		{"defaults", ports.JournalListParams{}, 1, defaultJournalPageSize},
		{"clamped", ports.JournalListParams{Page: 3, PageSize: 1000}, 3, maxJournalPageSize},
		{"kept", ports.JournalListParams{Page: 2, PageSize: 5}, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockJournalRepository(ctrl)
			svc := NewJournalService(repo, newTestLogger())

			repo.EXPECT().List(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p ports.JournalListParams) ([]domain.JournalEntry, int64, error) {
					assert.Equal(t, tt.wantPage, p.Page)
					assert.Equal(t, tt.wantPageSize, p.PageSize)
					return []domain.JournalEntry{{Kind: domain.JournalKindDeposit}}, 1, nil
				})

			entries, total, err := svc.List(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
			assert.Equal(t, int64(1), total)
		})
	}
}

func TestJournalService_List_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJournalRepository(ctrl)
	svc := NewJournalService(repo, newTestLogger())

	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("boom"))

	_, _, err := svc.List(context.Background(), ports.JournalListParams{})
	assertAppError(t, err, "SYS_001")
}
