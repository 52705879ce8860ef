package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"cityevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var requestCols = []string{"id", "event_id", "requester_id", "status", "created"}

func TestRequestRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		request *domain.ParticipationRequest
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			request: &domain.ParticipationRequest{
				EventID:     "ev-1",
				RequesterID: "user-1",
				Status:      domain.RequestStatusPending,
				Created:     created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests \(event_id, requester_id, status, created\)`).
					WithArgs("ev-1", "user-1", domain.RequestStatusPending, created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("req-uuid-1"))
			},
			wantID: "req-uuid-1",
		},
		{
			name: "db error",
			request: &domain.ParticipationRequest{
				EventID:     "ev-1",
				RequesterID: "user-1",
				Status:      domain.RequestStatusConfirmed,
				Created:     created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			err = repo.Create(ctx, tt.request)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.request.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_GetByIDAndRequester(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mock      func(mock sqlmock.Sqlmock)
		wantErrIs error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, requester_id, status, created\s+FROM participation_requests\s+WHERE id = \$1 AND requester_id = \$2`).
					WithArgs("req-1", "user-1").
					WillReturnRows(sqlmock.NewRows(requestCols).
						AddRow("req-1", "ev-1", "user-1", "PENDING", created))
			},
		},
		{
			name: "wrong requester maps to not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, requester_id, status, created`).
					WithArgs("req-1", "user-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErrIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRequestRepository(db)
			request, err := repo.GetByIDAndRequester(ctx, "req-1", "user-1")
			if tt.wantErrIs != nil {
				require.True(t, errors.Is(err, tt.wantErrIs))
				return
			}
			require.NoError(t, err)
			require.Equal(t, "req-1", request.ID)
			require.Equal(t, domain.RequestStatusPending, request.Status)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestRepository_CountConfirmedByEventIDs(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT event_id, COUNT\(\*\)\s+FROM participation_requests\s+WHERE event_id = ANY\(\$1\) AND status = 'CONFIRMED'\s+GROUP BY event_id`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "count"}).
			AddRow("ev-1", 3).
			AddRow("ev-2", 1))

	repo := NewRequestRepository(db)
	counts, err := repo.CountConfirmedByEventIDs(ctx, []string{"ev-1", "ev-2", "ev-3"})
	require.NoError(t, err)
	require.Equal(t, int64(3), counts["ev-1"])
	require.Equal(t, int64(1), counts["ev-2"])

	// events with no confirmed requests simply have no row
	_, ok := counts["ev-3"]
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_ExistsActiveByRequesterAndEvent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS\(\s+SELECT 1 FROM participation_requests\s+WHERE requester_id = \$1 AND event_id = \$2 AND status <> 'CANCELED'\s+\)`).
		WithArgs("user-1", "ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewRequestRepository(db)
	exists, err := repo.ExistsActiveByRequesterAndEvent(ctx, "user-1", "ev-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_UpdateStatuses_WithinTx(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE participation_requests\s+SET status = \$1\s+WHERE id = ANY\(\$2\)`).
		WithArgs(domain.RequestStatusConfirmed, pq.Array([]string{"req-1", "req-3"})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE participation_requests\s+SET status = \$1\s+WHERE id = ANY\(\$2\)`).
		WithArgs(domain.RequestStatusRejected, pq.Array([]string{"req-2"})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewRequestRepository(db)
	tx := NewTxManager(db)
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		return repo.UpdateStatuses(ctx, []*domain.ParticipationRequest{
			{ID: "req-1", Status: domain.RequestStatusConfirmed},
			{ID: "req-2", Status: domain.RequestStatusRejected},
			{ID: "req-3", Status: domain.RequestStatusConfirmed},
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_UpdateStatuses_RollsBackOnError(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE participation_requests`).
		WithArgs(domain.RequestStatusConfirmed, pq.Array([]string{"req-1"})).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	repo := NewRequestRepository(db)
	tx := NewTxManager(db)
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		return repo.UpdateStatuses(ctx, []*domain.ParticipationRequest{
			{ID: "req-1", Status: domain.RequestStatusConfirmed},
		})
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_Update(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE participation_requests`).
		WithArgs("req-1", domain.RequestStatusCanceled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRequestRepository(db)
	err = repo.Update(ctx, &domain.ParticipationRequest{ID: "req-1", Status: domain.RequestStatusCanceled})
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
