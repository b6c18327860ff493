package outboxrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/withu0/pishatto-engine/internal/outbox"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Enqueue(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		payload   any
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Intent is stored pending",
			payload: outbox.NotifyPayload{
				UserID:   7,
				UserType: "cast",
				Type:     outbox.NotifyApplicationApproved,
			},
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO side_effects (kind, payload, status) VALUES ($1, $2, 'pending')`)).
					WithArgs(outbox.KindNotify, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name:    "Unmarshalable payload",
			payload: make(chan int),
			mockSetup: func() {
			},
			expectErr: true,
		},
		{
			name:    "Database error",
			payload: outbox.RankingInvalidatePayload{Region: outbox.RegionEarnings},
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO side_effects (kind, payload, status) VALUES ($1, $2, 'pending')`)).
					WithArgs(outbox.KindNotify, pgxmock.AnyArg()).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Enqueue(context.Background(), outbox.KindNotify, tt.payload)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindPending(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"id", "kind", "payload", "status", "attempts", "created_at", "sent_at"}).
		AddRow(1, outbox.KindNotify, []byte(`{"user_id":7}`), "pending", 0, time.Now(), nil).
		AddRow(2, outbox.KindRankingInvalidate, []byte(`{"region":"earnings"}`), "pending", 1, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, kind, payload, status, attempts, created_at, sent_at FROM side_effects WHERE status = 'pending' ORDER BY created_at ASC LIMIT $1`)).
		WithArgs(100).
		WillReturnRows(rows)

	effects, err := repo.FindPending(context.Background(), 100)
	assert.NoError(t, err)
	assert.Len(t, effects, 2)
	assert.Equal(t, outbox.KindNotify, effects[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkSent(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE side_effects SET status = 'sent', sent_at = now() WHERE id = $1`)).
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkSent(context.Background(), 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkFailed(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE side_effects SET status = 'failed', attempts = $1 WHERE id = $2`)).
		WithArgs(4, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkFailed(context.Background(), 1, 4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
