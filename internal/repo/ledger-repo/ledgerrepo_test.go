package ledgerrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/withu0/pishatto-engine/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_CreateTransaction(t *testing.T) {
	repo, mock := NewMock(t)
	reservationID := 42

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Pending hold is stored",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now())
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO point_transactions (owner_type, owner_id, counter_type, counter_id, type, amount, reservation_id, description) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`)).
					WithArgs(domain.OwnerGuest, 1, pgxmock.AnyArg(), pgxmock.AnyArg(), domain.TransactionPending, int64(-9000), &reservationID, "reservation hold").
					WillReturnRows(rows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO point_transactions (owner_type, owner_id, counter_type, counter_id, type, amount, reservation_id, description) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`)).
					WithArgs(domain.OwnerGuest, 1, pgxmock.AnyArg(), pgxmock.AnyArg(), domain.TransactionPending, int64(-9000), &reservationID, "reservation hold").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			created, err := repo.CreateTransaction(context.Background(), &domain.PointTransaction{
				OwnerType:     domain.OwnerGuest,
				OwnerID:       1,
				Type:          domain.TransactionPending,
				Amount:        -9000,
				ReservationID: &reservationID,
				Description:   "reservation hold",
			})

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, created)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 10, created.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByReservation(t *testing.T) {
	repo, mock := NewMock(t)
	reservationID := 42

	rows := pgxmock.NewRows([]string{
		"id", "owner_type", "owner_id", "counter_type", "counter_id",
		"type", "amount", "reservation_id", "description", "consumed", "created_at",
	}).
		AddRow(1, domain.OwnerGuest, 1, nil, nil, domain.TransactionPending, int64(-9000), &reservationID, "reservation hold", false, time.Now()).
		AddRow(2, domain.OwnerGuest, 1, nil, nil, domain.TransactionPending, int64(-6000), &reservationID, "reservation hold", false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+transactionColumns+` FROM point_transactions WHERE reservation_id = $1 AND type = $2 ORDER BY id ASC`)).
		WithArgs(42, domain.TransactionPending).
		WillReturnRows(rows)

	transactions, err := repo.FindByReservation(context.Background(), 42, domain.TransactionPending)
	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, int64(-9000), transactions[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkConsumed(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE point_transactions SET consumed = TRUE WHERE id = ANY($1)`)).
		WithArgs([]int{1, 2}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	err := repo.MarkConsumed(context.Background(), []int{1, 2})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByOwner(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("History honors the limit", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{
			"id", "owner_type", "owner_id", "counter_type", "counter_id",
			"type", "amount", "reservation_id", "description", "consumed", "created_at",
		}).AddRow(3, domain.OwnerCast, 7, nil, nil, domain.TransactionTransfer, int64(22000), nil, "reservation settlement", false, time.Now())
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+transactionColumns+` FROM point_transactions WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at DESC LIMIT $3`)).
			WithArgs(domain.OwnerCast, 7, 100).
			WillReturnRows(rows)

		transactions, err := repo.FindByOwner(context.Background(), domain.Cast(7), 100)
		assert.NoError(t, err)
		assert.Len(t, transactions, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+transactionColumns+` FROM point_transactions WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at DESC LIMIT $3`)).
			WithArgs(domain.OwnerCast, 7, 100).
			WillReturnError(errors.New("database error"))

		transactions, err := repo.FindByOwner(context.Background(), domain.Cast(7), 100)
		assert.Error(t, err)
		assert.Nil(t, transactions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_SumTransfersSince(t *testing.T) {
	repo, mock := NewMock(t)
	since := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(42000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM point_transactions WHERE owner_type = 'cast' AND owner_id = $1 AND type = 'transfer' AND created_at >= $2`)).
		WithArgs(7, since).
		WillReturnRows(rows)

	sum, err := repo.SumTransfersSince(context.Background(), 7, since)
	assert.NoError(t, err)
	assert.Equal(t, int64(42000), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}
