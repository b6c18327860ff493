package payoutrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
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

func payoutRows(id int, status, payoutType string, requestedAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "cast_id", "amount", "fee", "status", "type",
		"payment_id", "destination", "memo", "requested_at", "closed_at",
	}).AddRow(id, 7, int64(10000), int64(200), status, payoutType, 3, "4561261212345467", "", requestedAt, nil)
}

func TestRepository_CreatePayment(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Pending payment is stored",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now)
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments (user_id, user_type, amount, status, payment_method, processor_ref, metadata) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`)).
					WithArgs(7, domain.OwnerCast, int64(11760), domain.PaymentPending, "processor_payout", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(rows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments (user_id, user_type, amount, status, payment_method, processor_ref, metadata) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`)).
					WithArgs(7, domain.OwnerCast, int64(11760), domain.PaymentPending, "processor_payout", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			payment, err := repo.CreatePayment(context.Background(), &domain.Payment{
				UserID:        7,
				UserType:      domain.OwnerCast,
				Amount:        11760,
				Status:        domain.PaymentPending,
				PaymentMethod: "processor_payout",
				Metadata:      []byte(`{"payout_type":"instant"}`),
			})

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, payment)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 3, payment.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetPaymentByProcessorRef(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	ref := "po_123"

	t.Run("Existing payment", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{
			"id", "user_id", "user_type", "amount", "status",
			"payment_method", "processor_ref", "metadata", "created_at", "updated_at",
		}).AddRow(3, 7, domain.OwnerCast, int64(11760), domain.PaymentPending,
			"processor_payout", ref, []byte(`{}`), now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+paymentColumns+` FROM payments WHERE processor_ref = $1`)).
			WithArgs("po_123").
			WillReturnRows(rows)

		payment, err := repo.GetPaymentByProcessorRef(context.Background(), "po_123")
		assert.NoError(t, err)
		assert.Equal(t, 3, payment.ID)
		assert.Equal(t, domain.PaymentPending, payment.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown reference returns nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+paymentColumns+` FROM payments WHERE processor_ref = $1`)).
			WithArgs("po_999").
			WillReturnError(pgx.ErrNoRows)

		payment, err := repo.GetPaymentByProcessorRef(context.Background(), "po_999")
		assert.NoError(t, err)
		assert.Nil(t, payment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CreatePayout(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows([]string{"id", "requested_at"}).AddRow(9, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cast_payouts (cast_id, amount, fee, status, type, payment_id, destination, memo) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, requested_at`)).
		WithArgs(7, int64(10000), int64(200), domain.PayoutProcessing, domain.PayoutInstant, 3, "4561261212345467", "").
		WillReturnRows(rows)

	payout, err := repo.CreatePayout(context.Background(), &domain.CastPayout{
		CastID:      7,
		Amount:      10000,
		Fee:         200,
		Status:      domain.PayoutProcessing,
		Type:        domain.PayoutInstant,
		PaymentID:   3,
		Destination: "4561261212345467",
	})
	assert.NoError(t, err)
	assert.Equal(t, 9, payout.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePayoutStatus(t *testing.T) {
	repo, mock := NewMock(t)
	closedAt := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cast_payouts SET status = $1, closed_at = $2 WHERE id = $3`)).
		WithArgs(domain.PayoutPaid, &closedAt, 9).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePayoutStatus(context.Background(), 9, domain.PayoutPaid, &closedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SumActivePayoutsSince(t *testing.T) {
	repo, mock := NewMock(t)
	since := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(15000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM cast_payouts WHERE cast_id = $1 AND type = $2 AND status <> 'failed' AND requested_at >= $3`)).
		WithArgs(7, domain.PayoutInstant, since).
		WillReturnRows(rows)

	sum, err := repo.SumActivePayoutsSince(context.Background(), 7, domain.PayoutInstant, since)
	assert.NoError(t, err)
	assert.Equal(t, int64(15000), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindForSubmission(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+payoutColumns+` FROM cast_payouts WHERE status = 'requested' AND type = 'scheduled' ORDER BY requested_at ASC LIMIT $1`)).
		WithArgs(50).
		WillReturnRows(payoutRows(9, domain.PayoutRequested, domain.PayoutScheduled, time.Now()))

	payouts, err := repo.FindForSubmission(context.Background(), 50)
	assert.NoError(t, err)
	assert.Len(t, payouts, 1)
	assert.Equal(t, domain.PayoutRequested, payouts[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindStuckProcessing(t *testing.T) {
	repo, mock := NewMock(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+payoutColumns+` FROM cast_payouts WHERE status = 'processing' AND requested_at < $1 ORDER BY requested_at ASC`)).
		WithArgs(cutoff).
		WillReturnRows(payoutRows(9, domain.PayoutProcessing, domain.PayoutInstant, cutoff.Add(-time.Hour)))

	payouts, err := repo.FindStuckProcessing(context.Background(), cutoff)
	assert.NoError(t, err)
	assert.Len(t, payouts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
