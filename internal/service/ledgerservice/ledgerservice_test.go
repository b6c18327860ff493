package ledgerservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockAccountRepo, *MockLedgerRepo) {
	ctrl := gomock.NewController(t)
	accountRepo := NewMockAccountRepo(ctrl)
	ledgerRepo := NewMockLedgerRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
	service := New(accountRepo, ledgerRepo, txManager)
	defer ctrl.Finish()
	return service, accountRepo, ledgerRepo
}

func pendingTx(id int, owner domain.AccountRef, amount int64, reservationID int, consumed bool) domain.PointTransaction {
	return domain.PointTransaction{
		ID:            id,
		OwnerType:     owner.Type,
		OwnerID:       owner.ID,
		Type:          domain.TransactionPending,
		Amount:        amount,
		ReservationID: &reservationID,
		Consumed:      consumed,
	}
}

func TestHold(t *testing.T) {
	service, accountRepo, ledgerRepo := NewMock(t)
	guest := domain.Guest(1)

	tests := []struct {
		name          string
		amount        int64
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Hold debits the payer and records a pending transaction",
			amount: 9000,
			prepareMock: func() {
				accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(&domain.Account{
					OwnerType: domain.OwnerGuest, OwnerID: 1, Points: 20000, GradePoints: 5000,
				}, nil)
				accountRepo.EXPECT().UpdateBalance(gomock.Any(), guest, int64(11000), int64(5000)).Return(nil)
				ledgerRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, tx *domain.PointTransaction) (*domain.PointTransaction, error) {
						assert.Equal(t, int64(-9000), tx.Amount)
						assert.Equal(t, domain.TransactionPending, tx.Type)
						tx.ID = 10
						return tx, nil
					},
				)
			},
			expectedError: nil,
		},
		{
			name:   "Hold fails when the balance does not cover the amount",
			amount: 30000,
			prepareMock: func() {
				accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(&domain.Account{
					OwnerType: domain.OwnerGuest, OwnerID: 1, Points: 20000,
				}, nil)
			},
			expectedError: ErrInsufficientFunds,
		},
		{
			name:   "Hold fails when the account does not exist",
			amount: 100,
			prepareMock: func() {
				accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(nil, nil)
			},
			expectedError: ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			held, err := service.Hold(context.Background(), guest, nil, tt.amount, 42, "reservation hold")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, held)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, -tt.amount, held.Amount)
			}
		})
	}
}

func TestOutstanding(t *testing.T) {
	service, _, ledgerRepo := NewMock(t)
	guest := domain.Guest(1)
	castType := domain.OwnerCast
	castID := 7

	tests := []struct {
		name          string
		prepareMock   func()
		expectedTotal int64
		expectedError error
	}{
		{
			name: "Outstanding sums unconsumed holds",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return([]domain.PointTransaction{
					pendingTx(1, guest, -9000, 42, false),
					pendingTx(2, guest, -9000, 42, false),
				}, nil)
			},
			expectedTotal: 18000,
		},
		{
			name: "Outstanding reports per-cast earmarks",
			prepareMock: func() {
				earmarked := pendingTx(3, guest, -6000, 42, false)
				earmarked.CounterType = &castType
				earmarked.CounterID = &castID
				ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return(
					[]domain.PointTransaction{earmarked}, nil)
			},
			expectedTotal: 6000,
		},
		{
			name: "Consumed holds mean the reservation is settled",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return([]domain.PointTransaction{
					pendingTx(1, guest, -9000, 42, true),
				}, nil)
			},
			expectedError: ErrAlreadySettled,
		},
		{
			name: "No holds at all means no pending funds",
			prepareMock: func() {
				ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return(nil, nil)
			},
			expectedError: ErrNoPendingFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			total, _, err := service.Outstanding(context.Background(), 42)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTotal, total)
			}
		})
	}
}

func TestSettle(t *testing.T) {
	guest := domain.Guest(1)
	cast := domain.Cast(7)

	t.Run("Settle credits allocations and consumes the holds", func(t *testing.T) {
		service, accountRepo, ledgerRepo := NewMock(t)

		ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return([]domain.PointTransaction{
			pendingTx(1, guest, -18000, 42, false),
		}, nil)
		ledgerRepo.EXPECT().MarkConsumed(gomock.Any(), []int{1}).Return(nil)
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(&domain.Account{
			OwnerType: domain.OwnerGuest, OwnerID: 1, Points: 2000, GradePoints: 1000,
		}, nil)
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), guest, int64(2000), int64(19000)).Return(nil)
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), cast).Return(&domain.Account{
			OwnerType: domain.OwnerCast, OwnerID: 7, Points: 500, GradePoints: 30000,
		}, nil)
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), cast, int64(22500), int64(52000)).Return(nil)
		ledgerRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.PointTransaction) (*domain.PointTransaction, error) {
				assert.Equal(t, domain.TransactionTransfer, tx.Type)
				assert.Equal(t, int64(22000), tx.Amount)
				return tx, nil
			},
		)

		transfers, err := service.Settle(context.Background(), 42, []Allocation{
			{Account: cast, Amount: 18000, Bonus: 4000},
		})
		assert.NoError(t, err)
		assert.Len(t, transfers, 1)
	})

	t.Run("Settle rejects allocations that do not match the held total", func(t *testing.T) {
		service, _, ledgerRepo := NewMock(t)

		ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return([]domain.PointTransaction{
			pendingTx(1, guest, -18000, 42, false),
		}, nil)

		_, err := service.Settle(context.Background(), 42, []Allocation{
			{Account: cast, Amount: 17000},
		})
		assert.ErrorIs(t, err, ErrUnbalancedSettlement)
	})

	t.Run("Second settle returns already settled", func(t *testing.T) {
		service, _, ledgerRepo := NewMock(t)

		ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return([]domain.PointTransaction{
			pendingTx(1, guest, -18000, 42, true),
		}, nil)

		_, err := service.Settle(context.Background(), 42, []Allocation{
			{Account: cast, Amount: 18000},
		})
		assert.ErrorIs(t, err, ErrAlreadySettled)
	})
}

func TestRefund(t *testing.T) {
	guest := domain.Guest(1)

	t.Run("Refund returns the held amount to the payer", func(t *testing.T) {
		service, accountRepo, ledgerRepo := NewMock(t)

		ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return([]domain.PointTransaction{
			pendingTx(1, guest, -9000, 42, false),
		}, nil)
		ledgerRepo.EXPECT().MarkConsumed(gomock.Any(), []int{1}).Return(nil)
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(&domain.Account{
			OwnerType: domain.OwnerGuest, OwnerID: 1, Points: 11000, GradePoints: 5000,
		}, nil)
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), guest, int64(20000), int64(5000)).Return(nil)
		ledgerRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.PointTransaction) (*domain.PointTransaction, error) {
				assert.Equal(t, int64(9000), tx.Amount)
				return tx, nil
			},
		)

		refund, err := service.Refund(context.Background(), 42)
		assert.NoError(t, err)
		assert.Equal(t, int64(9000), refund.Amount)
	})

	t.Run("Refund with nothing outstanding is a no-op", func(t *testing.T) {
		service, _, ledgerRepo := NewMock(t)

		ledgerRepo.EXPECT().FindByReservation(gomock.Any(), 42, domain.TransactionPending).Return(nil, nil)

		refund, err := service.Refund(context.Background(), 42)
		assert.NoError(t, err)
		assert.Nil(t, refund)
	})
}

func TestConvert(t *testing.T) {
	service, accountRepo, ledgerRepo := NewMock(t)
	cast := domain.Cast(7)

	tests := []struct {
		name          string
		amount        int64
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Negative conversion debits the balance",
			amount: -5000,
			prepareMock: func() {
				accountRepo.EXPECT().GetForUpdate(gomock.Any(), cast).Return(&domain.Account{
					OwnerType: domain.OwnerCast, OwnerID: 7, Points: 8000, GradePoints: 100,
				}, nil)
				accountRepo.EXPECT().UpdateBalance(gomock.Any(), cast, int64(3000), int64(100)).Return(nil)
				ledgerRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, tx *domain.PointTransaction) (*domain.PointTransaction, error) {
						return tx, nil
					},
				)
			},
		},
		{
			name:   "Conversion below zero balance is rejected",
			amount: -9000,
			prepareMock: func() {
				accountRepo.EXPECT().GetForUpdate(gomock.Any(), cast).Return(&domain.Account{
					OwnerType: domain.OwnerCast, OwnerID: 7, Points: 8000,
				}, nil)
			},
			expectedError: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			_, err := service.Convert(context.Background(), cast, tt.amount, nil, "payout")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSumTransfersSince(t *testing.T) {
	service, _, ledgerRepo := NewMock(t)
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	ledgerRepo.EXPECT().SumTransfersSince(gomock.Any(), 7, since).Return(int64(42000), nil)

	sum, err := service.SumTransfersSince(context.Background(), 7, since)
	assert.NoError(t, err)
	assert.Equal(t, int64(42000), sum)
}

func TestGift(t *testing.T) {
	service, accountRepo, ledgerRepo := NewMock(t)
	guest := domain.Guest(1)
	cast := domain.Cast(7)

	t.Run("Gift moves points from guest to cast", func(t *testing.T) {
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(&domain.Account{
			OwnerType: domain.OwnerGuest, OwnerID: 1, Points: 10000, GradePoints: 0,
		}, nil)
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), guest, int64(7000), int64(3000)).Return(nil)
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), cast).Return(&domain.Account{
			OwnerType: domain.OwnerCast, OwnerID: 7, Points: 0, GradePoints: 0,
		}, nil)
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), cast, int64(3000), int64(3000)).Return(nil)
		ledgerRepo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&domain.PointTransaction{}, nil).Times(2)

		err := service.Gift(context.Background(), guest, cast, 3000, "birthday gift")
		assert.NoError(t, err)
	})

	t.Run("Gift exceeding the guest balance fails", func(t *testing.T) {
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(&domain.Account{
			OwnerType: domain.OwnerGuest, OwnerID: 1, Points: 1000,
		}, nil)

		err := service.Gift(context.Background(), guest, cast, 3000, "birthday gift")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("Repo failure surfaces", func(t *testing.T) {
		accountRepo.EXPECT().GetForUpdate(gomock.Any(), guest).Return(nil, errors.New("db error"))

		err := service.Gift(context.Background(), guest, cast, 3000, "birthday gift")
		assert.Error(t, err)
	})
}
