package payoutservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/outbox"
	"github.com/withu0/pishatto-engine/internal/pg"
	"github.com/withu0/pishatto-engine/internal/processor"
)

// Luhn-valid test card number.
const testCard = "4561261212345467"

func NewMock(t *testing.T) (*Service, *MockRepo, *MockLedger, *MockProcessorClient, *MockOutbox) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	ledger := NewMockLedger(ctrl)
	client := NewMockProcessorClient(ctrl)
	out := NewMockOutbox(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
	service := New(repo, ledger, client, out, txManager, Policy{
		Minimum:        1000,
		InstantPercent: 50,
		YenPerPoint:    1.2,
	})
	defer ctrl.Finish()
	return service, repo, ledger, client, out
}

func expectSummary(repo *MockRepo, ledger *MockLedger, account *domain.Account, settled, withdrawn int64) {
	ledger.EXPECT().GetAccount(gomock.Any(), domain.Cast(account.OwnerID)).Return(account, nil)
	ledger.EXPECT().SumTransfersSince(gomock.Any(), account.OwnerID, gomock.Any()).Return(settled, nil)
	repo.EXPECT().SumActivePayoutsSince(gomock.Any(), account.OwnerID, domain.PayoutInstant, gomock.Any()).Return(withdrawn, nil)
}

// expectLockedSummary mirrors the figures a payout request reads under the
// account row lock.
func expectLockedSummary(repo *MockRepo, ledger *MockLedger, account *domain.Account, settled, withdrawn int64) {
	ledger.EXPECT().GetAccountForUpdate(gomock.Any(), domain.Cast(account.OwnerID)).Return(account, nil)
	ledger.EXPECT().SumTransfersSince(gomock.Any(), account.OwnerID, gomock.Any()).Return(settled, nil)
	repo.EXPECT().SumActivePayoutsSince(gomock.Any(), account.OwnerID, domain.PayoutInstant, gomock.Any()).Return(withdrawn, nil)
}

func TestFeeRate(t *testing.T) {
	assert.Equal(t, int64(0), FeeRate(domain.GradePlatinum))
	assert.Equal(t, int64(2), FeeRate(domain.GradeGold))
	assert.Equal(t, int64(4), FeeRate(domain.GradeSilver))
	assert.Equal(t, int64(5), FeeRate(domain.GradeBronze))
	assert.Equal(t, int64(5), FeeRate(""))
}

func TestBuildSummary(t *testing.T) {
	tests := []struct {
		name            string
		account         *domain.Account
		settled         int64
		withdrawn       int64
		expectedSummary *Summary
		expectedError   error
	}{
		{
			name:    "Eligible funds are a share of the period's settlements",
			account: &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 50000, GradePoints: 30000, Grade: domain.GradeGold},
			settled: 40000,
			expectedSummary: &Summary{
				Points:          50000,
				GradePoints:     30000,
				Grade:           domain.GradeGold,
				YenValue:        60000,
				InstantEligible: 20000,
			},
		},
		{
			name:      "Prior instant payouts reduce eligibility",
			account:   &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 50000},
			settled:   40000,
			withdrawn: 15000,
			expectedSummary: &Summary{
				Points:          50000,
				YenValue:        60000,
				InstantEligible: 5000,
			},
		},
		{
			name:      "Eligibility never goes negative",
			account:   &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 50000},
			settled:   10000,
			withdrawn: 20000,
			expectedSummary: &Summary{
				Points:   50000,
				YenValue: 60000,
			},
		},
		{
			name:    "Eligibility is capped by the balance",
			account: &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 3000},
			settled: 40000,
			expectedSummary: &Summary{
				Points:          3000,
				YenValue:        3600,
				InstantEligible: 3000,
			},
		},
		{
			name:          "Unknown cast",
			expectedError: ErrCastNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, ledger, _, _ := NewMock(t)
			if tt.account == nil {
				ledger.EXPECT().GetAccount(gomock.Any(), domain.Cast(7)).Return(nil, nil)
			} else {
				expectSummary(repo, ledger, tt.account, tt.settled, tt.withdrawn)
			}

			summary, err := service.BuildSummary(context.Background(), 7)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedSummary, summary)
			}
		})
	}
}

func TestRequestInstantPayout(t *testing.T) {
	account := &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 50000, Grade: domain.GradeGold}

	t.Run("Request below the minimum", func(t *testing.T) {
		service, _, _, _, _ := NewMock(t)

		_, err := service.RequestInstantPayout(context.Background(), 7, 500, testCard, "")
		assert.ErrorIs(t, err, ErrBelowMinimum)
	})

	t.Run("Destination must be a valid card number", func(t *testing.T) {
		service, _, _, _, _ := NewMock(t)

		_, err := service.RequestInstantPayout(context.Background(), 7, 10000, "4561261212345464", "")
		assert.ErrorIs(t, err, ErrInvalidDestination)
	})

	t.Run("Request over the eligible amount writes nothing", func(t *testing.T) {
		service, repo, ledger, _, _ := NewMock(t)
		expectLockedSummary(repo, ledger, account, 10000, 0)

		_, err := service.RequestInstantPayout(context.Background(), 7, 10000, testCard, "")
		assert.ErrorIs(t, err, ErrInsufficientEligibleFunds)
	})

	t.Run("Accepted request books the payment and submits to the processor", func(t *testing.T) {
		service, repo, ledger, client, _ := NewMock(t)
		expectLockedSummary(repo, ledger, account, 40000, 0)

		repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				assert.Equal(t, domain.PaymentPending, p.Status)
				// 10000 points, 2% gold fee, 9800 net at 1.2 yen each
				assert.Equal(t, int64(11760), p.Amount)
				p.ID = 3
				return p, nil
			},
		)
		repo.EXPECT().CreatePayout(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.CastPayout) (*domain.CastPayout, error) {
				assert.Equal(t, int64(10000), p.Amount)
				assert.Equal(t, int64(200), p.Fee)
				assert.Equal(t, domain.PayoutProcessing, p.Status)
				assert.Equal(t, domain.PayoutInstant, p.Type)
				assert.Equal(t, 3, p.PaymentID)
				p.ID = 9
				return p, nil
			},
		)
		client.EXPECT().CreatePayout(gomock.Any(), testCard, int64(11760), "jpy", map[string]string{"payout_id": "9"}).
			Return(&processor.Payout{ID: "po_123"}, nil)
		repo.EXPECT().SetProcessorRef(gomock.Any(), 3, "po_123").Return(nil)

		payout, err := service.RequestInstantPayout(context.Background(), 7, 10000, testCard, "")
		assert.NoError(t, err)
		assert.Equal(t, 9, payout.ID)
	})

	t.Run("Synchronous processor rejection fails the request", func(t *testing.T) {
		service, repo, ledger, client, _ := NewMock(t)
		expectLockedSummary(repo, ledger, account, 40000, 0)

		repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				p.ID = 3
				return p, nil
			},
		)
		repo.EXPECT().CreatePayout(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.CastPayout) (*domain.CastPayout, error) {
				p.ID = 9
				return p, nil
			},
		)
		client.EXPECT().CreatePayout(gomock.Any(), testCard, gomock.Any(), "jpy", gomock.Any()).
			Return(nil, processor.ErrProcessor)

		_, err := service.RequestInstantPayout(context.Background(), 7, 10000, testCard, "")
		assert.ErrorIs(t, err, processor.ErrProcessor)
	})
}

func TestRequestInstantPayoutChecksInsideTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepo(ctrl)
	ledger := NewMockLedger(ctrl)
	client := NewMockProcessorClient(ctrl)
	out := NewMockOutbox(ctrl)
	txManager := pg.NewMockTXManager(ctrl)

	inTx := false
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			inTx = true
			defer func() { inTx = false }()
			return fn(ctx)
		},
	)
	ledger.EXPECT().GetAccountForUpdate(gomock.Any(), domain.Cast(7)).DoAndReturn(
		func(context.Context, domain.AccountRef) (*domain.Account, error) {
			assert.True(t, inTx, "account must be locked inside the transaction")
			return &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 50000, Grade: domain.GradeGold}, nil
		},
	)
	ledger.EXPECT().SumTransfersSince(gomock.Any(), 7, gomock.Any()).DoAndReturn(
		func(context.Context, int, time.Time) (int64, error) {
			assert.True(t, inTx, "eligibility figures must be read inside the transaction")
			return int64(10000), nil
		},
	)
	repo.EXPECT().SumActivePayoutsSince(gomock.Any(), 7, domain.PayoutInstant, gomock.Any()).DoAndReturn(
		func(context.Context, int, string, time.Time) (int64, error) {
			assert.True(t, inTx, "eligibility figures must be read inside the transaction")
			return int64(0), nil
		},
	)

	service := New(repo, ledger, client, out, txManager, Policy{Minimum: 1000, InstantPercent: 50, YenPerPoint: 1.2})
	_, err := service.RequestInstantPayout(context.Background(), 7, 10000, testCard, "")
	assert.ErrorIs(t, err, ErrInsufficientEligibleFunds)
}

func TestRequestScheduledPayout(t *testing.T) {
	account := &domain.Account{OwnerType: domain.OwnerCast, OwnerID: 7, Points: 50000, Grade: domain.GradePlatinum}

	t.Run("Scheduled request is recorded without a processor call", func(t *testing.T) {
		service, repo, ledger, _, _ := NewMock(t)
		ledger.EXPECT().GetAccountForUpdate(gomock.Any(), domain.Cast(7)).Return(account, nil)

		repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				// platinum pays no fee
				assert.Equal(t, int64(48000), p.Amount)
				p.ID = 3
				return p, nil
			},
		)
		repo.EXPECT().CreatePayout(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.CastPayout) (*domain.CastPayout, error) {
				assert.Equal(t, domain.PayoutRequested, p.Status)
				assert.Equal(t, domain.PayoutScheduled, p.Type)
				assert.Equal(t, int64(0), p.Fee)
				p.ID = 9
				return p, nil
			},
		)

		payout, err := service.RequestScheduledPayout(context.Background(), 7, 40000, testCard, "monthly")
		assert.NoError(t, err)
		assert.Equal(t, domain.PayoutScheduled, payout.Type)
	})

	t.Run("Scheduled request is limited by the full balance", func(t *testing.T) {
		service, _, ledger, _, _ := NewMock(t)
		ledger.EXPECT().GetAccountForUpdate(gomock.Any(), domain.Cast(7)).Return(account, nil)

		_, err := service.RequestScheduledPayout(context.Background(), 7, 60000, testCard, "")
		assert.ErrorIs(t, err, ErrInsufficientEligibleFunds)
	})
}

func TestOnProcessorCallback(t *testing.T) {
	t.Run("Unknown outcome", func(t *testing.T) {
		service, _, _, _, _ := NewMock(t)

		err := service.OnProcessorCallback(context.Background(), "po_123", "voided")
		assert.ErrorIs(t, err, ErrUnknownOutcome)
	})

	t.Run("Unknown reference", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		repo.EXPECT().GetPaymentByProcessorRef(gomock.Any(), "po_123").Return(nil, nil)

		err := service.OnProcessorCallback(context.Background(), "po_123", domain.PaymentPaid)
		assert.ErrorIs(t, err, ErrPayoutNotFound)
	})

	t.Run("Confirmed payment debits the ledger once", func(t *testing.T) {
		service, repo, ledger, _, out := NewMock(t)

		repo.EXPECT().GetPaymentByProcessorRef(gomock.Any(), "po_123").Return(&domain.Payment{
			ID: 3, Status: domain.PaymentPending,
		}, nil)
		repo.EXPECT().GetPayoutByPaymentID(gomock.Any(), 3).Return(&domain.CastPayout{
			ID: 9, CastID: 7, Amount: 10000, Status: domain.PayoutProcessing,
		}, nil)
		ledger.EXPECT().Convert(gomock.Any(), domain.Cast(7), int64(-10000), nil, "payout #9").
			Return(&domain.PointTransaction{}, nil)
		repo.EXPECT().UpdatePayoutStatus(gomock.Any(), 9, domain.PayoutPaid, gomock.Any()).Return(nil)
		repo.EXPECT().UpdatePaymentStatus(gomock.Any(), 3, domain.PaymentPaid).Return(nil)
		out.EXPECT().Enqueue(gomock.Any(), outbox.KindNotify, gomock.Any()).Return(nil)

		err := service.OnProcessorCallback(context.Background(), "po_123", domain.PaymentPaid)
		assert.NoError(t, err)
	})

	t.Run("Replayed callback leaves the settled payment alone", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)

		repo.EXPECT().GetPaymentByProcessorRef(gomock.Any(), "po_123").Return(&domain.Payment{
			ID: 3, Status: domain.PaymentPaid,
		}, nil)

		err := service.OnProcessorCallback(context.Background(), "po_123", domain.PaymentPaid)
		assert.NoError(t, err)
	})

	t.Run("Failed payout never touches the ledger", func(t *testing.T) {
		service, repo, _, _, out := NewMock(t)

		repo.EXPECT().GetPaymentByProcessorRef(gomock.Any(), "po_123").Return(&domain.Payment{
			ID: 3, Status: domain.PaymentPending,
		}, nil)
		repo.EXPECT().GetPayoutByPaymentID(gomock.Any(), 3).Return(&domain.CastPayout{
			ID: 9, CastID: 7, Amount: 10000, Status: domain.PayoutProcessing,
		}, nil)
		repo.EXPECT().UpdatePayoutStatus(gomock.Any(), 9, domain.PayoutFailed, gomock.Any()).Return(nil)
		repo.EXPECT().UpdatePaymentStatus(gomock.Any(), 3, domain.PaymentFailed).Return(nil)
		out.EXPECT().Enqueue(gomock.Any(), outbox.KindNotify, gomock.Any()).Return(nil)

		err := service.OnProcessorCallback(context.Background(), "po_123", domain.PaymentFailed)
		assert.NoError(t, err)
	})

	t.Run("Repo failure surfaces", func(t *testing.T) {
		service, repo, _, _, _ := NewMock(t)
		dbErr := errors.New("db error")

		repo.EXPECT().GetPaymentByProcessorRef(gomock.Any(), "po_123").Return(nil, dbErr)

		err := service.OnProcessorCallback(context.Background(), "po_123", domain.PaymentPaid)
		assert.ErrorIs(t, err, dbErr)
	})
}
