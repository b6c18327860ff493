package processor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/withu0/pishatto-engine/internal/config"
	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/outbox"
)

func NewMockPoller(t *testing.T) (*Poller, *MockPayoutRepo, *MockPayoutClient, *MockOutbox) {
	ctrl := gomock.NewController(t)
	repo := NewMockPayoutRepo(ctrl)
	client := NewMockPayoutClient(ctrl)
	effects := NewMockOutbox(ctrl)
	poller := NewPoller(&config.Config{
		YenPerPoint:        1.2,
		ProcessingDeadline: 24 * time.Hour,
	}, repo, client, effects)
	defer ctrl.Finish()
	return poller, repo, client, effects
}

func TestPoller_SubmitScheduled(t *testing.T) {
	scheduled := domain.CastPayout{
		ID:          9,
		CastID:      7,
		Amount:      40000,
		Fee:         800,
		Status:      domain.PayoutRequested,
		Type:        domain.PayoutScheduled,
		PaymentID:   3,
		Destination: "4561261212345467",
	}

	t.Run("Requested payout is submitted and marked processing", func(t *testing.T) {
		poller, repo, client, _ := NewMockPoller(t)

		repo.EXPECT().FindForSubmission(gomock.Any(), 100).Return([]domain.CastPayout{scheduled}, nil)
		// 39200 net points at 1.2 yen each
		client.EXPECT().CreatePayout(gomock.Any(), "4561261212345467", int64(47040), "jpy", map[string]string{"payout_id": "9"}).
			Return(&Payout{ID: "po_123", Status: "pending"}, nil)
		repo.EXPECT().SetProcessorRef(gomock.Any(), 3, "po_123").Return(nil)
		repo.EXPECT().UpdatePayoutStatus(gomock.Any(), 9, domain.PayoutProcessing, nil).Return(nil)

		err := poller.submitScheduled(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Processor refusal fails the payout", func(t *testing.T) {
		poller, repo, client, effects := NewMockPoller(t)

		repo.EXPECT().FindForSubmission(gomock.Any(), 100).Return([]domain.CastPayout{scheduled}, nil)
		client.EXPECT().CreatePayout(gomock.Any(), "4561261212345467", int64(47040), "jpy", gomock.Any()).
			Return(nil, ErrProcessor)
		repo.EXPECT().UpdatePayoutStatus(gomock.Any(), 9, domain.PayoutFailed, gomock.Any()).Return(nil)
		repo.EXPECT().UpdatePaymentStatus(gomock.Any(), 3, domain.PaymentFailed).Return(nil)
		effects.EXPECT().Enqueue(gomock.Any(), outbox.KindNotify, gomock.Any()).Return(nil)

		err := poller.submitScheduled(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Nothing to submit", func(t *testing.T) {
		poller, repo, _, _ := NewMockPoller(t)

		repo.EXPECT().FindForSubmission(gomock.Any(), 100).Return(nil, nil)

		err := poller.submitScheduled(context.Background())
		assert.NoError(t, err)
	})
}

func TestPoller_ReconcileStuck(t *testing.T) {
	poller, repo, _, effects := NewMockPoller(t)
	stuck := domain.CastPayout{
		ID:          9,
		CastID:      7,
		Amount:      10000,
		Status:      domain.PayoutProcessing,
		Type:        domain.PayoutInstant,
		PaymentID:   3,
		RequestedAt: time.Now().Add(-48 * time.Hour),
	}

	repo.EXPECT().FindStuckProcessing(gomock.Any(), gomock.Any()).Return([]domain.CastPayout{stuck}, nil)
	repo.EXPECT().UpdatePayoutStatus(gomock.Any(), 9, domain.PayoutFailed, gomock.Any()).Return(nil)
	repo.EXPECT().UpdatePaymentStatus(gomock.Any(), 3, domain.PaymentFailed).Return(nil)
	effects.EXPECT().Enqueue(gomock.Any(), outbox.KindNotify, gomock.Any()).Return(nil)

	err := poller.reconcileStuck(context.Background())
	assert.NoError(t, err)
}
