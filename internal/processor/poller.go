package processor

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/withu0/pishatto-engine/internal/config"
	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/outbox"
)

type PayoutRepo interface {
	FindForSubmission(ctx context.Context, limit int) ([]domain.CastPayout, error)
	FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]domain.CastPayout, error)
	UpdatePayoutStatus(ctx context.Context, id int, status string, closedAt *time.Time) error
	UpdatePaymentStatus(ctx context.Context, id int, status string) error
	SetProcessorRef(ctx context.Context, paymentID int, ref string) error
}

type Outbox interface {
	Enqueue(ctx context.Context, kind string, payload any) error
}

type PayoutClient interface {
	CreatePayout(ctx context.Context, accountRef string, amount int64, currency string, metadata map[string]string) (*Payout, error)
}

// Poller submits scheduled payouts to the processor and fails payouts whose
// confirmation never arrived, so nothing stays processing indefinitely.
type Poller struct {
	repo           PayoutRepo
	client         PayoutClient
	effects        Outbox
	yenPerPoint    float64
	deadline       time.Duration
	limit          int
	updateInterval time.Duration
}

func NewPoller(cfg *config.Config, repo PayoutRepo, client PayoutClient, effects Outbox) *Poller {
	return &Poller{
		repo:           repo,
		client:         client,
		effects:        effects,
		yenPerPoint:    cfg.YenPerPoint,
		deadline:       cfg.ProcessingDeadline,
		limit:          100,
		updateInterval: time.Minute,
	}
}

func (p *Poller) Start(ctx context.Context) {
	zap.L().Info("Payout poller started")
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping payout poller")
			return
		case <-ticker.C:
			if err := p.submitScheduled(ctx); err != nil {
				zap.L().Error("scheduled payout submission failed", zap.Error(err))
			}
			if err := p.reconcileStuck(ctx); err != nil {
				zap.L().Error("stuck payout reconciliation failed", zap.Error(err))
			}
		}
	}
}

func (p *Poller) submitScheduled(ctx context.Context) error {
	payouts, err := p.repo.FindForSubmission(ctx, p.limit)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for _, payout := range payouts {
		payout := payout
		g.Go(func() error {
			p.submit(ctx, payout)
			return nil
		})
	}
	return g.Wait()
}

func (p *Poller) submit(ctx context.Context, payout domain.CastPayout) {
	net := payout.Amount - payout.Fee
	yen := int64(float64(net) * p.yenPerPoint)

	resp, err := p.client.CreatePayout(ctx, payout.Destination, yen, "jpy", map[string]string{
		"payout_id": strconv.Itoa(payout.ID),
	})
	if err != nil {
		zap.L().Error("processor refused scheduled payout", zap.Error(err), zap.Int("payoutID", payout.ID))
		p.fail(ctx, payout)
		return
	}

	if err := p.repo.SetProcessorRef(ctx, payout.PaymentID, resp.ID); err != nil {
		zap.L().Error("can't record processor ref", zap.Error(err), zap.Int("payoutID", payout.ID))
		return
	}
	if err := p.repo.UpdatePayoutStatus(ctx, payout.ID, domain.PayoutProcessing, nil); err != nil {
		zap.L().Error("can't mark payout processing", zap.Error(err), zap.Int("payoutID", payout.ID))
	}
}

func (p *Poller) reconcileStuck(ctx context.Context) error {
	cutoff := time.Now().Add(-p.deadline)
	payouts, err := p.repo.FindStuckProcessing(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, payout := range payouts {
		zap.L().Warn("payout stuck processing past deadline, failing it",
			zap.Int("payoutID", payout.ID), zap.Time("requestedAt", payout.RequestedAt))
		p.fail(ctx, payout)
	}
	return nil
}

func (p *Poller) fail(ctx context.Context, payout domain.CastPayout) {
	now := time.Now()
	if err := p.repo.UpdatePayoutStatus(ctx, payout.ID, domain.PayoutFailed, &now); err != nil {
		zap.L().Error("can't mark payout failed", zap.Error(err), zap.Int("payoutID", payout.ID))
		return
	}
	if err := p.repo.UpdatePaymentStatus(ctx, payout.PaymentID, domain.PaymentFailed); err != nil {
		zap.L().Error("can't mark payment failed", zap.Error(err), zap.Int("payoutID", payout.ID))
	}
	if err := p.effects.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
		UserID:   payout.CastID,
		UserType: string(domain.OwnerCast),
		Type:     outbox.NotifyPayoutFailed,
		Payload:  map[string]any{"payout_id": payout.ID},
	}); err != nil {
		zap.L().Error("can't enqueue payout failure notification", zap.Error(err))
	}
}
