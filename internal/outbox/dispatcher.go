package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/withu0/pishatto-engine/internal/domain"
)

const (
	deliveryRetries  = 3
	deliveryInterval = time.Second * 1
)

var inflightEffects sync.Map

type Repo interface {
	FindPending(ctx context.Context, limit int) ([]domain.SideEffect, error)
	MarkSent(ctx context.Context, id int) error
	MarkFailed(ctx context.Context, id, attempts int) error
}

// Dispatcher drains committed side-effect rows and delivers each to its
// collaborator. Delivery is at-least-once; every collaborator call must
// tolerate duplicates.
type Dispatcher struct {
	repo         Repo
	publisher    NotifyPublisherI
	ranking      RankingCacheI
	chat         ChatClientI
	limit        int
	workerPool   WorkerPoolI
	pollInterval time.Duration
}

func NewDispatcher(repo Repo, publisher NotifyPublisherI, ranking RankingCacheI, chat ChatClientI) *Dispatcher {
	return &Dispatcher{
		repo:         repo,
		publisher:    publisher,
		ranking:      ranking,
		chat:         chat,
		limit:        100,
		workerPool:   NewWorkerPool(10),
		pollInterval: time.Second * 5,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	zap.L().Info("Side effect dispatcher started")
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping dispatcher")
			return
		case <-ticker.C:
			d.dispatchPending(ctx)
		}
	}
}

func (d *Dispatcher) dispatchPending(ctx context.Context) {
	effects, err := d.repo.FindPending(ctx, d.limit)
	if err != nil {
		zap.L().Error("Failed to fetch pending side effects", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, effect := range effects {
		effect := effect

		if _, loaded := inflightEffects.LoadOrStore(effect.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := d.workerPool.AddTask(ctx, func() error {
				defer inflightEffects.Delete(effect.ID)
				return d.handleEffect(ctx, effect)
			})
			if err != nil {
				inflightEffects.Delete(effect.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching side effects", zap.Error(err))
	}
}

func (d *Dispatcher) handleEffect(ctx context.Context, effect domain.SideEffect) error {
	backoff := retry.WithMaxRetries(deliveryRetries, retry.NewConstant(deliveryInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := d.deliver(ctx, effect); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("Side effect delivery exhausted retries",
			zap.Int("id", effect.ID), zap.String("kind", effect.Kind), zap.Error(err))
		return d.repo.MarkFailed(ctx, effect.ID, effect.Attempts+1)
	}
	return d.repo.MarkSent(ctx, effect.ID)
}

func (d *Dispatcher) deliver(ctx context.Context, effect domain.SideEffect) error {
	switch effect.Kind {
	case KindNotify:
		return d.publisher.Publish(ctx, effect.Payload)
	case KindChatEnsure:
		var payload ChatEnsurePayload
		if err := json.Unmarshal(effect.Payload, &payload); err != nil {
			return fmt.Errorf("failed to parse chat payload: %w", err)
		}
		return d.chat.EnsureGroup(ctx, payload)
	case KindRankingInvalidate:
		var payload RankingInvalidatePayload
		if err := json.Unmarshal(effect.Payload, &payload); err != nil {
			return fmt.Errorf("failed to parse ranking payload: %w", err)
		}
		return d.ranking.Invalidate(ctx, payload.Region)
	default:
		return fmt.Errorf("unrecognized side effect kind: %s", effect.Kind)
	}
}
