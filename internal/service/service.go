package service

import (
	"github.com/withu0/pishatto-engine/internal/config"
	"github.com/withu0/pishatto-engine/internal/handlers/actors"
	"github.com/withu0/pishatto-engine/internal/handlers/ledger"
	"github.com/withu0/pishatto-engine/internal/handlers/payouts"
	"github.com/withu0/pishatto-engine/internal/handlers/reservations"
	"github.com/withu0/pishatto-engine/internal/handlers/webhook"

	pkgauth "github.com/withu0/pishatto-engine/pkg/auth"

	"github.com/withu0/pishatto-engine/internal/pg"
	"github.com/withu0/pishatto-engine/internal/repo"
	"github.com/withu0/pishatto-engine/internal/service/actorservice"
	"github.com/withu0/pishatto-engine/internal/service/ledgerservice"
	"github.com/withu0/pishatto-engine/internal/service/matchingservice"
	"github.com/withu0/pishatto-engine/internal/service/payoutservice"
	"github.com/withu0/pishatto-engine/internal/settle"
)

type Services struct {
	ActorService    actors.Service
	MatchingService reservations.Service
	LedgerService   ledger.Service
	PayoutService   payouts.Service
	WebhookService  webhook.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, processorClient payoutservice.ProcessorClient) *Services {
	rates := settle.NewRateTable(cfg.StandardRatePerHour, cfg.FreeRatePerHour, cfg.PishattoRatePerHour)
	policy := payoutservice.Policy{
		Minimum:        cfg.PayoutMinimum,
		InstantPercent: cfg.InstantPercent,
		YenPerPoint:    cfg.YenPerPoint,
	}

	ledgerService := ledgerservice.New(repo.AccountRepo, repo.LedgerRepo, txManager)
	matchingService := matchingservice.New(repo.ReservationRepo, ledgerService, rates, repo.EffectQueue, txManager)
	payoutService := payoutservice.New(repo.PayoutRepo, ledgerService, processorClient, repo.EffectQueue, txManager, policy)
	actorService := actorservice.New(repo.ActorRepo, ledgerService, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		ActorService:    actorService,
		MatchingService: matchingService,
		LedgerService:   ledgerService,
		PayoutService:   payoutService,
		WebhookService:  payoutService,
	}
}
