package repo

import (
	"github.com/withu0/pishatto-engine/internal/outbox"
	"github.com/withu0/pishatto-engine/internal/pg"
	"github.com/withu0/pishatto-engine/internal/processor"
	accountrepo "github.com/withu0/pishatto-engine/internal/repo/account-repo"
	actorrepo "github.com/withu0/pishatto-engine/internal/repo/actor-repo"
	ledgerrepo "github.com/withu0/pishatto-engine/internal/repo/ledger-repo"
	outboxrepo "github.com/withu0/pishatto-engine/internal/repo/outbox-repo"
	payoutrepo "github.com/withu0/pishatto-engine/internal/repo/payout-repo"
	reservationrepo "github.com/withu0/pishatto-engine/internal/repo/reservation-repo"
	"github.com/withu0/pishatto-engine/internal/service/actorservice"
	"github.com/withu0/pishatto-engine/internal/service/ledgerservice"
	"github.com/withu0/pishatto-engine/internal/service/matchingservice"
	"github.com/withu0/pishatto-engine/internal/service/payoutservice"
)

type Repositories struct {
	ActorRepo       actorservice.Repo
	AccountRepo     ledgerservice.AccountRepo
	LedgerRepo      ledgerservice.LedgerRepo
	ReservationRepo matchingservice.Repo
	PayoutRepo      payoutservice.Repo
	PayoutQueue     processor.PayoutRepo
	OutboxRepo      outbox.Repo
	EffectQueue     matchingservice.Outbox
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	actorRepo := actorrepo.New(conn)
	accountRepo := accountrepo.New(conn)
	ledgerRepo := ledgerrepo.New(conn)
	reservationRepo := reservationrepo.New(conn, txManager)
	payoutRepo := payoutrepo.New(conn)
	outboxRepo := outboxrepo.New(conn)

	return &Repositories{
		ActorRepo:       actorRepo,
		AccountRepo:     accountRepo,
		LedgerRepo:      ledgerRepo,
		ReservationRepo: reservationRepo,
		PayoutRepo:      payoutRepo,
		PayoutQueue:     payoutRepo,
		OutboxRepo:      outboxRepo,
		EffectQueue:     outboxRepo,
	}
}
