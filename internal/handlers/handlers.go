package handlers

import (
	"net/http"

	_ "github.com/withu0/pishatto-engine/docs"
	"github.com/withu0/pishatto-engine/internal/config"
	"github.com/withu0/pishatto-engine/internal/domain"
	actorhandlers "github.com/withu0/pishatto-engine/internal/handlers/actors"
	ledgerhandlers "github.com/withu0/pishatto-engine/internal/handlers/ledger"
	payouthandlers "github.com/withu0/pishatto-engine/internal/handlers/payouts"
	reservationhandlers "github.com/withu0/pishatto-engine/internal/handlers/reservations"
	webhookhandlers "github.com/withu0/pishatto-engine/internal/handlers/webhook"
	"github.com/withu0/pishatto-engine/internal/service"
	"github.com/withu0/pishatto-engine/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ActorHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type ReservationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	ApproveMultiple(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type PayoutHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	RequestInstant(w http.ResponseWriter, r *http.Request)
	RequestScheduled(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	HandleProcessorEvent(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	ActorHandler       ActorHandler
	ReservationHandler ReservationHandler
	LedgerHandler      LedgerHandler
	PayoutHandler      PayoutHandler
	WebhookHandler     WebhookHandler
}

func New(s *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		ActorHandler:       actorhandlers.New(s.ActorService),
		ReservationHandler: reservationhandlers.New(s.MatchingService),
		LedgerHandler:      ledgerhandlers.New(s.LedgerService),
		PayoutHandler:      payouthandlers.New(s.PayoutService),
		WebhookHandler:     webhookhandlers.New(s.WebhookService, cfg.WebhookSecret),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.ActorHandler.Register)
			r.Post("/login", h.ActorHandler.Login)
		})

		r.Post("/webhooks/processor", h.WebhookHandler.HandleProcessorEvent)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Route("/reservations", func(r chi.Router) {
				r.With(auth.RequireType(domain.ActorGuest)).Post("/", h.ReservationHandler.Create)
				r.Get("/{id}", h.ReservationHandler.Get)
				r.With(auth.RequireType(domain.ActorCast)).Post("/{id}/applications", h.ReservationHandler.Apply)
				r.With(auth.RequireType(domain.ActorAdmin)).Post("/{id}/approve-multiple", h.ReservationHandler.ApproveMultiple)
				r.With(auth.RequireType(domain.ActorAdmin)).Post("/{id}/complete", h.ReservationHandler.Complete)
				r.Post("/{id}/cancel", h.ReservationHandler.Cancel)
			})
			r.Route("/applications", func(r chi.Router) {
				r.Use(auth.RequireType(domain.ActorAdmin))
				r.Post("/{id}/approve", h.ReservationHandler.Approve)
				r.Post("/{id}/reject", h.ReservationHandler.Reject)
			})

			r.Get("/balance", h.LedgerHandler.GetBalance)
			r.Get("/transactions", h.LedgerHandler.GetTransactions)

			r.Route("/payouts", func(r chi.Router) {
				r.Use(auth.RequireType(domain.ActorCast))
				r.Get("/summary", h.PayoutHandler.GetSummary)
				r.Post("/instant", h.PayoutHandler.RequestInstant)
				r.Post("/scheduled", h.PayoutHandler.RequestScheduled)
			})
		})
	})

	return r
}
