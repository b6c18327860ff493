package payouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/dto"
	"github.com/withu0/pishatto-engine/internal/processor"
	payoutservice "github.com/withu0/pishatto-engine/internal/service/payoutservice"
	"github.com/withu0/pishatto-engine/pkg/auth"
	"github.com/withu0/pishatto-engine/pkg/utils"
)

type Service interface {
	BuildSummary(ctx context.Context, castID int) (*payoutservice.Summary, error)
	RequestInstantPayout(ctx context.Context, castID int, amount int64, destination, memo string) (*domain.CastPayout, error)
	RequestScheduledPayout(ctx context.Context, castID int, amount int64, destination, memo string) (*domain.CastPayout, error)
}

type PayoutHandler struct {
	payoutService Service
}

func New(payoutService Service) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// GetSummary godoc
//
//	@Summary		Get payout summary
//	@Description	Report withdrawable points, their currency value and the instant-eligible portion
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.PayoutSummaryResponseDTO
//	@Failure		401	{object}	utils.Response	"Actor not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/payouts/summary [get]
func (h *PayoutHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	castID := r.Context().Value(auth.ActorIDKey).(int)

	summary, err := h.payoutService.BuildSummary(r.Context(), castID)
	if err != nil {
		if errors.Is(err, payoutservice.ErrCastNotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PayoutSummaryResponseDTO{
		Points:          summary.Points,
		GradePoints:     summary.GradePoints,
		Grade:           summary.Grade,
		YenValue:        summary.YenValue,
		InstantEligible: summary.InstantEligible,
	})
}

// RequestInstant godoc
//
//	@Summary		Request an instant payout
//	@Description	Submit an instant withdrawal to the payment processor
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PayoutRequestDTO	true	"Payout request body"
//	@Success		201		{object}	dto.PayoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body or amount below minimum"
//	@Failure		401		{object}	utils.Response	"Actor not authorized"
//	@Failure		402		{object}	utils.Response	"Amount exceeds eligible funds"
//	@Failure		422		{object}	utils.Response	"Invalid destination"
//	@Failure		502		{object}	utils.Response	"Payment processor rejected the payout"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payouts/instant [post]
func (h *PayoutHandler) RequestInstant(w http.ResponseWriter, r *http.Request) {
	h.request(w, r, h.payoutService.RequestInstantPayout)
}

// RequestScheduled godoc
//
//	@Summary		Request a scheduled payout
//	@Description	Record a withdrawal for the next settlement run
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PayoutRequestDTO	true	"Payout request body"
//	@Success		201		{object}	dto.PayoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body or amount below minimum"
//	@Failure		401		{object}	utils.Response	"Actor not authorized"
//	@Failure		402		{object}	utils.Response	"Amount exceeds available points"
//	@Failure		422		{object}	utils.Response	"Invalid destination"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payouts/scheduled [post]
func (h *PayoutHandler) RequestScheduled(w http.ResponseWriter, r *http.Request) {
	h.request(w, r, h.payoutService.RequestScheduledPayout)
}

func (h *PayoutHandler) request(w http.ResponseWriter, r *http.Request,
	submit func(ctx context.Context, castID int, amount int64, destination, memo string) (*domain.CastPayout, error),
) {
	castID := r.Context().Value(auth.ActorIDKey).(int)

	var req dto.PayoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payout, err := submit(r.Context(), castID, req.Amount, req.Destination, req.Memo)
	if err != nil {
		switch {
		case errors.Is(err, payoutservice.ErrBelowMinimum):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, payoutservice.ErrInvalidDestination):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, payoutservice.ErrInsufficientEligibleFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, payoutservice.ErrCastNotFound):
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, processor.ErrProcessor):
			utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.PayoutResponseDTO{
		ID:          payout.ID,
		Amount:      payout.Amount,
		Fee:         payout.Fee,
		Status:      payout.Status,
		Type:        payout.Type,
		RequestedAt: payout.RequestedAt,
		ClosedAt:    payout.ClosedAt,
	})
}
