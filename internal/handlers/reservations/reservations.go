package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/dto"
	ledgerservice "github.com/withu0/pishatto-engine/internal/service/ledgerservice"
	matchingservice "github.com/withu0/pishatto-engine/internal/service/matchingservice"
	"github.com/withu0/pishatto-engine/pkg/auth"
	"github.com/withu0/pishatto-engine/pkg/utils"
)

type Service interface {
	CreateReservation(ctx context.Context, guestID int, resType string, durationHours int, scheduledAt time.Time) (*domain.Reservation, error)
	Apply(ctx context.Context, reservationID, castID int) (*domain.ReservationApplication, error)
	ApproveSingle(ctx context.Context, applicationID, adminID int) error
	ApproveMultiple(ctx context.Context, reservationID, adminID int, castIDs []int) error
	Reject(ctx context.Context, applicationID, adminID int, reason string) error
	CompleteReservation(ctx context.Context, reservationID int, endedAt *time.Time) error
	CancelReservation(ctx context.Context, reservationID int) error
	GetReservation(ctx context.Context, reservationID int) (*domain.Reservation, error)
}

type ReservationHandler struct {
	matchingService Service
}

func New(matchingService Service) *ReservationHandler {
	return &ReservationHandler{
		matchingService: matchingService,
	}
}

// Create godoc
//
//	@Summary		Create a reservation
//	@Description	Open a reservation and hold its price from the guest balance
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateReservationRequestDTO	true	"Reservation request body"
//	@Success		201		{object}	dto.ReservationResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Actor not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient points"
//	@Failure		422		{object}	utils.Response	"Unsupported reservation type"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/reservations [post]
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	guestID := r.Context().Value(auth.ActorIDKey).(int)

	var req dto.CreateReservationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DurationHours <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Duration must be positive")
		return
	}

	reservation, err := h.matchingService.CreateReservation(r.Context(), guestID, req.Type, req.DurationHours, req.ScheduledAt)
	if err != nil {
		switch {
		case errors.Is(err, matchingservice.ErrUnsupportedType):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ledgerservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, ledgerservice.ErrAccountNotFound):
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(reservation))
}

// Get godoc
//
//	@Summary		Get a reservation
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.ReservationResponseDTO
//	@Failure		404	{object}	utils.Response	"Reservation not found"
//	@Router			/api/reservations/{id} [get]
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	reservation, err := h.matchingService.GetReservation(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, matchingservice.ErrReservationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(reservation))
}

// Apply godoc
//
//	@Summary		Apply to a reservation
//	@Description	Register the authenticated cast as a candidate for the reservation
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Produce		json
//	@Success		201	{object}	dto.ApplicationResponseDTO
//	@Failure		401	{object}	utils.Response	"Actor not authorized"
//	@Failure		404	{object}	utils.Response	"Reservation not found"
//	@Failure		409	{object}	utils.Response	"Reservation closed or already applied"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reservations/{id}/applications [post]
func (h *ReservationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	castID := r.Context().Value(auth.ActorIDKey).(int)

	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}

	application, err := h.matchingService.Apply(r.Context(), reservationID, castID)
	if err != nil {
		switch {
		case errors.Is(err, matchingservice.ErrReservationNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, matchingservice.ErrReservationClosed),
			errors.Is(err, matchingservice.ErrDuplicateApplication):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.ApplicationResponseDTO{
		ID:            application.ID,
		ReservationID: application.ReservationID,
		CastID:        application.CastID,
		Status:        application.Status,
	})
}

// Approve godoc
//
//	@Summary		Approve an application
//	@Description	Commit the applying cast as the reservation winner
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"Actor not authorized"
//	@Failure		404	{object}	utils.Response	"Application not found"
//	@Failure		409	{object}	utils.Response	"Application is not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/applications/{id}/approve [post]
func (h *ReservationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(auth.ActorIDKey).(int)

	applicationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid application id")
		return
	}

	if err := h.matchingService.ApproveSingle(r.Context(), applicationID, adminID); err != nil {
		h.respondMatchingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Application approved"})
}

// Reject godoc
//
//	@Summary		Reject an application
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RejectApplicationRequestDTO	false	"Rejection reason"
//	@Success		200		{object}	utils.Response
//	@Failure		404		{object}	utils.Response	"Application not found"
//	@Failure		409		{object}	utils.Response	"Application is not pending"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/applications/{id}/reject [post]
func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(auth.ActorIDKey).(int)

	applicationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid application id")
		return
	}

	var req dto.RejectApplicationRequestDTO
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.matchingService.Reject(r.Context(), applicationID, adminID, req.Reason); err != nil {
		h.respondMatchingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Application rejected"})
}

// ApproveMultiple godoc
//
//	@Summary		Approve several applications at once
//	@Description	Commit a set of casts for a pishatto reservation and hold their shares
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ApproveMultipleRequestDTO	true	"Cast ids to approve"
//	@Success		200		{object}	utils.Response
//	@Failure		402		{object}	utils.Response	"Insufficient points"
//	@Failure		404		{object}	utils.Response	"Reservation not found"
//	@Failure		409		{object}	utils.Response	"Application is not pending"
//	@Failure		422		{object}	utils.Response	"Reservation type does not allow multiple winners"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/reservations/{id}/approve-multiple [post]
func (h *ReservationHandler) ApproveMultiple(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(auth.ActorIDKey).(int)

	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}

	var req dto.ApproveMultipleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.CastIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.matchingService.ApproveMultiple(r.Context(), reservationID, adminID, req.CastIDs); err != nil {
		h.respondMatchingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Applications approved"})
}

// Complete godoc
//
//	@Summary		Complete a reservation
//	@Description	Settle held points to the committed casts with bonuses and fees
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CompleteReservationRequestDTO	false	"Actual end time"
//	@Success		200		{object}	utils.Response
//	@Failure		404		{object}	utils.Response	"Reservation not found"
//	@Failure		409		{object}	utils.Response	"Reservation already settled or has no winner"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/reservations/{id}/complete [post]
func (h *ReservationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}

	var req dto.CompleteReservationRequestDTO
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.matchingService.CompleteReservation(r.Context(), reservationID, req.EndedAt); err != nil {
		h.respondMatchingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Reservation settled"})
}

// Cancel godoc
//
//	@Summary		Cancel a reservation
//	@Description	Release the held points back to the guest and close the reservation
//	@Tags			Reservations
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Reservation not found"
//	@Failure		409	{object}	utils.Response	"Reservation already settled"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}

	if err := h.matchingService.CancelReservation(r.Context(), reservationID); err != nil {
		h.respondMatchingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Reservation canceled"})
}

func (h *ReservationHandler) respondMatchingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchingservice.ErrReservationNotFound),
		errors.Is(err, matchingservice.ErrApplicationNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, matchingservice.ErrNotPending),
		errors.Is(err, matchingservice.ErrReservationClosed),
		errors.Is(err, matchingservice.ErrNoWinner),
		errors.Is(err, ledgerservice.ErrAlreadySettled):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, matchingservice.ErrUnsupportedType):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledgerservice.ErrInsufficientFunds),
		errors.Is(err, ledgerservice.ErrNoPendingFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toResponse(reservation *domain.Reservation) dto.ReservationResponseDTO {
	return dto.ReservationResponseDTO{
		ID:            reservation.ID,
		Type:          reservation.Type,
		DurationHours: reservation.DurationHours,
		ScheduledAt:   reservation.ScheduledAt,
		Active:        reservation.Active,
		CastIDs:       reservation.Winners(),
		PointsEarned:  reservation.PointsEarned,
	}
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
