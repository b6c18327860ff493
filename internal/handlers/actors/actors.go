package actors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/dto"
	actorservice "github.com/withu0/pishatto-engine/internal/service/actorservice"
	"github.com/withu0/pishatto-engine/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, login, password, actorType string) (*domain.Actor, error)
	Authenticate(ctx context.Context, login, password string) (*domain.Actor, error)
	GenerateToken(actorID int, actorType string) (string, error)
}

type ActorHandler struct {
	actorService Service
}

func New(actorService Service) *ActorHandler {
	return &ActorHandler{
		actorService: actorService,
	}
}

// Register godoc
//
//	@Summary		Register a new actor
//	@Description	Create a guest, cast or admin account with login and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		200		{object}	dto.RegisterResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Login already taken"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/register [post]
func (h *ActorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ActorType == "" {
		req.ActorType = domain.ActorGuest
	}
	actor, err := h.actorService.Register(r.Context(), req.Login, req.Password, req.ActorType)
	if err != nil {
		switch {
		case errors.Is(err, actorservice.ErrUnknownActorType):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, actorservice.ErrLoginTaken):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	token, err := h.actorService.GenerateToken(actor.ID, actor.ActorType)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.RegisterResponseDTO{
		Message: "Actor successfully registered",
	})
}

// Login godoc
//
//	@Summary		Authenticate actor
//	@Description	Log in with an actor account and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/login [post]
func (h *ActorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actor, err := h.actorService.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := h.actorService.GenerateToken(actor.ID, actor.ActorType)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "Actor successfully authenticated",
	})
}
