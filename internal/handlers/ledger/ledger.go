package ledger

import (
	"context"
	"errors"
	"net/http"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/dto"
	ledgerservice "github.com/withu0/pishatto-engine/internal/service/ledgerservice"
	"github.com/withu0/pishatto-engine/pkg/auth"
	"github.com/withu0/pishatto-engine/pkg/utils"
)

const transactionsLimit = 100

type Service interface {
	GetAccount(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
	GetTransactions(ctx context.Context, owner domain.AccountRef, limit int) ([]domain.PointTransaction, error)
}

type LedgerHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current actor balance
//	@Description	Retrieve available points, grade points and grade for the authenticated actor
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current balance"
//	@Failure		401	{object}	utils.Response			"Actor not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/balance [get]
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r)

	account, err := h.ledgerService.GetAccount(r.Context(), owner)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrAccountNotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Points:      account.Points,
		GradePoints: account.GradePoints,
		Grade:       account.Grade,
	})
}

// GetTransactions godoc
//
//	@Summary		Get transaction history
//	@Description	Get the ledger entries of the authenticated actor, newest first
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetTransactionsResponseDTO	"Transaction history"
//	@Success		204	{object}	utils.Response					"No transactions"
//	@Failure		401	{object}	utils.Response					"Actor not authorized"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/transactions [get]
func (h *LedgerHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r)

	transactions, err := h.ledgerService.GetTransactions(r.Context(), owner, transactionsLimit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	if len(transactions) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No transactions")
		return
	}

	response := make([]dto.GetTransactionsResponseDTO, len(transactions))
	for i, tx := range transactions {
		response[i] = dto.GetTransactionsResponseDTO{
			Type:          tx.Type,
			Amount:        tx.Amount,
			ReservationID: tx.ReservationID,
			Description:   tx.Description,
			CreatedAt:     tx.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func ownerFromContext(r *http.Request) domain.AccountRef {
	actorID := r.Context().Value(auth.ActorIDKey).(int)
	actorType := r.Context().Value(auth.ActorTypeKey).(string)
	return domain.AccountRef{Type: domain.OwnerType(actorType), ID: actorID}
}
