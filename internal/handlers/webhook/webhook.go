package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/dto"
	payoutservice "github.com/withu0/pishatto-engine/internal/service/payoutservice"
	"github.com/withu0/pishatto-engine/pkg/utils"
)

const signatureHeader = "X-Processor-Signature"

type Service interface {
	OnProcessorCallback(ctx context.Context, payoutRef, outcome string) error
}

// WebhookHandler receives payout outcome callbacks from the payment
// processor. Callbacks are authenticated by an HMAC-SHA256 signature over
// the raw request body.
type WebhookHandler struct {
	payoutService Service
	secret        []byte
}

func New(payoutService Service, secret string) *WebhookHandler {
	return &WebhookHandler{
		payoutService: payoutService,
		secret:        []byte(secret),
	}
}

// HandleProcessorEvent godoc
//
//	@Summary		Receive a processor payout event
//	@Description	Apply a signed payout outcome callback from the payment processor
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Processor-Signature	header		string					true	"HMAC-SHA256 signature of the raw body"
//	@Param			request					body		dto.ProcessorWebhookDTO	true	"Processor event body"
//	@Success		200						{object}	utils.Response
//	@Failure		400						{object}	utils.Response	"Invalid payload"
//	@Failure		401						{object}	utils.Response	"Signature verification failed"
//	@Failure		404						{object}	utils.Response	"Unknown payout reference"
//	@Failure		500						{object}	utils.Response	"Internal server error"
//	@Router			/api/webhooks/processor [post]
func (h *WebhookHandler) HandleProcessorEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if !h.verifySignature(body, r.Header.Get(signatureHeader)) {
		zap.L().Warn("processor webhook signature mismatch")
		utils.RespondWithError(w, http.StatusUnauthorized, "Signature verification failed")
		return
	}

	var event dto.ProcessorWebhookDTO
	if err := json.Unmarshal(body, &event); err != nil || event.PayoutRef == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := h.payoutService.OnProcessorCallback(r.Context(), event.PayoutRef, event.Outcome); err != nil {
		switch {
		case errors.Is(err, payoutservice.ErrUnknownOutcome):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, payoutservice.ErrPayoutNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Event accepted"})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
