package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/dto"
	"github.com/ignatzorin/settlement-backend/internal/http/handlers/common"
	"github.com/ignatzorin/settlement-backend/internal/logger"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	paymentuc "github.com/ignatzorin/settlement-backend/internal/usecase/payment"
	"github.com/ignatzorin/settlement-backend/internal/ws"
)

const maxWebhookBodyBytes = int64(65536)

// WebhookHandler принимает отчёты платёжного шлюза.
// Подпись проверяется до разбора тела: неподписанные события отбрасываются.
type WebhookHandler struct {
	settle         *paymentuc.ApplySettlementUseCase
	contracts      repository.ContractRepository
	payments       repository.PaymentRepository
	hub            *ws.Hub
	endpointSecret string
}

// NewWebhookHandler создаёт новый хэндлер.
func NewWebhookHandler(settle *paymentuc.ApplySettlementUseCase, contracts repository.ContractRepository, payments repository.PaymentRepository, hub *ws.Hub, endpointSecret string) *WebhookHandler {
	return &WebhookHandler{
		settle:         settle,
		contracts:      contracts,
		payments:       payments,
		hub:            hub,
		endpointSecret: endpointSecret,
	}
}

// HandleGatewayWebhook обрабатывает POST /webhooks/gateway.
func (h *WebhookHandler) HandleGatewayWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.RespondError(c, http.StatusServiceUnavailable, "не удалось прочитать тело запроса")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.endpointSecret)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Warn("Webhook signature verification failed")
		}
		common.RespondBadRequest(c, "невалидная подпись вебхука")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.handlePaymentIntent(c, event, true)
	case "payment_intent.payment_failed":
		h.handlePaymentIntent(c, event, false)
	default:
		if logger.Log != nil {
			logger.Log.WithField("type", event.Type).Debug("Webhook event ignored")
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (h *WebhookHandler) handlePaymentIntent(c *gin.Context, event stripe.Event, succeeded bool) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		common.RespondBadRequest(c, "не удалось разобрать событие шлюза")
		return
	}

	paymentID, err := h.resolvePaymentID(c, &pi)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	result := paymentuc.GatewayResult{
		PaymentID:  paymentID,
		ExternalID: pi.ID,
		Succeeded:  succeeded,
	}
	if !succeeded && pi.LastPaymentError != nil {
		result.FailureReason = pi.LastPaymentError.Msg
	}

	payment, err := h.settle.Execute(c.Request.Context(), result)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	h.notifyParties(c, payment)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// resolvePaymentID ищет платёж по метаданным события, затем по external_id.
func (h *WebhookHandler) resolvePaymentID(c *gin.Context, pi *stripe.PaymentIntent) (uuid.UUID, error) {
	if raw, ok := pi.Metadata["payment_id"]; ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			return parsed, nil
		}
	}

	payment, err := h.payments.FindByExternalID(c.Request.Context(), pi.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if payment != nil {
		return payment.ID, nil
	}

	return uuid.Nil, apperror.ErrPaymentNotFound
}

func (h *WebhookHandler) notifyParties(c *gin.Context, payment *entity.Payment) {
	if h.hub == nil {
		return
	}

	contract, err := h.contracts.FindByID(c.Request.Context(), payment.ContractID)
	if err != nil || contract == nil {
		return
	}

	event := "payment.failed"
	if payment.Status == valueobject.PaymentStatusCompleted {
		event = "payment.completed"
	}
	h.hub.BroadcastToUsers([]uuid.UUID{contract.ClientID, contract.FreelancerID}, event, dto.NewPaymentResponse(payment))
}
