package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/settlement-backend/internal/dto"
	"github.com/ignatzorin/settlement-backend/internal/http/handlers/common"
	paymentuc "github.com/ignatzorin/settlement-backend/internal/usecase/payment"
	"github.com/ignatzorin/settlement-backend/internal/ws"
)

// PaymentUseCases собирает сценарии работы с платежами.
type PaymentUseCases struct {
	Initiate *paymentuc.InitiatePaymentUseCase
	List     *paymentuc.ListContractPaymentsUseCase
	Refund   *paymentuc.RefundPaymentUseCase
}

type PaymentHandler struct {
	uc  PaymentUseCases
	hub *ws.Hub
}

// NewPaymentHandler создаёт новый хэндлер.
func NewPaymentHandler(uc PaymentUseCases, hub *ws.Hub) *PaymentHandler {
	return &PaymentHandler{uc: uc, hub: hub}
}

// InitiatePayment обрабатывает POST /contracts/:id/payments.
// Создаёт платёж по этапу и возвращает его в статусе processing:
// списание проводит внешний шлюз и сообщает итог вебхуком.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.InitiatePaymentRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payment, err := h.uc.Initiate.Execute(c.Request.Context(), paymentuc.InitiatePaymentInput{
		ContractID:  contractID,
		MilestoneID: req.MilestoneID,
		ClientID:    userID,
		Method:      req.Method,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if h.hub != nil {
		_ = h.hub.BroadcastToUser(userID, "payment.initiated", dto.NewPaymentResponse(payment))
	}

	common.RespondJSON(c, http.StatusCreated, dto.NewPaymentResponse(payment))
}

// ListContractPayments обрабатывает GET /contracts/:id/payments.
func (h *PaymentHandler) ListContractPayments(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payments, err := h.uc.List.Execute(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.NewPaymentResponse(p))
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"payments": out})
}

// RefundPayment обрабатывает POST /payments/:id/refund.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	paymentID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	payment, err := h.uc.Refund.Execute(c.Request.Context(), paymentID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if h.hub != nil {
		_ = h.hub.BroadcastToUser(userID, "payment.refunded", dto.NewPaymentResponse(payment))
	}

	common.RespondJSON(c, http.StatusOK, dto.NewPaymentResponse(payment))
}
