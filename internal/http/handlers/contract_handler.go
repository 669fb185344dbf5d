package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/dto"
	"github.com/ignatzorin/settlement-backend/internal/http/handlers/common"
	contractuc "github.com/ignatzorin/settlement-backend/internal/usecase/contract"
	"github.com/ignatzorin/settlement-backend/internal/ws"
)

// ContractUseCases собирает сценарии работы с контрактами и этапами.
type ContractUseCases struct {
	Create            *contractuc.CreateContractUseCase
	List              *contractuc.ListMyContractsUseCase
	Get               *contractuc.GetContractUseCase
	Finalize          *contractuc.FinalizeContractUseCase
	Sign              *contractuc.SignContractUseCase
	Complete          *contractuc.CompleteContractUseCase
	Cancel            *contractuc.CancelContractUseCase
	Dispute           *contractuc.DisputeContractUseCase
	ResolveDispute    *contractuc.ResolveDisputeUseCase
	Breakdown         *contractuc.GetBreakdownUseCase
	StartMilestone    *contractuc.StartMilestoneUseCase
	CompleteMilestone *contractuc.CompleteMilestoneUseCase
	DisputeMilestone  *contractuc.DisputeMilestoneUseCase
}

type ContractHandler struct {
	uc  ContractUseCases
	hub *ws.Hub
}

// NewContractHandler создаёт новый хэндлер.
func NewContractHandler(uc ContractUseCases, hub *ws.Hub) *ContractHandler {
	return &ContractHandler{uc: uc, hub: hub}
}

// CreateContract обрабатывает POST /contracts.
func (h *ContractHandler) CreateContract(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateContractRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	plan := make([]contractuc.PlanItemInput, 0, len(req.Plan))
	for _, item := range req.Plan {
		plan = append(plan, contractuc.PlanItemInput{
			Fraction:    item.Fraction,
			Description: item.Description,
		})
	}

	contract, err := h.uc.Create.Execute(c.Request.Context(), contractuc.CreateContractInput{
		ClientID:     userID,
		FreelancerID: req.FreelancerID,
		Title:        req.Title,
		Description:  req.Description,
		TotalAmount:  req.TotalAmount,
		Structure:    req.Structure,
		Plan:         plan,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.NewContractResponse(contract))
}

// ListMyContracts обрабатывает GET /contracts.
func (h *ContractHandler) ListMyContracts(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contracts, err := h.uc.List.Execute(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	out := make([]dto.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		out = append(out, dto.NewContractResponse(contract))
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"contracts": out})
}

// GetContract обрабатывает GET /contracts/:id.
func (h *ContractHandler) GetContract(c *gin.Context) {
	userID, contractID, ok := h.subjectAndContract(c)
	if !ok {
		return
	}

	contract, err := h.uc.Get.Execute(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewContractResponse(contract))
}

// GetBreakdown обрабатывает GET /contracts/:id/breakdown?milestone_id=...
// Без параметра возвращает раскладку всего контракта, с параметром — этапа.
func (h *ContractHandler) GetBreakdown(c *gin.Context) {
	userID, contractID, ok := h.subjectAndContract(c)
	if !ok {
		return
	}

	var milestoneID *uuid.UUID
	if raw := c.Query("milestone_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "milestone_id должен быть валидным UUID")
			return
		}
		milestoneID = &parsed
	}

	breakdown, err := h.uc.Breakdown.Execute(c.Request.Context(), contractID, userID, milestoneID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.NewBreakdownResponse(breakdown))
}

// FinalizeContract обрабатывает POST /contracts/:id/finalize.
// Черновик получает материализованные этапы и уходит на подписание.
func (h *ContractHandler) FinalizeContract(c *gin.Context) {
	userID, contractID, ok := h.subjectAndContract(c)
	if !ok {
		return
	}

	contract, err := h.uc.Finalize.Execute(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	h.notifyParties(contract, "contract.pending_signature")
	common.RespondJSON(c, http.StatusOK, dto.NewContractResponse(contract))
}

// SignContract обрабатывает POST /contracts/:id/sign.
func (h *ContractHandler) SignContract(c *gin.Context) {
	userID, contractID, ok := h.subjectAndContract(c)
	if !ok {
		return
	}

	contract, err := h.uc.Sign.Execute(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	event := "contract.signed"
	if contract.Status == valueobject.ContractStatusActive {
		event = "contract.activated"
	}
	h.notifyParties(contract, event)
	common.RespondJSON(c, http.StatusOK, dto.NewContractResponse(contract))
}

// CompleteContract обрабатывает POST /contracts/:id/complete.
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	h.transition(c, "contract.completed", h.uc.Complete.Execute)
}

// CancelContract обрабатывает POST /contracts/:id/cancel.
func (h *ContractHandler) CancelContract(c *gin.Context) {
	h.transition(c, "contract.cancelled", h.uc.Cancel.Execute)
}

// DisputeContract обрабатывает POST /contracts/:id/dispute.
func (h *ContractHandler) DisputeContract(c *gin.Context) {
	h.transition(c, "contract.disputed", h.uc.Dispute.Execute)
}

// ResolveDispute обрабатывает POST /contracts/:id/resolve.
func (h *ContractHandler) ResolveDispute(c *gin.Context) {
	h.transition(c, "contract.dispute_resolved", h.uc.ResolveDispute.Execute)
}

// StartMilestone обрабатывает POST /contracts/:id/milestones/:milestoneId/start.
func (h *ContractHandler) StartMilestone(c *gin.Context) {
	h.milestoneTransition(c, "milestone.started", h.uc.StartMilestone.Execute)
}

// CompleteMilestone обрабатывает POST /contracts/:id/milestones/:milestoneId/complete.
func (h *ContractHandler) CompleteMilestone(c *gin.Context) {
	h.milestoneTransition(c, "milestone.completed", h.uc.CompleteMilestone.Execute)
}

// DisputeMilestone обрабатывает POST /contracts/:id/milestones/:milestoneId/dispute.
func (h *ContractHandler) DisputeMilestone(c *gin.Context) {
	h.milestoneTransition(c, "milestone.disputed", h.uc.DisputeMilestone.Execute)
}

func (h *ContractHandler) subjectAndContract(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}

	return userID, contractID, true
}

// transition выполняет сценарий, меняющий статус контракта, и оповещает стороны.
func (h *ContractHandler) transition(c *gin.Context, event string, exec func(ctx context.Context, contractID, userID uuid.UUID) (*entity.Contract, error)) {
	userID, contractID, ok := h.subjectAndContract(c)
	if !ok {
		return
	}

	contract, err := exec(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	h.notifyParties(contract, event)
	common.RespondJSON(c, http.StatusOK, dto.NewContractResponse(contract))
}

// milestoneTransition выполняет сценарий, меняющий статус этапа.
func (h *ContractHandler) milestoneTransition(c *gin.Context, event string, exec func(ctx context.Context, contractID, milestoneID, userID uuid.UUID) (*entity.Milestone, error)) {
	userID, contractID, ok := h.subjectAndContract(c)
	if !ok {
		return
	}

	milestoneID, err := common.ParseUUIDParam(c, "milestoneId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	milestone, err := exec(c.Request.Context(), contractID, milestoneID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if contract, loadErr := h.uc.Get.Execute(c.Request.Context(), contractID, userID); loadErr == nil {
		h.notifyMilestone(contract, milestone, event)
	}
	common.RespondJSON(c, http.StatusOK, dto.NewMilestoneResponse(milestone))
}

func (h *ContractHandler) notifyParties(contract *entity.Contract, event string) {
	if h.hub == nil {
		return
	}
	payload := dto.NewContractResponse(contract)
	h.hub.BroadcastToUsers([]uuid.UUID{contract.ClientID, contract.FreelancerID}, event, payload)
}

func (h *ContractHandler) notifyMilestone(contract *entity.Contract, milestone *entity.Milestone, event string) {
	if h.hub == nil {
		return
	}
	payload := dto.NewMilestoneResponse(milestone)
	h.hub.BroadcastToUsers([]uuid.UUID{contract.ClientID, contract.FreelancerID}, event, payload)
}
