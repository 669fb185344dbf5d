package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

type InitiatePaymentInput struct {
	ContractID  uuid.UUID
	MilestoneID uuid.UUID
	ClientID    uuid.UUID
	Method      string
}

type InitiatePaymentUseCase struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
}

func NewInitiatePaymentUseCase(contractRepo repository.ContractRepository, paymentRepo repository.PaymentRepository) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{contractRepo: contractRepo, paymentRepo: paymentRepo}
}

// Execute создаёт платёж по этапу и переводит его в processing: движок
// выдаёт суммы и запрос авторизации, фактическое движение денег выполняет
// внешний шлюз и сообщает итог вебхуком.
func (uc *InitiatePaymentUseCase) Execute(ctx context.Context, input InitiatePaymentInput) (*entity.Payment, error) {
	c, err := uc.contractRepo.FindByID(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrContractNotFound
	}

	if !c.IsOwnedBy(input.ClientID) {
		return nil, apperror.ErrForbidden
	}
	if c.Status != valueobject.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeValidation, "платёж возможен только по активному контракту")
	}

	m := c.MilestoneByID(input.MilestoneID)
	if m == nil {
		return nil, apperror.ErrMilestoneNotFound
	}
	if err := checkPayable(c, m); err != nil {
		return nil, err
	}

	alloc, err := settlement.AllocateMilestone(m.Amount, c.Structure)
	if err != nil {
		return nil, err
	}

	p, err := entity.NewPayment(c, m, alloc, input.Method)
	if err != nil {
		return nil, err
	}

	// Запрос авторизации уходит шлюзу сразу после создания записи.
	if err := p.MarkProcessing(); err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// checkPayable проверяет готовность этапа к оплате: при предоплате этап
// оплачивается до начала работы, в остальных политиках — после сдачи.
func checkPayable(c *entity.Contract, m *entity.Milestone) error {
	if m.Status == valueobject.MilestoneStatusPaid {
		return apperror.New(apperror.ErrCodeConflict, "этап уже оплачен")
	}

	if c.Structure.Kind == valueobject.StructureUpfront {
		return nil
	}

	if m.Status != valueobject.MilestoneStatusCompleted {
		return apperror.New(apperror.ErrCodeValidation, "оплатить можно только сданный этап")
	}
	return nil
}
