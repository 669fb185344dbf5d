package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

// GatewayResult — отчёт внешнего платёжного шлюза об итоге расчёта.
type GatewayResult struct {
	PaymentID     uuid.UUID
	ExternalID    string
	Succeeded     bool
	FailureReason string
}

type ApplySettlementUseCase struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
}

func NewApplySettlementUseCase(contractRepo repository.ContractRepository, paymentRepo repository.PaymentRepository) *ApplySettlementUseCase {
	return &ApplySettlementUseCase{contractRepo: contractRepo, paymentRepo: paymentRepo}
}

// Execute применяет итог шлюза как единое атомарное обновление: завершение
// платежа и оплата этапа (плюс автозавершение контракта, когда оплачен
// последний этап) сохраняются одной транзакцией. Повторная доставка того же
// события падает на страже статуса платежа и не меняет состояние.
func (uc *ApplySettlementUseCase) Execute(ctx context.Context, result GatewayResult) (*entity.Payment, error) {
	p, err := uc.paymentRepo.FindByID(ctx, result.PaymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.ErrPaymentNotFound
	}

	if !result.Succeeded {
		if err := p.Fail(result.FailureReason); err != nil {
			return nil, err
		}
		if err := uc.paymentRepo.Update(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	c, err := uc.contractRepo.FindByID(ctx, p.ContractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrContractNotFound
	}

	if p.MilestoneID == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "платёж не привязан к этапу")
	}
	m := c.MilestoneByID(*p.MilestoneID)
	if m == nil {
		return nil, apperror.ErrMilestoneNotFound
	}

	// Сначала все стражи в памяти, затем одна запись в базу.
	if err := p.Complete(result.ExternalID); err != nil {
		return nil, err
	}
	if err := m.MarkPaid(p); err != nil {
		return nil, err
	}
	if c.AllMilestonesPaid() && c.Status == valueobject.ContractStatusActive {
		if err := c.Complete(); err != nil {
			return nil, err
		}
	}

	if err := uc.paymentRepo.ApplySettlement(ctx, p, m, c); err != nil {
		return nil, err
	}

	return p, nil
}
