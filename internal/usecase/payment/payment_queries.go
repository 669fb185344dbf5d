package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

type ListContractPaymentsUseCase struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
}

func NewListContractPaymentsUseCase(contractRepo repository.ContractRepository, paymentRepo repository.PaymentRepository) *ListContractPaymentsUseCase {
	return &ListContractPaymentsUseCase{contractRepo: contractRepo, paymentRepo: paymentRepo}
}

func (uc *ListContractPaymentsUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID) ([]*entity.Payment, error) {
	c, err := uc.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrContractNotFound
	}

	if !c.IsParty(userID) {
		return nil, apperror.ErrForbidden
	}

	return uc.paymentRepo.ListByContract(ctx, contractID)
}

type RefundPaymentUseCase struct {
	paymentRepo repository.PaymentRepository
}

func NewRefundPaymentUseCase(paymentRepo repository.PaymentRepository) *RefundPaymentUseCase {
	return &RefundPaymentUseCase{paymentRepo: paymentRepo}
}

// Execute отмечает возврат завершённого платежа. Суммы и разбивка комиссии
// не пересчитываются: меняется только статус и временные отметки.
func (uc *RefundPaymentUseCase) Execute(ctx context.Context, paymentID, clientID uuid.UUID) (*entity.Payment, error) {
	p, err := uc.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.ErrPaymentNotFound
	}

	if p.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	if err := p.Refund(); err != nil {
		return nil, err
	}

	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
