package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

type GetContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewGetContractUseCase(contractRepo repository.ContractRepository) *GetContractUseCase {
	return &GetContractUseCase{contractRepo: contractRepo}
}

func (uc *GetContractUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID) (*entity.Contract, error) {
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

	return c, nil
}

type ListMyContractsUseCase struct {
	contractRepo repository.ContractRepository
}

func NewListMyContractsUseCase(contractRepo repository.ContractRepository) *ListMyContractsUseCase {
	return &ListMyContractsUseCase{contractRepo: contractRepo}
}

func (uc *ListMyContractsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error) {
	return uc.contractRepo.FindByParty(ctx, userID)
}

type GetBreakdownUseCase struct {
	contractRepo repository.ContractRepository
}

func NewGetBreakdownUseCase(contractRepo repository.ContractRepository) *GetBreakdownUseCase {
	return &GetBreakdownUseCase{contractRepo: contractRepo}
}

// Execute возвращает сводку расчёта по контракту, либо по одному его этапу,
// если milestoneID не nil. Вычисление чистое: повторный вызов на
// неизменённом контракте даёт тот же результат.
func (uc *GetBreakdownUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID, milestoneID *uuid.UUID) (settlement.Breakdown, error) {
	c, err := uc.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return settlement.Breakdown{}, err
	}
	if c == nil {
		return settlement.Breakdown{}, apperror.ErrContractNotFound
	}

	if !c.IsParty(userID) {
		return settlement.Breakdown{}, apperror.ErrForbidden
	}

	if milestoneID == nil {
		return settlement.ComputeBreakdown(c.TotalAmount, c.Structure)
	}

	m := c.MilestoneByID(*milestoneID)
	if m == nil {
		return settlement.Breakdown{}, apperror.ErrMilestoneNotFound
	}

	return settlement.ComputeMilestoneBreakdown(m.Amount, c.Structure)
}
