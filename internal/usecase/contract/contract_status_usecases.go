package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

type CompleteContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewCompleteContractUseCase(contractRepo repository.ContractRepository) *CompleteContractUseCase {
	return &CompleteContractUseCase{contractRepo: contractRepo}
}

func (uc *CompleteContractUseCase) Execute(ctx context.Context, contractID, clientID uuid.UUID) (*entity.Contract, error) {
	c, err := uc.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrContractNotFound
	}

	if !c.IsOwnedBy(clientID) {
		return nil, apperror.ErrForbidden
	}

	if err := c.Complete(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

type CancelContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewCancelContractUseCase(contractRepo repository.ContractRepository) *CancelContractUseCase {
	return &CancelContractUseCase{contractRepo: contractRepo}
}

func (uc *CancelContractUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID) (*entity.Contract, error) {
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

	if err := c.Cancel(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

type DisputeContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewDisputeContractUseCase(contractRepo repository.ContractRepository) *DisputeContractUseCase {
	return &DisputeContractUseCase{contractRepo: contractRepo}
}

func (uc *DisputeContractUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID) (*entity.Contract, error) {
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

	if err := c.Dispute(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

type ResolveDisputeUseCase struct {
	contractRepo repository.ContractRepository
}

func NewResolveDisputeUseCase(contractRepo repository.ContractRepository) *ResolveDisputeUseCase {
	return &ResolveDisputeUseCase{contractRepo: contractRepo}
}

func (uc *ResolveDisputeUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID) (*entity.Contract, error) {
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

	if err := c.ResolveDispute(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}
