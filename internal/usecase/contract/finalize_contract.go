package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

type FinalizeContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewFinalizeContractUseCase(contractRepo repository.ContractRepository) *FinalizeContractUseCase {
	return &FinalizeContractUseCase{contractRepo: contractRepo}
}

// Execute проверяет расписание, генерирует этапы и переводит контракт
// в pending_signature. При невалидных долях контракт остаётся в draft.
func (uc *FinalizeContractUseCase) Execute(ctx context.Context, contractID, clientID uuid.UUID) (*entity.Contract, error) {
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

	if err := c.Finalize(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.UpdateWithMilestones(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}
