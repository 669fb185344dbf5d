package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

type SignContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewSignContractUseCase(contractRepo repository.ContractRepository) *SignContractUseCase {
	return &SignContractUseCase{contractRepo: contractRepo}
}

// Execute фиксирует подпись стороны. Когда подписали обе стороны,
// контракт переходит в active.
func (uc *SignContractUseCase) Execute(ctx context.Context, contractID, userID uuid.UUID) (*entity.Contract, error) {
	c, err := uc.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrContractNotFound
	}

	switch userID {
	case c.ClientID:
		err = c.SignByClient()
	case c.FreelancerID:
		err = c.SignByFreelancer()
	default:
		return nil, apperror.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	if err := uc.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}
