package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

type StartMilestoneUseCase struct {
	contractRepo repository.ContractRepository
}

func NewStartMilestoneUseCase(contractRepo repository.ContractRepository) *StartMilestoneUseCase {
	return &StartMilestoneUseCase{contractRepo: contractRepo}
}

// Execute переводит этап в работу. Доступно исполнителю активного контракта.
func (uc *StartMilestoneUseCase) Execute(ctx context.Context, contractID, milestoneID, freelancerID uuid.UUID) (*entity.Milestone, error) {
	c, m, err := uc.loadMilestone(ctx, contractID, milestoneID)
	if err != nil {
		return nil, err
	}

	if c.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}
	if c.Status != valueobject.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeValidation, "этапы доступны только на активном контракте")
	}

	if err := m.Start(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.UpdateWithMilestones(ctx, c); err != nil {
		return nil, err
	}

	return m, nil
}

func (uc *StartMilestoneUseCase) loadMilestone(ctx context.Context, contractID, milestoneID uuid.UUID) (*entity.Contract, *entity.Milestone, error) {
	return loadContractMilestone(ctx, uc.contractRepo, contractID, milestoneID)
}

type CompleteMilestoneUseCase struct {
	contractRepo repository.ContractRepository
}

func NewCompleteMilestoneUseCase(contractRepo repository.ContractRepository) *CompleteMilestoneUseCase {
	return &CompleteMilestoneUseCase{contractRepo: contractRepo}
}

// Execute отмечает сдачу этапа исполнителем.
func (uc *CompleteMilestoneUseCase) Execute(ctx context.Context, contractID, milestoneID, freelancerID uuid.UUID) (*entity.Milestone, error) {
	c, m, err := loadContractMilestone(ctx, uc.contractRepo, contractID, milestoneID)
	if err != nil {
		return nil, err
	}

	if c.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}

	if err := m.Complete(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.UpdateWithMilestones(ctx, c); err != nil {
		return nil, err
	}

	return m, nil
}

type DisputeMilestoneUseCase struct {
	contractRepo repository.ContractRepository
}

func NewDisputeMilestoneUseCase(contractRepo repository.ContractRepository) *DisputeMilestoneUseCase {
	return &DisputeMilestoneUseCase{contractRepo: contractRepo}
}

// Execute открывает спор по этапу. Доступно любой стороне контракта.
func (uc *DisputeMilestoneUseCase) Execute(ctx context.Context, contractID, milestoneID, userID uuid.UUID) (*entity.Milestone, error) {
	c, m, err := loadContractMilestone(ctx, uc.contractRepo, contractID, milestoneID)
	if err != nil {
		return nil, err
	}

	if !c.IsParty(userID) {
		return nil, apperror.ErrForbidden
	}

	if err := m.Dispute(); err != nil {
		return nil, err
	}

	if err := uc.contractRepo.UpdateWithMilestones(ctx, c); err != nil {
		return nil, err
	}

	return m, nil
}

// loadContractMilestone загружает контракт и находит в нём этап.
func loadContractMilestone(ctx context.Context, repo repository.ContractRepository, contractID, milestoneID uuid.UUID) (*entity.Contract, *entity.Milestone, error) {
	c, err := repo.FindByID(ctx, contractID)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, apperror.ErrContractNotFound
	}

	m := c.MilestoneByID(milestoneID)
	if m == nil {
		return nil, nil, apperror.ErrMilestoneNotFound
	}

	return c, m, nil
}
