package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/repository"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

// PlanItemInput — пользовательский пункт плана этапов.
type PlanItemInput struct {
	Fraction    float64
	Description string
}

type CreateContractInput struct {
	ClientID     uuid.UUID
	FreelancerID uuid.UUID
	Title        string
	Description  string
	TotalAmount  float64
	Structure    string
	Plan         []PlanItemInput
}

type CreateContractUseCase struct {
	contractRepo repository.ContractRepository
}

func NewCreateContractUseCase(contractRepo repository.ContractRepository) *CreateContractUseCase {
	return &CreateContractUseCase{contractRepo: contractRepo}
}

func (uc *CreateContractUseCase) Execute(ctx context.Context, input CreateContractInput) (*entity.Contract, error) {
	total, err := valueobject.NewMoneyFromFloat(input.TotalAmount)
	if err != nil {
		return nil, err
	}

	structure, err := buildStructure(input.Structure, input.Plan)
	if err != nil {
		return nil, err
	}

	c, err := entity.NewContract(input.ClientID, input.FreelancerID, input.Title, input.Description, total, structure)
	if err != nil {
		return nil, err
	}

	if err := uc.contractRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func buildStructure(kind string, plan []PlanItemInput) (valueobject.PaymentStructure, error) {
	switch valueobject.StructureKind(kind) {
	case valueobject.StructureUpfront:
		return valueobject.NewUpfront(), nil
	case valueobject.StructureAfterCompletion:
		return valueobject.NewAfterCompletion(), nil
	case valueobject.StructureMilestones:
		items := make([]valueobject.MilestonePlan, 0, len(plan))
		for _, p := range plan {
			items = append(items, valueobject.MilestonePlan{
				Fraction:    valueobject.NewFraction(p.Fraction),
				Description: p.Description,
			})
		}
		return valueobject.NewMilestones(items)
	default:
		return valueobject.PaymentStructure{}, apperror.New(apperror.ErrCodeValidation, "неизвестная платёжная структура")
	}
}
