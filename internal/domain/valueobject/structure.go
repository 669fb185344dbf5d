package valueobject

import "github.com/ignatzorin/settlement-backend/internal/pkg/apperror"

// StructureKind — закрытое множество платёжных политик.
type StructureKind string

const (
	// StructureUpfront — 100% до начала работы, комиссия вычитается из выплаты исполнителю.
	StructureUpfront StructureKind = "upfront"
	// StructureAfterCompletion — 100% после сдачи, заказчик дополнительно платит комиссию сверху.
	StructureAfterCompletion StructureKind = "after_completion"
	// StructureMilestones — частичные выплаты по этапам, комиссия вычитается из выплаты.
	StructureMilestones StructureKind = "milestones"
)

func (k StructureKind) IsValid() bool {
	switch k {
	case StructureUpfront, StructureAfterCompletion, StructureMilestones:
		return true
	}
	return false
}

// MilestonePlan — один пункт пользовательского плана этапов: доля контракта и описание.
type MilestonePlan struct {
	Fraction    Fraction
	Description string
}

// PaymentStructure определяет, когда двигаются деньги и кто несёт комиссию платформы.
// Plan заполнен только для StructureMilestones.
type PaymentStructure struct {
	Kind StructureKind
	Plan []MilestonePlan
}

func NewUpfront() PaymentStructure {
	return PaymentStructure{Kind: StructureUpfront}
}

func NewAfterCompletion() PaymentStructure {
	return PaymentStructure{Kind: StructureAfterCompletion}
}

func NewMilestones(plan []MilestonePlan) (PaymentStructure, error) {
	if len(plan) == 0 {
		return PaymentStructure{}, apperror.New(apperror.ErrCodeValidation, "план этапов не может быть пустым")
	}
	return PaymentStructure{Kind: StructureMilestones, Plan: plan}, nil
}

func (s PaymentStructure) IsValid() bool {
	if !s.Kind.IsValid() {
		return false
	}
	if s.Kind == StructureMilestones {
		return len(s.Plan) > 0
	}
	return len(s.Plan) == 0
}

// PayerBearsFee сообщает, платит ли заказчик комиссию сверх суммы контракта.
func (s PaymentStructure) PayerBearsFee() bool {
	return s.Kind == StructureAfterCompletion
}
