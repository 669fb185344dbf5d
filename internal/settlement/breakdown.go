package settlement

import "github.com/ignatzorin/settlement-backend/internal/domain/valueobject"

// Breakdown — структурированная сводка расчёта для показа пользователю
// или отчётности. Чистое представление результатов Allocate, никакой
// новой арифметики здесь не выполняется.
type Breakdown struct {
	ContractValue          valueobject.Money
	PlatformFee            valueobject.Money
	PayeeReceives          valueobject.Money
	PayerPays              valueobject.Money
	PayerPaysAdditionalFee bool
}

// ComputeBreakdown собирает сводку по контракту.
// Повторный вызов на неизменённых аргументах даёт идентичный результат.
func ComputeBreakdown(total valueobject.Money, structure valueobject.PaymentStructure) (Breakdown, error) {
	alloc, err := Allocate(total, structure)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		ContractValue:          total,
		PlatformFee:            alloc.PlatformFee,
		PayeeReceives:          alloc.PayeeAmount,
		PayerPays:              alloc.PayerTotal,
		PayerPaysAdditionalFee: structure.PayerBearsFee(),
	}, nil
}

// ComputeMilestoneBreakdown собирает сводку по одному этапу частичного расчёта.
func ComputeMilestoneBreakdown(amount valueobject.Money, structure valueobject.PaymentStructure) (Breakdown, error) {
	alloc, err := AllocateMilestone(amount, structure)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		ContractValue:          amount,
		PlatformFee:            alloc.PlatformFee,
		PayeeReceives:          alloc.PayeeAmount,
		PayerPays:              alloc.PayerTotal,
		PayerPaysAdditionalFee: structure.PayerBearsFee(),
	}, nil
}
