// Package settlement — чистое вычислительное ядро расчётов по контракту:
// распределение комиссии платформы, генерация этапов и сводка выплат.
// Ни одна функция пакета не имеет побочных эффектов и не обращается к хранилищу.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

// PlatformFeeRate — фиксированная комиссия платформы: 5% от суммы контракта
// при любой платёжной политике. Это политика ценообразования, а не настройка.
const PlatformFeeRate = 0.05

var (
	feeRate = decimal.New(5, -2)  // 0.05
	feeMult = decimal.New(105, -2) // 1.05
)

// Allocation — три числа, которые ядро считает для контракта или этапа.
type Allocation struct {
	PlatformFee valueobject.Money
	PayeeAmount valueobject.Money
	PayerTotal  valueobject.Money
}

// Allocate распределяет комиссию по сумме контракта в зависимости от политики.
// Асимметрия политик намеренная: при оплате после завершения платформа
// гарантирует выплату без предварительно собранных средств, поэтому
// заказчик несёт комиссию сверх суммы контракта.
func Allocate(total valueobject.Money, structure valueobject.PaymentStructure) (Allocation, error) {
	if !total.IsPositive() {
		return Allocation{}, apperror.New(apperror.ErrCodeValidation, "сумма контракта должна быть положительной")
	}

	fee := mul(total, feeRate)

	switch structure.Kind {
	case valueobject.StructureUpfront:
		// Комиссия вычитается из выплаты исполнителю, заказчик платит ровно сумму контракта.
		payee, err := total.Sub(fee)
		if err != nil {
			return Allocation{}, err
		}
		return Allocation{PlatformFee: fee, PayeeAmount: payee, PayerTotal: total}, nil

	case valueobject.StructureMilestones:
		payee, err := total.Sub(fee)
		if err != nil {
			return Allocation{}, err
		}
		return Allocation{PlatformFee: fee, PayeeAmount: payee, PayerTotal: total}, nil

	case valueobject.StructureAfterCompletion:
		// Заказчик платит комиссию сверху, исполнитель получает полную сумму.
		payer, err := total.Add(fee)
		if err != nil {
			return Allocation{}, err
		}
		return Allocation{PlatformFee: fee, PayeeAmount: total, PayerTotal: payer}, nil

	default:
		return Allocation{}, apperror.New(apperror.ErrCodeValidation, "неизвестная платёжная структура")
	}
}

// MilestoneFee обратным счётом выделяет комиссию из суммы, в которую она
// уже включена сверху: gross = base × 1.05, комиссия = gross × 0.05 / 1.05.
// Формула неочевидна и легко путается с gross × 0.05 — держим её в одном
// именованном месте и сверяем свойством с комиссией уровня контракта.
func MilestoneFee(gross valueobject.Money) valueobject.Money {
	return valueobject.Money{
		Amount:   gross.Amount.Mul(feeRate).Div(feeMult),
		Currency: gross.Currency,
	}
}

// AllocateMilestone считает комиссию, выплату и стоимость для заказчика
// по одному этапу. Ветвление повторяет Allocate: для upfront/milestones
// комиссия вычитается из суммы этапа, для after_completion — добавляется
// к ней и затем выделяется обратным счётом.
func AllocateMilestone(amount valueobject.Money, structure valueobject.PaymentStructure) (Allocation, error) {
	if !amount.IsPositive() {
		return Allocation{}, apperror.New(apperror.ErrCodeValidation, "сумма этапа должна быть положительной")
	}

	switch structure.Kind {
	case valueobject.StructureUpfront, valueobject.StructureMilestones:
		fee := mul(amount, feeRate)
		payee, err := amount.Sub(fee)
		if err != nil {
			return Allocation{}, err
		}
		return Allocation{PlatformFee: fee, PayeeAmount: payee, PayerTotal: amount}, nil

	case valueobject.StructureAfterCompletion:
		payer := mul(amount, feeMult)
		fee := MilestoneFee(payer)
		payee, err := payer.Sub(fee)
		if err != nil {
			return Allocation{}, err
		}
		return Allocation{PlatformFee: fee, PayeeAmount: payee, PayerTotal: payer}, nil

	default:
		return Allocation{}, apperror.New(apperror.ErrCodeValidation, "неизвестная платёжная структура")
	}
}

func mul(m valueobject.Money, factor decimal.Decimal) valueobject.Money {
	return valueobject.Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}
