package settlement

import (
	"fmt"
	"math"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

// FractionSumEpsilon — допуск на сумму долей: пользовательский ввод может быть
// целыми процентами, поэтому сравнение с 1.0 делается с малой погрешностью.
const FractionSumEpsilon = 1e-6

// PlanItem — один сгенерированный этап платёжного расписания.
// Amount — брутто-сумма платёжного плеча этапа: то, что движется по этому
// этапу целиком, с комиссией внутри.
type PlanItem struct {
	Title       string
	Description string
	Fraction    valueobject.Fraction
	Amount      valueobject.Money
	Order       int
}

// ValidateFractions проверяет, что доли этапов в сумме дают 1.0.
// Сообщение об ошибке называет вычисленную сумму, чтобы вызывающая сторона
// могла показать конкретную причину, а не общий отказ.
func ValidateFractions(plan []valueobject.MilestonePlan) error {
	sum := 0.0
	for _, item := range plan {
		sum += item.Fraction.Value()
	}
	if math.Abs(sum-1.0) > FractionSumEpsilon {
		return apperror.Newf(apperror.ErrCodeValidation,
			"доли этапов в сумме дают %.4f, должно быть 1.0", sum)
	}
	return nil
}

// Generate — чистая функция (сумма, структура) -> упорядоченный список этапов.
// Для upfront и after_completion создаётся один синтетический этап на всю
// сумму; для milestones — по этапу на каждую долю в порядке ввода.
// Результат детерминирован: одинаковый вход даёт одинаковый список.
func Generate(total valueobject.Money, structure valueobject.PaymentStructure) ([]PlanItem, error) {
	if !total.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма контракта должна быть положительной")
	}

	switch structure.Kind {
	case valueobject.StructureUpfront:
		return []PlanItem{{
			Title:    "Full Payment",
			Fraction: valueobject.NewFraction(1.0),
			Amount:   total,
			Order:    1,
		}}, nil

	case valueobject.StructureAfterCompletion:
		// В Amount хранится брутто-сумма, причитающаяся исполнителю;
		// стоимость для заказчика (сумма + комиссия) считается при показе.
		return []PlanItem{{
			Title:    "Final Payment",
			Fraction: valueobject.NewFraction(1.0),
			Amount:   total,
			Order:    1,
		}}, nil

	case valueobject.StructureMilestones:
		items := make([]PlanItem, 0, len(structure.Plan))
		for i, plan := range structure.Plan {
			order := i + 1
			items = append(items, PlanItem{
				Title:       fmt.Sprintf("Milestone %d", order),
				Description: plan.Description,
				Fraction:    plan.Fraction,
				Amount:      total.MulFraction(plan.Fraction),
				Order:       order,
			})
		}
		return items, nil

	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестная платёжная структура")
	}
}
