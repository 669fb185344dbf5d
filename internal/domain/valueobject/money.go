package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

// Money хранит неотрицательную денежную сумму в одной валюте.
// Внутри вычислений точность не округляется; до 2 знаков сумма
// приводится только при форматировании.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	if currency == "" {
		currency = "USD"
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), "USD")
}

func ZeroMoney() Money {
	return Money{Amount: decimal.Zero, Currency: "USD"}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "нельзя складывать суммы в разных валютах")
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub вычитает other. Результат ниже нуля — нарушение инварианта:
// отрицательная сумма никогда не возвращается.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "нельзя вычитать суммы в разных валютах")
	}
	result := m.Amount.Sub(other.Amount)
	if result.IsNegative() {
		return Money{}, apperror.Newf(apperror.ErrCodeInvariantViolation,
			"вычитание %s из %s даёт отрицательную сумму", other.Amount, m.Amount)
	}
	return Money{Amount: result, Currency: m.Currency}, nil
}

// MulFraction умножает сумму на долю [0, 1].
func (m Money) MulFraction(f Fraction) Money {
	return Money{Amount: m.Amount.Mul(f.Decimal()), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// StringFixed форматирует сумму с округлением до центов.
func (m Money) StringFixed() string {
	return m.Amount.StringFixed(2)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}

// Fraction представляет долю целого в диапазоне [0.0, 1.0].
// Значение вне диапазона приводится к границе, конструктор не падает —
// поведение сохранено из исходной системы.
type Fraction struct {
	value float64
}

func NewFraction(raw float64) Fraction {
	if raw < 0 {
		raw = 0
	}
	if raw > 1 {
		raw = 1
	}
	return Fraction{value: raw}
}

func (f Fraction) Value() float64 {
	return f.value
}

func (f Fraction) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(f.value)
}
