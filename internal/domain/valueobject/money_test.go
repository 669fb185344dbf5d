package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
)

func TestNewMoney_RejectsNegative(t *testing.T) {
	_, err := valueobject.NewMoney(decimal.NewFromInt(-1), "USD")
	if err == nil {
		t.Fatal("expected error for negative amount")
	}
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewMoney_DefaultCurrency(t *testing.T) {
	m, err := valueobject.NewMoney(decimal.NewFromInt(100), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Currency != "USD" {
		t.Errorf("expected USD, got %s", m.Currency)
	}
}

func TestMoney_Sub_BelowZero(t *testing.T) {
	a, _ := valueobject.NewMoneyFromFloat(100)
	b, _ := valueobject.NewMoneyFromFloat(150)

	_, err := a.Sub(b)
	if err == nil {
		t.Fatal("expected error when result is negative")
	}
	if !apperror.IsInvariantViolation(err) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

func TestMoney_Sub(t *testing.T) {
	a, _ := valueobject.NewMoneyFromFloat(150)
	b, _ := valueobject.NewMoneyFromFloat(100)

	result, err := a.Sub(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StringFixed() != "50.00" {
		t.Errorf("expected 50.00, got %s", result.StringFixed())
	}
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a, _ := valueobject.NewMoney(decimal.NewFromInt(10), "USD")
	b, _ := valueobject.NewMoney(decimal.NewFromInt(10), "EUR")

	if _, err := a.Add(b); err == nil {
		t.Error("expected error adding different currencies")
	}
	if _, err := a.Sub(b); err == nil {
		t.Error("expected error subtracting different currencies")
	}
}

func TestMoney_MulFraction(t *testing.T) {
	m, _ := valueobject.NewMoneyFromFloat(50000)
	half := m.MulFraction(valueobject.NewFraction(0.5))

	if half.StringFixed() != "25000.00" {
		t.Errorf("expected 25000.00, got %s", half.StringFixed())
	}
}

func TestMoney_StringFixed_RoundsOnlyForDisplay(t *testing.T) {
	m, _ := valueobject.NewMoneyFromFloat(100)
	third := m.MulFraction(valueobject.NewFraction(0.333))

	// Внутреннее значение сохраняет точность, показ — два знака.
	if third.StringFixed() != "33.30" {
		t.Errorf("expected 33.30, got %s", third.StringFixed())
	}
	if !third.Amount.Equal(decimal.RequireFromString("33.3")) {
		t.Errorf("unexpected internal value %s", third.Amount.String())
	}
}

func TestNewFraction_Clamps(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{1.5, 1},
	}

	for _, tc := range cases {
		got := valueobject.NewFraction(tc.raw).Value()
		if got != tc.want {
			t.Errorf("NewFraction(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
