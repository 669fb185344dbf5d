package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

func money(t *testing.T, amount float64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromFloat(amount)
	if err != nil {
		t.Fatalf("money(%v): %v", amount, err)
	}
	return m
}

func milestonesStructure(t *testing.T, fractions ...float64) valueobject.PaymentStructure {
	t.Helper()
	plan := make([]valueobject.MilestonePlan, 0, len(fractions))
	for _, f := range fractions {
		plan = append(plan, valueobject.MilestonePlan{Fraction: valueobject.NewFraction(f)})
	}
	s, err := valueobject.NewMilestones(plan)
	if err != nil {
		t.Fatalf("milestones structure: %v", err)
	}
	return s
}

func TestAllocate_Upfront(t *testing.T) {
	alloc, err := settlement.Allocate(money(t, 50000), valueobject.NewUpfront())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := alloc.PlatformFee.StringFixed(); got != "2500.00" {
		t.Errorf("fee: expected 2500.00, got %s", got)
	}
	if got := alloc.PayeeAmount.StringFixed(); got != "47500.00" {
		t.Errorf("payee: expected 47500.00, got %s", got)
	}
	if got := alloc.PayerTotal.StringFixed(); got != "50000.00" {
		t.Errorf("payer: expected 50000.00, got %s", got)
	}
}

func TestAllocate_AfterCompletion(t *testing.T) {
	alloc, err := settlement.Allocate(money(t, 1000), valueobject.NewAfterCompletion())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := alloc.PayerTotal.StringFixed(); got != "1050.00" {
		t.Errorf("payer: expected 1050.00, got %s", got)
	}
	if got := alloc.PayeeAmount.StringFixed(); got != "1000.00" {
		t.Errorf("payee: expected 1000.00, got %s", got)
	}
	if got := alloc.PlatformFee.StringFixed(); got != "50.00" {
		t.Errorf("fee: expected 50.00, got %s", got)
	}
}

func TestAllocate_Milestones(t *testing.T) {
	alloc, err := settlement.Allocate(money(t, 50000), milestonesStructure(t, 0.5, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := alloc.PlatformFee.StringFixed(); got != "2500.00" {
		t.Errorf("fee: expected 2500.00, got %s", got)
	}
	if got := alloc.PayeeAmount.StringFixed(); got != "47500.00" {
		t.Errorf("payee: expected 47500.00, got %s", got)
	}
	if got := alloc.PayerTotal.StringFixed(); got != "50000.00" {
		t.Errorf("payer: expected 50000.00, got %s", got)
	}
}

func TestAllocate_FeeIsFivePercentForEveryPolicy(t *testing.T) {
	total := money(t, 12345.67)
	expectedFee := total.Amount.Mul(decimal.RequireFromString("0.05"))

	for _, structure := range []valueobject.PaymentStructure{
		valueobject.NewUpfront(),
		valueobject.NewAfterCompletion(),
		milestonesStructure(t, 0.3, 0.7),
	} {
		alloc, err := settlement.Allocate(total, structure)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", structure.Kind, err)
		}
		if !alloc.PlatformFee.Amount.Equal(expectedFee) {
			t.Errorf("%s: fee %s, want %s", structure.Kind, alloc.PlatformFee.Amount, expectedFee)
		}
	}
}

func TestAllocate_ConservationOfMoney(t *testing.T) {
	total := money(t, 7777.77)

	for _, structure := range []valueobject.PaymentStructure{
		valueobject.NewUpfront(),
		valueobject.NewAfterCompletion(),
		milestonesStructure(t, 1.0),
	} {
		alloc, err := settlement.Allocate(total, structure)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", structure.Kind, err)
		}

		// Выплата исполнителю + комиссия = стоимость для заказчика.
		sum := alloc.PayeeAmount.Amount.Add(alloc.PlatformFee.Amount)
		if !sum.Equal(alloc.PayerTotal.Amount) {
			t.Errorf("%s: payee+fee = %s, payer = %s", structure.Kind, sum, alloc.PayerTotal.Amount)
		}
	}
}

func TestAllocate_RejectsNonPositive(t *testing.T) {
	zero := valueobject.ZeroMoney()
	_, err := settlement.Allocate(zero, valueobject.NewUpfront())
	if err == nil {
		t.Fatal("expected error for zero total")
	}
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestMilestoneFee_BackCalculation(t *testing.T) {
	// gross = base × 1.05, комиссия должна вернуть ровно base × 0.05.
	base := money(t, 1000)
	gross := valueobject.Money{
		Amount:   base.Amount.Mul(decimal.RequireFromString("1.05")),
		Currency: base.Currency,
	}

	fee := settlement.MilestoneFee(gross)
	expected := base.Amount.Mul(decimal.RequireFromString("0.05"))
	if !fee.Amount.Equal(expected) {
		t.Errorf("fee %s, want %s", fee.Amount, expected)
	}
}

func TestAllocateMilestone_CarveOut(t *testing.T) {
	alloc, err := settlement.AllocateMilestone(money(t, 25000), milestonesStructure(t, 0.5, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := alloc.PlatformFee.StringFixed(); got != "1250.00" {
		t.Errorf("fee: expected 1250.00, got %s", got)
	}
	if got := alloc.PayeeAmount.StringFixed(); got != "23750.00" {
		t.Errorf("payee: expected 23750.00, got %s", got)
	}
	if got := alloc.PayerTotal.StringFixed(); got != "25000.00" {
		t.Errorf("payer: expected 25000.00, got %s", got)
	}
}

func TestAllocateMilestone_AfterCompletion(t *testing.T) {
	alloc, err := settlement.AllocateMilestone(money(t, 1000), valueobject.NewAfterCompletion())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := alloc.PayerTotal.StringFixed(); got != "1050.00" {
		t.Errorf("payer: expected 1050.00, got %s", got)
	}
	if got := alloc.PlatformFee.StringFixed(); got != "50.00" {
		t.Errorf("fee: expected 50.00, got %s", got)
	}
	if got := alloc.PayeeAmount.StringFixed(); got != "1000.00" {
		t.Errorf("payee: expected 1000.00, got %s", got)
	}
}

func TestAllocateMilestone_FeesSumToContractFee(t *testing.T) {
	// Сумма комиссий по этапам равна комиссии контракта с точностью до цента.
	total := money(t, 50000)
	structure := milestonesStructure(t, 0.5, 0.3, 0.2)

	contractAlloc, err := settlement.Allocate(total, structure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := settlement.Generate(total, structure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feeSum := decimal.Zero
	for _, item := range items {
		alloc, err := settlement.AllocateMilestone(item.Amount, structure)
		if err != nil {
			t.Fatalf("milestone %d: %v", item.Order, err)
		}
		feeSum = feeSum.Add(alloc.PlatformFee.Amount)
	}

	diff := feeSum.Sub(contractAlloc.PlatformFee.Amount).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("milestone fees sum %s, contract fee %s, diff %s",
			feeSum, contractAlloc.PlatformFee.Amount, diff)
	}
}

func TestAllocateMilestone_RejectsNonPositive(t *testing.T) {
	_, err := settlement.AllocateMilestone(valueobject.ZeroMoney(), valueobject.NewUpfront())
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
}
