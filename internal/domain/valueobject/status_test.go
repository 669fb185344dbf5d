package valueobject_test

import (
	"testing"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
)

func TestContractStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    valueobject.ContractStatus
		to      valueobject.ContractStatus
		allowed bool
	}{
		{valueobject.ContractStatusDraft, valueobject.ContractStatusPendingSignature, true},
		{valueobject.ContractStatusDraft, valueobject.ContractStatusCancelled, true},
		{valueobject.ContractStatusDraft, valueobject.ContractStatusActive, false},
		{valueobject.ContractStatusDraft, valueobject.ContractStatusCompleted, false},
		{valueobject.ContractStatusPendingSignature, valueobject.ContractStatusActive, true},
		{valueobject.ContractStatusPendingSignature, valueobject.ContractStatusCancelled, true},
		{valueobject.ContractStatusPendingSignature, valueobject.ContractStatusCompleted, false},
		{valueobject.ContractStatusActive, valueobject.ContractStatusCompleted, true},
		{valueobject.ContractStatusActive, valueobject.ContractStatusDisputed, true},
		{valueobject.ContractStatusActive, valueobject.ContractStatusCancelled, true},
		{valueobject.ContractStatusActive, valueobject.ContractStatusDraft, false},
		{valueobject.ContractStatusDisputed, valueobject.ContractStatusActive, true},
		{valueobject.ContractStatusDisputed, valueobject.ContractStatusCancelled, true},
		{valueobject.ContractStatusDisputed, valueobject.ContractStatusCompleted, false},
		{valueobject.ContractStatusCompleted, valueobject.ContractStatusActive, false},
		{valueobject.ContractStatusCancelled, valueobject.ContractStatusDraft, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestContractStatus_Terminal(t *testing.T) {
	if !valueobject.ContractStatusCompleted.IsTerminal() {
		t.Error("completed must be terminal")
	}
	if !valueobject.ContractStatusCancelled.IsTerminal() {
		t.Error("cancelled must be terminal")
	}
	if valueobject.ContractStatusActive.IsTerminal() {
		t.Error("active must not be terminal")
	}
}

func TestMilestoneStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    valueobject.MilestoneStatus
		to      valueobject.MilestoneStatus
		allowed bool
	}{
		{valueobject.MilestoneStatusPending, valueobject.MilestoneStatusInProgress, true},
		{valueobject.MilestoneStatusPending, valueobject.MilestoneStatusPaid, true},
		{valueobject.MilestoneStatusPending, valueobject.MilestoneStatusCompleted, false},
		{valueobject.MilestoneStatusInProgress, valueobject.MilestoneStatusCompleted, true},
		{valueobject.MilestoneStatusInProgress, valueobject.MilestoneStatusPaid, true},
		{valueobject.MilestoneStatusCompleted, valueobject.MilestoneStatusPaid, true},
		{valueobject.MilestoneStatusCompleted, valueobject.MilestoneStatusInProgress, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestMilestoneStatus_DisputeFromAnyUnpaid(t *testing.T) {
	for _, from := range []valueobject.MilestoneStatus{
		valueobject.MilestoneStatusPending,
		valueobject.MilestoneStatusInProgress,
		valueobject.MilestoneStatusCompleted,
	} {
		if !from.CanTransitionTo(valueobject.MilestoneStatusDisputed) {
			t.Errorf("%s -> disputed must be allowed", from)
		}
	}

	if valueobject.MilestoneStatusPaid.CanTransitionTo(valueobject.MilestoneStatusDisputed) {
		t.Error("paid milestone must be immutable")
	}
}

func TestMilestoneStatus_PaidIsImmutable(t *testing.T) {
	paid := valueobject.MilestoneStatusPaid
	for _, to := range []valueobject.MilestoneStatus{
		valueobject.MilestoneStatusPending,
		valueobject.MilestoneStatusInProgress,
		valueobject.MilestoneStatusCompleted,
		valueobject.MilestoneStatusDisputed,
	} {
		if paid.CanTransitionTo(to) {
			t.Errorf("paid -> %s must be rejected", to)
		}
	}
}

func TestPaymentStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    valueobject.PaymentStatus
		to      valueobject.PaymentStatus
		allowed bool
	}{
		{valueobject.PaymentStatusPending, valueobject.PaymentStatusProcessing, true},
		{valueobject.PaymentStatusPending, valueobject.PaymentStatusFailed, true},
		{valueobject.PaymentStatusPending, valueobject.PaymentStatusCompleted, false},
		{valueobject.PaymentStatusProcessing, valueobject.PaymentStatusCompleted, true},
		{valueobject.PaymentStatusProcessing, valueobject.PaymentStatusFailed, true},
		{valueobject.PaymentStatusCompleted, valueobject.PaymentStatusRefunded, true},
		{valueobject.PaymentStatusCompleted, valueobject.PaymentStatusProcessing, false},
		{valueobject.PaymentStatusFailed, valueobject.PaymentStatusProcessing, false},
		{valueobject.PaymentStatusRefunded, valueobject.PaymentStatusCompleted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestNewContractStatus_RejectsUnknown(t *testing.T) {
	if _, err := valueobject.NewContractStatus("archived"); err == nil {
		t.Error("expected error for unknown contract status")
	}
	if _, err := valueobject.NewMilestoneStatus("done"); err == nil {
		t.Error("expected error for unknown milestone status")
	}
	if _, err := valueobject.NewPaymentStatus("settled"); err == nil {
		t.Error("expected error for unknown payment status")
	}
}
