package entity_test

import (
	"testing"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

func TestNewPayment_CapturesAllocation(t *testing.T) {
	c := activeContract(t, valueobject.NewAfterCompletion())
	m := c.Milestones[0]
	c.TotalAmount = money(t, 1000)
	m.Amount = money(t, 1000)

	alloc, err := settlement.AllocateMilestone(m.Amount, c.Structure)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	p, err := entity.NewPayment(c, m, alloc, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Списывается стоимость для заказчика, комиссия и выплата фиксируются.
	if got := p.Amount.StringFixed(); got != "1050.00" {
		t.Errorf("amount: expected 1050.00, got %s", got)
	}
	if got := p.PlatformFee.StringFixed(); got != "50.00" {
		t.Errorf("fee: expected 50.00, got %s", got)
	}
	if got := p.PayeeAmount.StringFixed(); got != "1000.00" {
		t.Errorf("payee: expected 1000.00, got %s", got)
	}
	if p.Method != "card" {
		t.Errorf("expected default method card, got %s", p.Method)
	}
	if p.Status != valueobject.PaymentStatusPending {
		t.Errorf("expected pending, got %s", p.Status)
	}
}

func TestNewPayment_RejectsForeignMilestone(t *testing.T) {
	c := activeContract(t, valueobject.NewUpfront())
	other := activeContract(t, valueobject.NewUpfront())

	alloc, _ := settlement.AllocateMilestone(c.Milestones[0].Amount, c.Structure)
	if _, err := entity.NewPayment(c, other.Milestones[0], alloc, "card"); err == nil {
		t.Error("expected error for milestone of another contract")
	}
}

func TestPayment_Lifecycle(t *testing.T) {
	c := activeContract(t, valueobject.NewUpfront())
	m := c.Milestones[0]
	alloc, _ := settlement.AllocateMilestone(m.Amount, c.Structure)
	p, err := entity.NewPayment(c, m, alloc, "card")
	if err != nil {
		t.Fatalf("new payment: %v", err)
	}

	if err := p.Complete("pi_1"); err == nil {
		t.Error("expected error completing pending payment")
	}

	if err := p.MarkProcessing(); err != nil {
		t.Fatalf("processing: %v", err)
	}
	if err := p.Complete("pi_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.ExternalID == nil || *p.ExternalID != "pi_1" {
		t.Error("expected external id to be recorded")
	}
	if p.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}

	// Повторная доставка исхода отклоняется стражем статуса.
	if err := p.Complete("pi_1"); err == nil {
		t.Error("expected error completing payment twice")
	}

	if err := p.Refund(); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if p.Status != valueobject.PaymentStatusRefunded {
		t.Errorf("expected refunded, got %s", p.Status)
	}
}

func TestPayment_FailRecordsReason(t *testing.T) {
	c := activeContract(t, valueobject.NewUpfront())
	m := c.Milestones[0]
	alloc, _ := settlement.AllocateMilestone(m.Amount, c.Structure)
	p, _ := entity.NewPayment(c, m, alloc, "card")

	if err := p.MarkProcessing(); err != nil {
		t.Fatalf("processing: %v", err)
	}
	if err := p.Fail("карта отклонена"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	if p.FailureReason == nil || *p.FailureReason != "карта отклонена" {
		t.Error("expected failure reason to be recorded")
	}

	// failed — конечный статус.
	if err := p.MarkProcessing(); err == nil {
		t.Error("expected error reprocessing failed payment")
	}
	if err := p.Refund(); err == nil {
		t.Error("expected error refunding failed payment")
	}
}
