package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

// Payment — неизменяемая запись о попытке расчёта. Суммы и разбивка комиссии
// фиксируются при создании; после конечного статуса меняются только статус
// и временные отметки (например, при возврате).
type Payment struct {
	ID            uuid.UUID
	ContractID    uuid.UUID
	MilestoneID   *uuid.UUID
	ClientID      uuid.UUID
	FreelancerID  uuid.UUID
	Amount        valueobject.Money
	PlatformFee   valueobject.Money
	PayeeAmount   valueobject.Money
	Method        string
	ExternalID    *string
	Status        valueobject.PaymentStatus
	FailureReason *string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// NewPayment создаёт платёж по этапу контракта с уже рассчитанной разбивкой.
func NewPayment(contract *Contract, milestone *Milestone, alloc settlement.Allocation, method string) (*Payment, error) {
	if contract == nil || milestone == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "платёж требует контракт и этап")
	}
	if milestone.ContractID != contract.ID {
		return nil, apperror.New(apperror.ErrCodeValidation, "этап не принадлежит контракту")
	}
	if method == "" {
		method = "card"
	}

	milestoneID := milestone.ID
	return &Payment{
		ID:           uuid.New(),
		ContractID:   contract.ID,
		MilestoneID:  &milestoneID,
		ClientID:     contract.ClientID,
		FreelancerID: contract.FreelancerID,
		Amount:       alloc.PayerTotal,
		PlatformFee:  alloc.PlatformFee,
		PayeeAmount:  alloc.PayeeAmount,
		Method:       method,
		Status:       valueobject.PaymentStatusPending,
		CreatedAt:    time.Now(),
	}, nil
}

// MarkProcessing отмечает, что запрос авторизации отправлен шлюзу.
func (p *Payment) MarkProcessing() error {
	return p.transitionTo(valueobject.PaymentStatusProcessing)
}

// Complete фиксирует успешный расчёт, подтверждённый шлюзом.
func (p *Payment) Complete(externalID string) error {
	if err := p.transitionTo(valueobject.PaymentStatusCompleted); err != nil {
		return err
	}
	if externalID != "" {
		p.ExternalID = &externalID
	}
	now := time.Now()
	p.CompletedAt = &now
	return nil
}

// Fail фиксирует отказ шлюза с причиной.
func (p *Payment) Fail(reason string) error {
	if err := p.transitionTo(valueobject.PaymentStatusFailed); err != nil {
		return err
	}
	if reason != "" {
		p.FailureReason = &reason
	}
	now := time.Now()
	p.CompletedAt = &now
	return nil
}

// Refund отмечает возврат завершённого платежа.
func (p *Payment) Refund() error {
	return p.transitionTo(valueobject.PaymentStatusRefunded)
}

func (p *Payment) transitionTo(newStatus valueobject.PaymentStatus) error {
	if !p.Status.CanTransitionTo(newStatus) {
		return apperror.NewInvalidTransition("платежа", string(p.Status), string(newStatus))
	}
	p.Status = newStatus
	return nil
}
