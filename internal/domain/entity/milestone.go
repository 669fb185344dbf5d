package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

// Milestone — один оплачиваемый этап контракта. Amount — брутто-сумма
// платёжного плеча этапа; после перехода в paid этап неизменяем.
type Milestone struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Title       string
	Description string
	Amount      valueobject.Money
	Fraction    valueobject.Fraction
	Order       int
	Status      valueobject.MilestoneStatus
	CompletedAt *time.Time
	PaidAt      *time.Time
	PaymentID   *uuid.UUID
}

// NewMilestone материализует пункт сгенерированного расписания в этап контракта.
func NewMilestone(contractID uuid.UUID, item settlement.PlanItem) *Milestone {
	return &Milestone{
		ID:          uuid.New(),
		ContractID:  contractID,
		Title:       item.Title,
		Description: item.Description,
		Amount:      item.Amount,
		Fraction:    item.Fraction,
		Order:       item.Order,
		Status:      valueobject.MilestoneStatusPending,
	}
}

// Start переводит этап в работу.
func (m *Milestone) Start() error {
	return m.transitionTo(valueobject.MilestoneStatusInProgress)
}

// Complete отмечает сдачу этапа.
func (m *Milestone) Complete() error {
	if err := m.transitionTo(valueobject.MilestoneStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	m.CompletedAt = &now
	return nil
}

// MarkPaid переводит этап в paid. Допустимо только при наличии завершённого
// платежа, ссылающегося на этот этап, — деньги и расписание не должны разойтись.
func (m *Milestone) MarkPaid(payment *Payment) error {
	if payment == nil || payment.Status != valueobject.PaymentStatusCompleted {
		return apperror.New(apperror.ErrCodeValidation, "этап можно оплатить только по завершённому платежу")
	}
	if payment.MilestoneID == nil || *payment.MilestoneID != m.ID {
		return apperror.New(apperror.ErrCodeValidation, "платёж не ссылается на этот этап")
	}
	if err := m.transitionTo(valueobject.MilestoneStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	m.PaidAt = &now
	m.PaymentID = &payment.ID
	return nil
}

// Dispute открывает спор по этапу.
func (m *Milestone) Dispute() error {
	return m.transitionTo(valueobject.MilestoneStatusDisputed)
}

// ResolveDispute возвращает этап из спора в работу.
func (m *Milestone) ResolveDispute() error {
	if m.Status != valueobject.MilestoneStatusDisputed {
		return apperror.NewInvalidTransition("этапа", string(m.Status), string(valueobject.MilestoneStatusInProgress))
	}
	return m.transitionTo(valueobject.MilestoneStatusInProgress)
}

func (m *Milestone) transitionTo(newStatus valueobject.MilestoneStatus) error {
	if !m.Status.CanTransitionTo(newStatus) {
		return apperror.NewInvalidTransition("этапа", string(m.Status), string(newStatus))
	}
	m.Status = newStatus
	return nil
}

// IsPaid сообщает, оплачен ли этап.
func (m *Milestone) IsPaid() bool {
	return m.Status == valueobject.MilestoneStatusPaid
}
