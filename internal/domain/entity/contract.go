package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/settlement-backend/internal/pkg/apperror"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

// Contract — договорённость между заказчиком и исполнителем с платёжным
// расписанием. Статус меняется только через явные переходы с проверкой;
// контракт никогда не удаляется, только переводится в конечный статус.
type Contract struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	FreelancerID     uuid.UUID
	Title            string
	Description      string
	TotalAmount      valueobject.Money
	Structure        valueobject.PaymentStructure
	Milestones       []*Milestone
	ClientSigned     bool
	FreelancerSigned bool
	Status           valueobject.ContractStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewContract(clientID, freelancerID uuid.UUID, title, description string, total valueobject.Money, structure valueobject.PaymentStructure) (*Contract, error) {
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название контракта обязательно")
	}
	if clientID == uuid.Nil || freelancerID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "обе стороны контракта обязательны")
	}
	if clientID == freelancerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "заказчик и исполнитель не могут совпадать")
	}
	if !total.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма контракта должна быть положительной")
	}
	if !structure.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректная платёжная структура")
	}

	return &Contract{
		ID:           uuid.New(),
		ClientID:     clientID,
		FreelancerID: freelancerID,
		Title:        title,
		Description:  description,
		TotalAmount:  total,
		Structure:    structure,
		Status:       valueobject.ContractStatusDraft,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// Finalize проверяет платёжное расписание, генерирует этапы и переводит
// контракт из draft в pending_signature. При невалидных долях контракт
// остаётся в draft без частично применённых изменений.
func (c *Contract) Finalize() error {
	if !c.Status.CanTransitionTo(valueobject.ContractStatusPendingSignature) {
		return apperror.NewInvalidTransition("контракта", string(c.Status), string(valueobject.ContractStatusPendingSignature))
	}

	if c.Structure.Kind == valueobject.StructureMilestones {
		if err := settlement.ValidateFractions(c.Structure.Plan); err != nil {
			return err
		}
	}

	items, err := settlement.Generate(c.TotalAmount, c.Structure)
	if err != nil {
		return err
	}

	milestones := make([]*Milestone, 0, len(items))
	for _, item := range items {
		milestones = append(milestones, NewMilestone(c.ID, item))
	}

	c.Milestones = milestones
	c.Status = valueobject.ContractStatusPendingSignature
	c.UpdatedAt = time.Now()
	return nil
}

// SignByClient фиксирует подпись заказчика.
func (c *Contract) SignByClient() error {
	return c.sign(&c.ClientSigned)
}

// SignByFreelancer фиксирует подпись исполнителя.
func (c *Contract) SignByFreelancer() error {
	return c.sign(&c.FreelancerSigned)
}

// sign проставляет флаг подписи и активирует контракт, когда подписали обе
// стороны. Повторная подпись отклоняется — это же делает параллельные
// двойные отправки детектируемо невалидными.
func (c *Contract) sign(flag *bool) error {
	if c.Status != valueobject.ContractStatusPendingSignature {
		return apperror.NewInvalidTransition("контракта", string(c.Status), string(valueobject.ContractStatusActive))
	}
	if *flag {
		return apperror.New(apperror.ErrCodeConflict, "контракт уже подписан этой стороной")
	}

	*flag = true
	c.UpdatedAt = time.Now()

	if c.ClientSigned && c.FreelancerSigned {
		c.Status = valueobject.ContractStatusActive
	}
	return nil
}

// Complete завершает контракт. Требует, чтобы все этапы были оплачены.
func (c *Contract) Complete() error {
	if !c.Status.CanTransitionTo(valueobject.ContractStatusCompleted) {
		return apperror.NewInvalidTransition("контракта", string(c.Status), string(valueobject.ContractStatusCompleted))
	}
	if !c.AllMilestonesPaid() {
		return apperror.New(apperror.ErrCodeValidation, "нельзя завершить контракт: не все этапы оплачены")
	}
	c.Status = valueobject.ContractStatusCompleted
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Contract) Cancel() error {
	return c.transitionTo(valueobject.ContractStatusCancelled)
}

func (c *Contract) Dispute() error {
	return c.transitionTo(valueobject.ContractStatusDisputed)
}

// ResolveDispute возвращает контракт из спора в работу.
func (c *Contract) ResolveDispute() error {
	if c.Status != valueobject.ContractStatusDisputed {
		return apperror.NewInvalidTransition("контракта", string(c.Status), string(valueobject.ContractStatusActive))
	}
	return c.transitionTo(valueobject.ContractStatusActive)
}

func (c *Contract) transitionTo(newStatus valueobject.ContractStatus) error {
	if !c.Status.CanTransitionTo(newStatus) {
		return apperror.NewInvalidTransition("контракта", string(c.Status), string(newStatus))
	}
	c.Status = newStatus
	c.UpdatedAt = time.Now()
	return nil
}

// PlatformFee — производная величина: 5% от суммы контракта.
func (c *Contract) PlatformFee() (valueobject.Money, error) {
	alloc, err := settlement.Allocate(c.TotalAmount, c.Structure)
	if err != nil {
		return valueobject.Money{}, err
	}
	return alloc.PlatformFee, nil
}

// PayeeAmount — сколько получит исполнитель.
func (c *Contract) PayeeAmount() (valueobject.Money, error) {
	alloc, err := settlement.Allocate(c.TotalAmount, c.Structure)
	if err != nil {
		return valueobject.Money{}, err
	}
	return alloc.PayeeAmount, nil
}

// PayerTotalCost — полная стоимость для заказчика с учётом политики.
func (c *Contract) PayerTotalCost() (valueobject.Money, error) {
	alloc, err := settlement.Allocate(c.TotalAmount, c.Structure)
	if err != nil {
		return valueobject.Money{}, err
	}
	return alloc.PayerTotal, nil
}

// MilestoneByID ищет этап контракта.
func (c *Contract) MilestoneByID(id uuid.UUID) *Milestone {
	for _, m := range c.Milestones {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (c *Contract) AllMilestonesPaid() bool {
	if len(c.Milestones) == 0 {
		return false
	}
	for _, m := range c.Milestones {
		if m.Status != valueobject.MilestoneStatusPaid {
			return false
		}
	}
	return true
}

// IsOwnedBy сообщает, принадлежит ли контракт заказчику.
func (c *Contract) IsOwnedBy(userID uuid.UUID) bool {
	return c.ClientID == userID
}

// IsParty сообщает, является ли пользователь стороной контракта.
func (c *Contract) IsParty(userID uuid.UUID) bool {
	return c.ClientID == userID || c.FreelancerID == userID
}
