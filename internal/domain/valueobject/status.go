package valueobject

import "github.com/ignatzorin/settlement-backend/internal/pkg/apperror"

type ContractStatus string

const (
	ContractStatusDraft            ContractStatus = "draft"
	ContractStatusPendingSignature ContractStatus = "pending_signature"
	ContractStatusActive           ContractStatus = "active"
	ContractStatusCompleted        ContractStatus = "completed"
	ContractStatusCancelled        ContractStatus = "cancelled"
	ContractStatusDisputed         ContractStatus = "disputed"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusPendingSignature, ContractStatusActive,
		ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed:
		return true
	}
	return false
}

// IsTerminal сообщает, является ли статус конечным: из него нет переходов.
func (s ContractStatus) IsTerminal() bool {
	return s == ContractStatusCompleted || s == ContractStatusCancelled
}

func (s ContractStatus) CanTransitionTo(newStatus ContractStatus) bool {
	transitions := map[ContractStatus][]ContractStatus{
		ContractStatusDraft:            {ContractStatusPendingSignature, ContractStatusCancelled},
		ContractStatusPendingSignature: {ContractStatusActive, ContractStatusCancelled},
		ContractStatusActive:           {ContractStatusCompleted, ContractStatusDisputed, ContractStatusCancelled},
		ContractStatusDisputed:         {ContractStatusActive, ContractStatusCancelled},
		ContractStatusCompleted:        {},
		ContractStatusCancelled:        {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewContractStatus(status string) (ContractStatus, error) {
	s := ContractStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус контракта")
	}
	return s, nil
}

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusPaid       MilestoneStatus = "paid"
	MilestoneStatusDisputed   MilestoneStatus = "disputed"
)

func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress, MilestoneStatusCompleted,
		MilestoneStatusPaid, MilestoneStatusDisputed:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода. Спор открывается из любого
// неоплаченного статуса; оплаченный этап неизменяем. Переход в paid допустим
// из любого рабочего статуса — его сторожит не предшественник, а наличие
// завершённого платежа, ссылающегося на этап (при предоплате этап
// оплачивается до начала работы).
func (s MilestoneStatus) CanTransitionTo(newStatus MilestoneStatus) bool {
	if s == MilestoneStatusPaid {
		return false
	}
	if newStatus == MilestoneStatusDisputed {
		return s != MilestoneStatusDisputed
	}

	transitions := map[MilestoneStatus][]MilestoneStatus{
		MilestoneStatusPending:    {MilestoneStatusInProgress, MilestoneStatusPaid},
		MilestoneStatusInProgress: {MilestoneStatusCompleted, MilestoneStatusPaid},
		MilestoneStatusCompleted:  {MilestoneStatusPaid},
		MilestoneStatusDisputed:   {MilestoneStatusInProgress},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewMilestoneStatus(status string) (MilestoneStatus, error) {
	s := MilestoneStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус этапа")
	}
	return s, nil
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(newStatus PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusFailed},
		PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
		PaymentStatusCompleted:  {PaymentStatusRefunded},
		PaymentStatusFailed:     {},
		PaymentStatusRefunded:   {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewPaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус платежа")
	}
	return s, nil
}
