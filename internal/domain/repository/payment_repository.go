package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
)

// PaymentRepository — хранилище платёжных записей.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	// ApplySettlement атомарно сохраняет итог расчёта: платёж, этап и контракт
	// пишутся в одной транзакции базы — либо всё, либо ничего. Состояние
	// «деньги ушли, а расписание не знает» невозможно по построению.
	ApplySettlement(ctx context.Context, payment *entity.Payment, milestone *entity.Milestone, contract *entity.Contract) error
}
