package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
)

// ContractRepository — хранилище контрактов и их этапов.
// Контракт владеет этапами: они загружаются и сохраняются вместе с ним.
type ContractRepository interface {
	Create(ctx context.Context, contract *entity.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error)
	FindByParty(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error)
	Update(ctx context.Context, contract *entity.Contract) error
	// UpdateWithMilestones сохраняет контракт и его этапы в одной транзакции.
	UpdateWithMilestones(ctx context.Context, contract *entity.Contract) error
}
