package contract_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
)

type mockContractRepository struct {
	contracts map[uuid.UUID]*entity.Contract

	updateCalls               int
	updateWithMilestonesCalls int
}

func newMockContractRepository() *mockContractRepository {
	return &mockContractRepository{contracts: make(map[uuid.UUID]*entity.Contract)}
}

func (m *mockContractRepository) Create(ctx context.Context, c *entity.Contract) error {
	m.contracts[c.ID] = c
	return nil
}

func (m *mockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	if c, ok := m.contracts[id]; ok {
		return c, nil
	}
	return nil, nil
}

func (m *mockContractRepository) FindByParty(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error) {
	var result []*entity.Contract
	for _, c := range m.contracts {
		if c.IsParty(userID) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockContractRepository) Update(ctx context.Context, c *entity.Contract) error {
	m.updateCalls++
	m.contracts[c.ID] = c
	return nil
}

func (m *mockContractRepository) UpdateWithMilestones(ctx context.Context, c *entity.Contract) error {
	m.updateWithMilestonesCalls++
	m.contracts[c.ID] = c
	return nil
}

func money(t *testing.T, amount float64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromFloat(amount)
	if err != nil {
		t.Fatalf("money(%v): %v", amount, err)
	}
	return m
}

// seedContract кладёт в репозиторий контракт в заданном статусе.
func seedContract(t *testing.T, repo *mockContractRepository, structure valueobject.PaymentStructure, status valueobject.ContractStatus) *entity.Contract {
	t.Helper()

	c, err := entity.NewContract(uuid.New(), uuid.New(), "Разработка сервиса", "", money(t, 50000), structure)
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}

	switch status {
	case valueobject.ContractStatusDraft:
	case valueobject.ContractStatusPendingSignature:
		mustFinalize(t, c)
	case valueobject.ContractStatusActive:
		mustFinalize(t, c)
		if err := c.SignByClient(); err != nil {
			t.Fatalf("sign by client: %v", err)
		}
		if err := c.SignByFreelancer(); err != nil {
			t.Fatalf("sign by freelancer: %v", err)
		}
	default:
		t.Fatalf("seedContract: unsupported status %s", status)
	}

	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	return c
}

func mustFinalize(t *testing.T, c *entity.Contract) {
	t.Helper()
	if err := c.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}
