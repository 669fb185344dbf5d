package payment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
)

type mockContractRepository struct {
	contracts map[uuid.UUID]*entity.Contract
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
	m.contracts[c.ID] = c
	return nil
}

func (m *mockContractRepository) UpdateWithMilestones(ctx context.Context, c *entity.Contract) error {
	m.contracts[c.ID] = c
	return nil
}

type mockPaymentRepository struct {
	payments map[uuid.UUID]*entity.Payment

	applySettlementCalls int
	applySettlementErr   error
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, nil
}

func (m *mockPaymentRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error) {
	for _, p := range m.payments {
		if p.ExternalID != nil && *p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entity.Payment, error) {
	var result []*entity.Payment
	for _, p := range m.payments {
		if p.ContractID == contractID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, p *entity.Payment) error {
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepository) ApplySettlement(ctx context.Context, p *entity.Payment, milestone *entity.Milestone, c *entity.Contract) error {
	m.applySettlementCalls++
	if m.applySettlementErr != nil {
		return m.applySettlementErr
	}
	m.payments[p.ID] = p
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

// seedActiveContract создаёт активный контракт с материализованными этапами.
func seedActiveContract(t *testing.T, repo *mockContractRepository, structure valueobject.PaymentStructure) *entity.Contract {
	t.Helper()

	c, err := entity.NewContract(uuid.New(), uuid.New(), "Разработка сервиса", "", money(t, 50000), structure)
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := c.SignByClient(); err != nil {
		t.Fatalf("sign by client: %v", err)
	}
	if err := c.SignByFreelancer(); err != nil {
		t.Fatalf("sign by freelancer: %v", err)
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	return c
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
