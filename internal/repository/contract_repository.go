package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/domain/valueobject"
)

type ContractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID               uuid.UUID       `db:"id"`
	ClientID         uuid.UUID       `db:"client_id"`
	FreelancerID     uuid.UUID       `db:"freelancer_id"`
	Title            string          `db:"title"`
	Description      string          `db:"description"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Currency         string          `db:"currency"`
	StructureKind    string          `db:"structure_kind"`
	ClientSigned     bool            `db:"client_signed"`
	FreelancerSigned bool            `db:"freelancer_signed"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type planItemRow struct {
	ContractID  uuid.UUID `db:"contract_id"`
	Position    int       `db:"position"`
	Fraction    float64   `db:"fraction"`
	Description string    `db:"description"`
}

type milestoneRow struct {
	ID          uuid.UUID       `db:"id"`
	ContractID  uuid.UUID       `db:"contract_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Currency    string          `db:"currency"`
	Fraction    float64         `db:"fraction"`
	SortOrder   int             `db:"sort_order"`
	Status      string          `db:"status"`
	CompletedAt *time.Time      `db:"completed_at"`
	PaidAt      *time.Time      `db:"paid_at"`
	PaymentID   *uuid.UUID      `db:"payment_id"`
}

// Create сохраняет контракт и его пользовательский план этапов.
func (r *ContractRepository) Create(ctx context.Context, c *entity.Contract) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO contracts (id, client_id, freelancer_id, title, description, total_amount, currency,
			structure_kind, client_signed, freelancer_signed, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, c.ID, c.ClientID, c.FreelancerID, c.Title, c.Description, c.TotalAmount.Amount, c.TotalAmount.Currency,
		c.Structure.Kind, c.ClientSigned, c.FreelancerSigned, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contract repository: create %w", err)
	}

	for i, item := range c.Structure.Plan {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO contract_plan_items (contract_id, position, fraction, description)
			VALUES ($1, $2, $3, $4)
		`, c.ID, i, item.Fraction.Value(), item.Description)
		if err != nil {
			return fmt.Errorf("contract repository: create plan item %w", err)
		}
	}

	return tx.Commit()
}

// FindByID загружает контракт вместе с планом и этапами.
// Возвращает nil, nil если контракт не найден.
func (r *ContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	var row contractRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM contracts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("contract repository: find by id %w", err)
	}

	return r.assemble(ctx, row)
}

// FindByParty возвращает контракты, где пользователь — заказчик или исполнитель.
func (r *ContractRepository) FindByParty(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error) {
	var rows []contractRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM contracts
		WHERE client_id = $1 OR freelancer_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: find by party %w", err)
	}

	result := make([]*entity.Contract, 0, len(rows))
	for _, row := range rows {
		c, err := r.assemble(ctx, row)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

// Update сохраняет только строку контракта.
func (r *ContractRepository) Update(ctx context.Context, c *entity.Contract) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contracts
		SET title = $2, description = $3, client_signed = $4, freelancer_signed = $5,
			status = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Title, c.Description, c.ClientSigned, c.FreelancerSigned, c.Status, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contract repository: update %w", err)
	}
	return nil
}

// UpdateWithMilestones сохраняет контракт и его этапы в одной транзакции.
func (r *ContractRepository) UpdateWithMilestones(ctx context.Context, c *entity.Contract) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateContractTx(ctx, tx, c); err != nil {
		return err
	}

	for _, m := range c.Milestones {
		if err := upsertMilestoneTx(ctx, tx, m); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ContractRepository) assemble(ctx context.Context, row contractRow) (*entity.Contract, error) {
	structure, err := r.loadStructure(ctx, row)
	if err != nil {
		return nil, err
	}

	var milestoneRows []milestoneRow
	err = r.db.SelectContext(ctx, &milestoneRows, `
		SELECT * FROM milestones WHERE contract_id = $1 ORDER BY sort_order
	`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: load milestones %w", err)
	}

	milestones := make([]*entity.Milestone, 0, len(milestoneRows))
	for _, mr := range milestoneRows {
		milestones = append(milestones, &entity.Milestone{
			ID:          mr.ID,
			ContractID:  mr.ContractID,
			Title:       mr.Title,
			Description: mr.Description,
			Amount:      valueobject.Money{Amount: mr.Amount, Currency: mr.Currency},
			Fraction:    valueobject.NewFraction(mr.Fraction),
			Order:       mr.SortOrder,
			Status:      valueobject.MilestoneStatus(mr.Status),
			CompletedAt: mr.CompletedAt,
			PaidAt:      mr.PaidAt,
			PaymentID:   mr.PaymentID,
		})
	}

	return &entity.Contract{
		ID:               row.ID,
		ClientID:         row.ClientID,
		FreelancerID:     row.FreelancerID,
		Title:            row.Title,
		Description:      row.Description,
		TotalAmount:      valueobject.Money{Amount: row.TotalAmount, Currency: row.Currency},
		Structure:        structure,
		Milestones:       milestones,
		ClientSigned:     row.ClientSigned,
		FreelancerSigned: row.FreelancerSigned,
		Status:           valueobject.ContractStatus(row.Status),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

func (r *ContractRepository) loadStructure(ctx context.Context, row contractRow) (valueobject.PaymentStructure, error) {
	kind := valueobject.StructureKind(row.StructureKind)
	if kind != valueobject.StructureMilestones {
		return valueobject.PaymentStructure{Kind: kind}, nil
	}

	var items []planItemRow
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM contract_plan_items WHERE contract_id = $1 ORDER BY position
	`, row.ID)
	if err != nil {
		return valueobject.PaymentStructure{}, fmt.Errorf("contract repository: load plan %w", err)
	}

	plan := make([]valueobject.MilestonePlan, 0, len(items))
	for _, item := range items {
		plan = append(plan, valueobject.MilestonePlan{
			Fraction:    valueobject.NewFraction(item.Fraction),
			Description: item.Description,
		})
	}
	return valueobject.PaymentStructure{Kind: kind, Plan: plan}, nil
}

// updateContractTx обновляет строку контракта внутри транзакции.
func updateContractTx(ctx context.Context, tx *sqlx.Tx, c *entity.Contract) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE contracts
		SET title = $2, description = $3, client_signed = $4, freelancer_signed = $5,
			status = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Title, c.Description, c.ClientSigned, c.FreelancerSigned, c.Status, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contract repository: update tx %w", err)
	}
	return nil
}

// upsertMilestoneTx вставляет этап или обновляет его изменяемые поля.
func upsertMilestoneTx(ctx context.Context, tx *sqlx.Tx, m *entity.Milestone) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO milestones (id, contract_id, title, description, amount, currency, fraction,
			sort_order, status, completed_at, paid_at, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, completed_at = EXCLUDED.completed_at,
			paid_at = EXCLUDED.paid_at, payment_id = EXCLUDED.payment_id
	`, m.ID, m.ContractID, m.Title, m.Description, m.Amount.Amount, m.Amount.Currency,
		m.Fraction.Value(), m.Order, m.Status, m.CompletedAt, m.PaidAt, m.PaymentID)
	if err != nil {
		return fmt.Errorf("contract repository: upsert milestone %w", err)
	}
	return nil
}
