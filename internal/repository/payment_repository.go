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

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentRow struct {
	ID            uuid.UUID       `db:"id"`
	ContractID    uuid.UUID       `db:"contract_id"`
	MilestoneID   *uuid.UUID      `db:"milestone_id"`
	ClientID      uuid.UUID       `db:"client_id"`
	FreelancerID  uuid.UUID       `db:"freelancer_id"`
	Amount        decimal.Decimal `db:"amount"`
	PlatformFee   decimal.Decimal `db:"platform_fee"`
	PayeeAmount   decimal.Decimal `db:"payee_amount"`
	Currency      string          `db:"currency"`
	Method        string          `db:"method"`
	ExternalID    *string         `db:"external_id"`
	Status        string          `db:"status"`
	FailureReason *string         `db:"failure_reason"`
	CreatedAt     time.Time       `db:"created_at"`
	CompletedAt   *time.Time      `db:"completed_at"`
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, contract_id, milestone_id, client_id, freelancer_id,
			amount, platform_fee, payee_amount, currency, method, external_id, status,
			failure_reason, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, p.ID, p.ContractID, p.MilestoneID, p.ClientID, p.FreelancerID,
		p.Amount.Amount, p.PlatformFee.Amount, p.PayeeAmount.Amount, p.Amount.Currency,
		p.Method, p.ExternalID, p.Status, p.FailureReason, p.CreatedAt, p.CompletedAt)
	if err != nil {
		return fmt.Errorf("payment repository: create %w", err)
	}
	return nil
}

// FindByID возвращает nil, nil если платёж не найден.
func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var row paymentRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("payment repository: find by id %w", err)
	}
	return toPayment(row), nil
}

// FindByExternalID ищет платёж по идентификатору транзакции шлюза.
func (r *PaymentRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error) {
	var row paymentRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM payments WHERE external_id = $1`, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("payment repository: find by external id %w", err)
	}
	return toPayment(row), nil
}

func (r *PaymentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*entity.Payment, error) {
	var rows []paymentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM payments WHERE contract_id = $1 ORDER BY created_at
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("payment repository: list by contract %w", err)
	}

	result := make([]*entity.Payment, 0, len(rows))
	for _, row := range rows {
		result = append(result, toPayment(row))
	}
	return result, nil
}

// Update сохраняет изменяемые поля платежа: статус, внешний идентификатор,
// причину отказа и отметки времени. Суммы после создания не перезаписываются.
func (r *PaymentRepository) Update(ctx context.Context, p *entity.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, external_id = $3, failure_reason = $4, completed_at = $5
		WHERE id = $1
	`, p.ID, p.Status, p.ExternalID, p.FailureReason, p.CompletedAt)
	if err != nil {
		return fmt.Errorf("payment repository: update %w", err)
	}
	return nil
}

// ApplySettlement пишет итог расчёта одной транзакцией: платёж, этап и
// контракт фиксируются вместе — либо всё, либо ничего.
func (r *PaymentRepository) ApplySettlement(ctx context.Context, p *entity.Payment, m *entity.Milestone, c *entity.Contract) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, external_id = $3, failure_reason = $4, completed_at = $5
		WHERE id = $1
	`, p.ID, p.Status, p.ExternalID, p.FailureReason, p.CompletedAt)
	if err != nil {
		return fmt.Errorf("payment repository: settle payment %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE milestones
		SET status = $2, paid_at = $3, payment_id = $4
		WHERE id = $1
	`, m.ID, m.Status, m.PaidAt, m.PaymentID)
	if err != nil {
		return fmt.Errorf("payment repository: settle milestone %w", err)
	}

	if err := updateContractTx(ctx, tx, c); err != nil {
		return err
	}

	return tx.Commit()
}

func toPayment(row paymentRow) *entity.Payment {
	return &entity.Payment{
		ID:            row.ID,
		ContractID:    row.ContractID,
		MilestoneID:   row.MilestoneID,
		ClientID:      row.ClientID,
		FreelancerID:  row.FreelancerID,
		Amount:        valueobject.Money{Amount: row.Amount, Currency: row.Currency},
		PlatformFee:   valueobject.Money{Amount: row.PlatformFee, Currency: row.Currency},
		PayeeAmount:   valueobject.Money{Amount: row.PayeeAmount, Currency: row.Currency},
		Method:        row.Method,
		ExternalID:    row.ExternalID,
		Status:        valueobject.PaymentStatus(row.Status),
		FailureReason: row.FailureReason,
		CreatedAt:     row.CreatedAt,
		CompletedAt:   row.CompletedAt,
	}
}
