package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/settlement-backend/internal/domain/entity"
	"github.com/ignatzorin/settlement-backend/internal/settlement"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Денежные суммы сериализуются строками с двумя знаками: округление до
// центов выполняется только на границе показа.
type ContractResponse struct {
	ID               uuid.UUID           `json:"id"`
	ClientID         uuid.UUID           `json:"client_id"`
	FreelancerID     uuid.UUID           `json:"freelancer_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	TotalAmount      string              `json:"total_amount"`
	Currency         string              `json:"currency"`
	Structure        string              `json:"structure"`
	ClientSigned     bool                `json:"client_signed"`
	FreelancerSigned bool                `json:"freelancer_signed"`
	Status           string              `json:"status"`
	Milestones       []MilestoneResponse `json:"milestones,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type MilestoneResponse struct {
	ID          uuid.UUID  `json:"id"`
	ContractID  uuid.UUID  `json:"contract_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Amount      string     `json:"amount"`
	Fraction    float64    `json:"fraction"`
	Order       int        `json:"order"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	PaymentID   *uuid.UUID `json:"payment_id,omitempty"`
}

type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	ContractID    uuid.UUID  `json:"contract_id"`
	MilestoneID   *uuid.UUID `json:"milestone_id,omitempty"`
	Amount        string     `json:"amount"`
	PlatformFee   string     `json:"platform_fee"`
	PayeeAmount   string     `json:"payee_amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	ExternalID    *string    `json:"external_id,omitempty"`
	Status        string     `json:"status"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type BreakdownResponse struct {
	ContractValue          string `json:"contract_value"`
	PlatformFee            string `json:"platform_fee"`
	PayeeReceives          string `json:"payee_receives"`
	PayerPays              string `json:"payer_pays"`
	PayerPaysAdditionalFee bool   `json:"payer_pays_additional_fee"`
}

func NewContractResponse(c *entity.Contract) ContractResponse {
	milestones := make([]MilestoneResponse, 0, len(c.Milestones))
	for _, m := range c.Milestones {
		milestones = append(milestones, NewMilestoneResponse(m))
	}

	return ContractResponse{
		ID:               c.ID,
		ClientID:         c.ClientID,
		FreelancerID:     c.FreelancerID,
		Title:            c.Title,
		Description:      c.Description,
		TotalAmount:      c.TotalAmount.StringFixed(),
		Currency:         c.TotalAmount.Currency,
		Structure:        string(c.Structure.Kind),
		ClientSigned:     c.ClientSigned,
		FreelancerSigned: c.FreelancerSigned,
		Status:           string(c.Status),
		Milestones:       milestones,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func NewMilestoneResponse(m *entity.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:          m.ID,
		ContractID:  m.ContractID,
		Title:       m.Title,
		Description: m.Description,
		Amount:      m.Amount.StringFixed(),
		Fraction:    m.Fraction.Value(),
		Order:       m.Order,
		Status:      string(m.Status),
		CompletedAt: m.CompletedAt,
		PaidAt:      m.PaidAt,
		PaymentID:   m.PaymentID,
	}
}

func NewPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ContractID:    p.ContractID,
		MilestoneID:   p.MilestoneID,
		Amount:        p.Amount.StringFixed(),
		PlatformFee:   p.PlatformFee.StringFixed(),
		PayeeAmount:   p.PayeeAmount.StringFixed(),
		Currency:      p.Amount.Currency,
		Method:        p.Method,
		ExternalID:    p.ExternalID,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		CompletedAt:   p.CompletedAt,
	}
}

func NewBreakdownResponse(b settlement.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		ContractValue:          b.ContractValue.StringFixed(),
		PlatformFee:            b.PlatformFee.StringFixed(),
		PayeeReceives:          b.PayeeReceives.StringFixed(),
		PayerPays:              b.PayerPays.StringFixed(),
		PayerPaysAdditionalFee: b.PayerPaysAdditionalFee,
	}
}
