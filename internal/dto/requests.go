package dto

import "github.com/google/uuid"

type PlanItemRequest struct {
	Fraction    float64 `json:"fraction" binding:"required"`
	Description string  `json:"description"`
}

type CreateContractRequest struct {
	FreelancerID uuid.UUID         `json:"freelancer_id" binding:"required"`
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	TotalAmount  float64           `json:"total_amount" binding:"required"`
	Structure    string            `json:"structure" binding:"required"`
	Plan         []PlanItemRequest `json:"plan"`
}

type InitiatePaymentRequest struct {
	MilestoneID uuid.UUID `json:"milestone_id" binding:"required"`
	Method      string    `json:"method"`
}
