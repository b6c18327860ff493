package dto

import "time"

type BalanceResponseDTO struct {
	Points      int64  `json:"points" example:"12000"`
	GradePoints int64  `json:"grade_points" example:"34000"`
	Grade       string `json:"grade" example:"silver"`
}

type GetTransactionsResponseDTO struct {
	Type          string    `json:"type" example:"transfer"`
	Amount        int64     `json:"amount" example:"9000"`
	ReservationID *int      `json:"reservation_id,omitempty" example:"42"`
	Description   string    `json:"description,omitempty" example:"reservation settlement"`
	CreatedAt     time.Time `json:"created_at" example:"2025-06-02T01:30:00+09:00"`
}
