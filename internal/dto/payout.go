package dto

import "time"

type PayoutSummaryResponseDTO struct {
	Points          int64  `json:"points" example:"52000"`
	GradePoints     int64  `json:"grade_points" example:"120000"`
	Grade           string `json:"grade" example:"gold"`
	YenValue        int64  `json:"yen_value" example:"62400"`
	InstantEligible int64  `json:"instant_eligible" example:"21000"`
}

type PayoutRequestDTO struct {
	Amount      int64  `json:"amount" example:"10000"`
	Destination string `json:"destination" example:"2377225624"`
	Memo        string `json:"memo,omitempty" example:"june payout"`
}

type PayoutResponseDTO struct {
	ID          int        `json:"id" example:"5"`
	Amount      int64      `json:"amount" example:"10000"`
	Fee         int64      `json:"fee" example:"200"`
	Status      string     `json:"status" example:"processing"`
	Type        string     `json:"type" example:"instant"`
	RequestedAt time.Time  `json:"requested_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

type ProcessorWebhookDTO struct {
	PayoutRef string `json:"payout_ref" example:"po_1NXWPnJ9"`
	Outcome   string `json:"outcome" example:"paid"`
}
