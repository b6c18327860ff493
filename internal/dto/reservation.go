package dto

import "time"

type CreateReservationRequestDTO struct {
	Type          string    `json:"type" example:"standard"`
	DurationHours int       `json:"duration_hours" example:"2"`
	ScheduledAt   time.Time `json:"scheduled_at" example:"2025-06-01T22:00:00+09:00"`
}

type ReservationResponseDTO struct {
	ID            int       `json:"id" example:"42"`
	Type          string    `json:"type" example:"standard"`
	DurationHours int       `json:"duration_hours" example:"2"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Active        bool      `json:"active" example:"true"`
	CastIDs       []int     `json:"cast_ids,omitempty"`
	PointsEarned  int64     `json:"points_earned,omitempty" example:"18000"`
}

type ApproveMultipleRequestDTO struct {
	CastIDs []int `json:"cast_ids" validate:"required,min=1"`
}

type RejectApplicationRequestDTO struct {
	Reason string `json:"reason" example:"schedule conflict"`
}

type CompleteReservationRequestDTO struct {
	EndedAt *time.Time `json:"ended_at,omitempty" example:"2025-06-02T01:30:00+09:00"`
}

type ApplicationResponseDTO struct {
	ID            int    `json:"id" example:"7"`
	ReservationID int    `json:"reservation_id" example:"42"`
	CastID        int    `json:"cast_id" example:"13"`
	Status        string `json:"status" example:"pending"`
}
