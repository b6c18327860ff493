// Package outbox moves post-commit side-effect intents from the engine's
// financial transactions to the external collaborators: the notification
// broker, the chat service and the ranking cache. Intent rows commit with the
// transaction that produced them; delivery is best effort and never feeds
// back into financial state.
package outbox

// Side-effect kinds stored in the side_effects table.
const (
	KindNotify            = "notify"
	KindChatEnsure        = "chat_ensure"
	KindRankingInvalidate = "ranking_invalidate"
)

// Notification types fanned out to users.
const (
	NotifyCastApplied         = "cast_applied"
	NotifyReservationMatched  = "reservation_matched"
	NotifyApplicationApproved = "application_approved"
	NotifyApplicationRejected = "application_rejected"
	NotifyReservationComplete = "reservation_completed"
	NotifyReservationCanceled = "reservation_canceled"
	NotifyPayoutPaid          = "payout_paid"
	NotifyPayoutFailed        = "payout_failed"
)

type NotifyPayload struct {
	UserID   int            `json:"user_id"`
	UserType string         `json:"user_type"`
	Type     string         `json:"type"`
	Payload  map[string]any `json:"payload,omitempty"`
}

type ChatEnsurePayload struct {
	ReservationID int    `json:"reservation_id"`
	GuestID       int    `json:"guest_id"`
	CastIDs       []int  `json:"cast_ids"`
	Name          string `json:"name"`
}

type RankingInvalidatePayload struct {
	Region string `json:"region"`
}

// RegionEarnings keys the ranking cache entries derived from cast earnings;
// any settlement invalidates it.
const RegionEarnings = "earnings"
