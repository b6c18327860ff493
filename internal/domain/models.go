package domain

import "time"

type OwnerType string

const (
	OwnerGuest OwnerType = "guest"
	OwnerCast  OwnerType = "cast"
)

// AccountRef identifies a single point account: either a guest's or a cast's.
type AccountRef struct {
	Type OwnerType
	ID   int
}

func Guest(id int) AccountRef { return AccountRef{Type: OwnerGuest, ID: id} }
func Cast(id int) AccountRef  { return AccountRef{Type: OwnerCast, ID: id} }

const (
	GradePlatinum = "platinum"
	GradeGold     = "gold"
	GradeSilver   = "silver"
	GradeBronze   = "bronze"
)

type Account struct {
	ID          int       `db:"id"`
	OwnerType   OwnerType `db:"owner_type"`
	OwnerID     int       `db:"owner_id"`
	Points      int64     `db:"points"`
	GradePoints int64     `db:"grade_points"`
	Grade       string    `db:"grade"`
}

func (a *Account) Ref() AccountRef { return AccountRef{Type: a.OwnerType, ID: a.OwnerID} }

type Actor struct {
	ID           int       `db:"id"`
	ActorType    string    `db:"actor_type"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	ActorGuest = "guest"
	ActorCast  = "cast"
	ActorAdmin = "admin"
)

const (
	ReservationStandard = "standard"
	ReservationFree     = "free"
	ReservationPishatto = "pishatto"
)

type Reservation struct {
	ID            int        `db:"id"`
	GuestID       int        `db:"guest_id"`
	Type          string     `db:"type"`
	DurationHours int        `db:"duration_hours"`
	ScheduledAt   time.Time  `db:"scheduled_at"`
	StartedAt     *time.Time `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
	Active        bool       `db:"active"`
	CastID        *int       `db:"cast_id"`
	CastIDs       []int      `db:"cast_ids"`
	PointsEarned  int64      `db:"points_earned"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Winners returns all committed casts, falling back to the primary winner
// when the multi-winner list was never populated.
func (r *Reservation) Winners() []int {
	if len(r.CastIDs) > 0 {
		return r.CastIDs
	}
	if r.CastID != nil {
		return []int{*r.CastID}
	}
	return nil
}

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type ReservationApplication struct {
	ID              int        `db:"id"`
	ReservationID   int        `db:"reservation_id"`
	CastID          int        `db:"cast_id"`
	Status          string     `db:"status"`
	AppliedAt       time.Time  `db:"applied_at"`
	ApprovedAt      *time.Time `db:"approved_at"`
	RejectedAt      *time.Time `db:"rejected_at"`
	RejectedBy      *int       `db:"rejected_by"`
	RejectionReason string     `db:"rejection_reason"`
}

const (
	TransactionPending  = "pending"
	TransactionTransfer = "transfer"
	TransactionConvert  = "convert"
	TransactionGift     = "gift"
)

// PointTransaction is one append-only ledger entry. Amount is signed from the
// owner's point of view: holds and payout debits are negative, credits are
// positive. Counterparty carries the other side of the movement when known;
// for pishatto holds it earmarks the cast a pending share belongs to.
type PointTransaction struct {
	ID            int        `db:"id"`
	OwnerType     OwnerType  `db:"owner_type"`
	OwnerID       int        `db:"owner_id"`
	CounterType   *OwnerType `db:"counter_type"`
	CounterID     *int       `db:"counter_id"`
	Type          string     `db:"type"`
	Amount        int64      `db:"amount"`
	ReservationID *int       `db:"reservation_id"`
	Description   string     `db:"description"`
	Consumed      bool       `db:"consumed"`
	CreatedAt     time.Time  `db:"created_at"`
}

const (
	PayoutRequested  = "requested"
	PayoutProcessing = "processing"
	PayoutPaid       = "paid"
	PayoutFailed     = "failed"

	PayoutInstant   = "instant"
	PayoutScheduled = "scheduled"
)

type CastPayout struct {
	ID          int        `db:"id"`
	CastID      int        `db:"cast_id"`
	Amount      int64      `db:"amount"`
	Fee         int64      `db:"fee"`
	Status      string     `db:"status"`
	Type        string     `db:"type"`
	PaymentID   int        `db:"payment_id"`
	Destination string     `db:"destination"`
	Memo        string     `db:"memo"`
	RequestedAt time.Time  `db:"requested_at"`
	ClosedAt    *time.Time `db:"closed_at"`
}

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Payment struct {
	ID            int       `db:"id"`
	UserID        int       `db:"user_id"`
	UserType      OwnerType `db:"user_type"`
	Amount        int64     `db:"amount"`
	Status        string    `db:"status"`
	PaymentMethod string    `db:"payment_method"`
	ProcessorRef  string    `db:"processor_ref"`
	Metadata      []byte    `db:"metadata"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const (
	EffectPending = "pending"
	EffectSent    = "sent"
	EffectFailed  = "failed"
)

// SideEffect is an outbox row: a post-commit intent for a collaborator call
// that must never abort the financial transaction that produced it.
type SideEffect struct {
	ID        int        `db:"id"`
	Kind      string     `db:"kind"`
	Payload   []byte     `db:"payload"`
	Status    string     `db:"status"`
	Attempts  int        `db:"attempts"`
	CreatedAt time.Time  `db:"created_at"`
	SentAt    *time.Time `db:"sent_at"`
}
