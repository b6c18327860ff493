package matchingservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/outbox"
	"github.com/withu0/pishatto-engine/internal/pg"
	reservationrepo "github.com/withu0/pishatto-engine/internal/repo/reservation-repo"
	"github.com/withu0/pishatto-engine/internal/service/ledgerservice"
	"github.com/withu0/pishatto-engine/internal/settle"
)

type Repo interface {
	CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id int) (*domain.Reservation, error)
	SetWinner(ctx context.Context, id, castID int, castIDs []int) error
	SetSettled(ctx context.Context, id int, pointsEarned int64, startedAt, endedAt time.Time) error
	MarkInactive(ctx context.Context, id int) error
	CreateApplication(ctx context.Context, a *domain.ReservationApplication) (*domain.ReservationApplication, error)
	GetApplication(ctx context.Context, id int) (*domain.ReservationApplication, error)
	FindApplication(ctx context.Context, reservationID, castID int) (*domain.ReservationApplication, error)
	ApproveApplication(ctx context.Context, id int) (bool, error)
	RejectApplication(ctx context.Context, id, adminID int, reason string) (bool, error)
	RejectOtherPending(ctx context.Context, reservationID int, keepCastIDs []int, adminID int, reason string) ([]int, error)
}

type Ledger interface {
	Hold(ctx context.Context, payer domain.AccountRef, counterparty *domain.AccountRef, amount int64, reservationID int, description string) (*domain.PointTransaction, error)
	Settle(ctx context.Context, reservationID int, allocations []ledgerservice.Allocation) ([]domain.PointTransaction, error)
	Refund(ctx context.Context, reservationID int) (*domain.PointTransaction, error)
	Outstanding(ctx context.Context, reservationID int) (int64, map[int]int64, error)
	GetAccount(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
}

type Outbox interface {
	Enqueue(ctx context.Context, kind string, payload any) error
}

var (
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrReservationClosed    = errors.New("reservation closed to applications")
	ErrDuplicateApplication = errors.New("application already exists")
	ErrNotPending           = errors.New("application is not pending")
	ErrUnsupportedType      = errors.New("unsupported reservation type")
	ErrNoWinner             = errors.New("reservation has no winner")
)

const (
	siblingRejectionReason = "another cast was approved"
	cancelRejectionReason  = "reservation was canceled"
)

// Service is the reservation matching engine: the application state machine
// and the approval/settlement flows built on the ledger and the calculator.
// Every mutating operation takes the acting admin or user explicitly.
type Service struct {
	repo      Repo
	ledger    Ledger
	pricer    settle.Pricer
	outbox    Outbox
	txManager pg.TXManager
}

func New(repo Repo, ledger Ledger, pricer settle.Pricer, outbox Outbox, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		pricer:    pricer,
		outbox:    outbox,
		txManager: txManager,
	}
}

// CreateReservation opens a reservation to applications. For standard and
// free types the guest's required points are held upfront; pishatto
// reservations defer the hold until the winning casts are known, because the
// shares are pre-allocated per cast.
func (s *Service) CreateReservation(ctx context.Context, guestID int, resType string, durationHours int, scheduledAt time.Time) (*domain.Reservation, error) {
	switch resType {
	case domain.ReservationStandard, domain.ReservationFree, domain.ReservationPishatto:
	default:
		return nil, ErrUnsupportedType
	}

	var created *domain.Reservation
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.CreateReservation(ctx, &domain.Reservation{
			GuestID:       guestID,
			Type:          resType,
			DurationHours: durationHours,
			ScheduledAt:   scheduledAt,
		})
		if err != nil {
			return err
		}

		if resType == domain.ReservationPishatto {
			return nil
		}
		required := s.pricer.RequiredPoints(created)
		if required == 0 {
			return nil
		}
		_, err = s.ledger.Hold(ctx, domain.Guest(guestID), nil, required, created.ID, "reservation hold")
		return err
	})
	if err != nil {
		if !errors.Is(err, ledgerservice.ErrInsufficientFunds) {
			zap.L().Error("can't create reservation", zap.Error(err))
		}
		return nil, err
	}
	return created, nil
}

// Apply files a cast's bid for an open reservation.
func (s *Service) Apply(ctx context.Context, reservationID, castID int) (*domain.ReservationApplication, error) {
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}
	if !reservation.Active {
		return nil, ErrReservationClosed
	}

	existing, err := s.repo.FindApplication(ctx, reservationID, castID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zap.L().Info("application already exists", zap.Int("reservationID", reservationID), zap.Int("castID", castID))
		return nil, ErrDuplicateApplication
	}

	application := &domain.ReservationApplication{
		ReservationID: reservationID,
		CastID:        castID,
		AppliedAt:     time.Now(),
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.repo.CreateApplication(ctx, application); err != nil {
			// The unique index catches the race the find above cannot.
			if errors.Is(err, reservationrepo.ErrDuplicateApplication) {
				return ErrDuplicateApplication
			}
			return err
		}
		return s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
			UserID:   reservation.GuestID,
			UserType: string(domain.OwnerGuest),
			Type:     outbox.NotifyCastApplied,
			Payload:  map[string]any{"reservation_id": reservationID, "cast_id": castID},
		})
	})
	if err != nil {
		if !errors.Is(err, ErrDuplicateApplication) {
			zap.L().Error("can't create application", zap.Error(err))
		}
		return nil, err
	}
	return application, nil
}

// ApproveSingle commits one cast as the reservation winner. The pending
// status guard ensures that of two concurrent approvals only one succeeds.
// Held funds are not released here; settlement happens at session end.
func (s *Service) ApproveSingle(ctx context.Context, applicationID, adminID int) error {
	application, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if application == nil {
		return ErrApplicationNotFound
	}
	reservation, err := s.repo.GetReservation(ctx, application.ReservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return ErrReservationNotFound
	}
	// Free reservations take further winners after closing; for the other
	// types an inactive reservation is already won or canceled.
	if reservation.Type != domain.ReservationFree && !reservation.Active {
		return ErrReservationClosed
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.repo.ApproveApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotPending
		}

		castIDs := appendIfAbsent(reservation.CastIDs, application.CastID)
		if err := s.repo.SetWinner(ctx, reservation.ID, application.CastID, castIDs); err != nil {
			return err
		}

		var rejected []int
		if reservation.Type != domain.ReservationFree {
			rejected, err = s.repo.RejectOtherPending(ctx, reservation.ID, []int{application.CastID}, adminID, siblingRejectionReason)
			if err != nil {
				return err
			}
		}

		return s.enqueueApprovalEffects(ctx, reservation, castIDs, []int{application.CastID}, rejected)
	})
	if err != nil {
		if !errors.Is(err, ErrNotPending) {
			zap.L().Error("can't approve application", zap.Error(err), zap.Int("applicationID", applicationID))
		}
		return err
	}
	return nil
}

// ApproveMultiple commits several casts at once; only pishatto reservations
// support it. When the reservation has no holds yet, the required points are
// split across the casts in the given order and held per cast.
func (s *Service) ApproveMultiple(ctx context.Context, reservationID, adminID int, castIDs []int) error {
	if len(castIDs) == 0 {
		return ErrNoWinner
	}
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return ErrReservationNotFound
	}
	if reservation.Type != domain.ReservationPishatto {
		return ErrUnsupportedType
	}
	if !reservation.Active {
		return ErrReservationClosed
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		for _, castID := range castIDs {
			application, err := s.repo.FindApplication(ctx, reservationID, castID)
			if err != nil {
				return err
			}
			if application == nil {
				return ErrNotPending
			}
			ok, err := s.repo.ApproveApplication(ctx, application.ID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotPending
			}
		}

		if err := s.repo.SetWinner(ctx, reservationID, castIDs[0], castIDs); err != nil {
			return err
		}
		rejected, err := s.repo.RejectOtherPending(ctx, reservationID, castIDs, adminID, siblingRejectionReason)
		if err != nil {
			return err
		}

		if err := s.holdPishattoShares(ctx, reservation, castIDs); err != nil {
			return err
		}

		return s.enqueueApprovalEffects(ctx, reservation, castIDs, castIDs, rejected)
	})
	if err != nil {
		if !errors.Is(err, ErrNotPending) {
			zap.L().Error("can't approve applications", zap.Error(err), zap.Int("reservationID", reservationID))
		}
		return err
	}
	return nil
}

// holdPishattoShares creates the per-cast pending holds unless the
// reservation already carries them.
func (s *Service) holdPishattoShares(ctx context.Context, reservation *domain.Reservation, castIDs []int) error {
	_, _, err := s.ledger.Outstanding(ctx, reservation.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ledgerservice.ErrNoPendingFunds) {
		return err
	}

	total := s.pricer.RequiredPoints(reservation)
	shares := settle.SplitEvenly(total, len(castIDs))
	for i, castID := range castIDs {
		cast := domain.Cast(castID)
		_, err := s.ledger.Hold(ctx, domain.Guest(reservation.GuestID), &cast, shares[i], reservation.ID, "pishatto reservation hold")
		if err != nil {
			return err
		}
	}
	return nil
}

// Reject turns down a pending application with a reason.
func (s *Service) Reject(ctx context.Context, applicationID, adminID int, reason string) error {
	application, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if application == nil {
		return ErrApplicationNotFound
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.repo.RejectApplication(ctx, applicationID, adminID, reason)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotPending
		}
		return s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
			UserID:   application.CastID,
			UserType: string(domain.OwnerCast),
			Type:     outbox.NotifyApplicationRejected,
			Payload:  map[string]any{"reservation_id": application.ReservationID, "reason": reason},
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNotPending) {
			zap.L().Error("can't reject application", zap.Error(err), zap.Int("applicationID", applicationID))
		}
		return err
	}
	return nil
}

// CompleteReservation settles the session: consumes the held funds, credits
// each winner its base share plus night bonus and overtime, and records the
// earned total. Re-invocation fails because the holds are already consumed.
func (s *Service) CompleteReservation(ctx context.Context, reservationID int, endedAt *time.Time) error {
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return ErrReservationNotFound
	}
	winners := reservation.Winners()
	if len(winners) == 0 {
		return ErrNoWinner
	}

	started := reservation.ScheduledAt
	if reservation.StartedAt != nil {
		started = *reservation.StartedAt
	}
	scheduledMinutes := reservation.DurationHours * 60
	ended := started.Add(time.Duration(scheduledMinutes) * time.Minute)
	if endedAt != nil {
		ended = *endedAt
	}
	actualMinutes := int(ended.Sub(started).Minutes())

	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		total, perCast, err := s.ledger.Outstanding(ctx, reservationID)
		if err != nil {
			return err
		}

		bases := s.baseShares(total, perCast, winners)
		nightShares := settle.SplitEvenly(settle.NightBonus(started), len(winners))

		allocations := make([]ledgerservice.Allocation, len(winners))
		for i, castID := range winners {
			account, err := s.ledger.GetAccount(ctx, domain.Cast(castID))
			if err != nil {
				return err
			}
			var gradePoints int64
			if account != nil {
				gradePoints = account.GradePoints
			}
			fee := settle.ExtensionFee(gradePoints, scheduledMinutes, actualMinutes)
			allocations[i] = ledgerservice.Allocation{
				Account: domain.Cast(castID),
				Amount:  bases[i],
				Bonus:   nightShares[i] + fee,
			}
		}

		transfers, err := s.ledger.Settle(ctx, reservationID, allocations)
		if err != nil {
			return err
		}
		var earned int64
		for _, t := range transfers {
			earned += t.Amount
		}
		if err := s.repo.SetSettled(ctx, reservationID, earned, started, ended); err != nil {
			return err
		}

		if err := s.outbox.Enqueue(ctx, outbox.KindRankingInvalidate, outbox.RankingInvalidatePayload{Region: outbox.RegionEarnings}); err != nil {
			return err
		}
		for _, castID := range winners {
			if err := s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
				UserID:   castID,
				UserType: string(domain.OwnerCast),
				Type:     outbox.NotifyReservationComplete,
				Payload:  map[string]any{"reservation_id": reservationID},
			}); err != nil {
				return err
			}
		}
		return s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
			UserID:   reservation.GuestID,
			UserType: string(domain.OwnerGuest),
			Type:     outbox.NotifyReservationComplete,
			Payload:  map[string]any{"reservation_id": reservationID},
		})
	})
}

// baseShares apportions the held total across winners: per-cast earmarks win
// when every winner has one, otherwise the total splits evenly in winner
// order.
func (s *Service) baseShares(total int64, perCast map[int]int64, winners []int) []int64 {
	if len(perCast) > 0 {
		bases := make([]int64, len(winners))
		covered := true
		var sum int64
		for i, castID := range winners {
			share, ok := perCast[castID]
			if !ok {
				covered = false
				break
			}
			bases[i] = share
			sum += share
		}
		if covered && sum == total {
			return bases
		}
	}
	return settle.SplitEvenly(total, len(winners))
}

// CancelReservation refunds any outstanding hold and closes the reservation
// without a winner. Still-pending applications are rejected in the same
// transaction so no later approval can commit a winner to the dead
// reservation.
func (s *Service) CancelReservation(ctx context.Context, reservationID int) error {
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return ErrReservationNotFound
	}

	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.Refund(ctx, reservationID); err != nil {
			return err
		}
		if err := s.repo.MarkInactive(ctx, reservationID); err != nil {
			return err
		}
		rejected, err := s.repo.RejectOtherPending(ctx, reservationID, []int{}, 0, cancelRejectionReason)
		if err != nil {
			return err
		}
		for _, castID := range rejected {
			if err := s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
				UserID:   castID,
				UserType: string(domain.OwnerCast),
				Type:     outbox.NotifyApplicationRejected,
				Payload:  map[string]any{"reservation_id": reservationID, "reason": cancelRejectionReason},
			}); err != nil {
				return err
			}
		}
		return s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
			UserID:   reservation.GuestID,
			UserType: string(domain.OwnerGuest),
			Type:     outbox.NotifyReservationCanceled,
			Payload:  map[string]any{"reservation_id": reservationID},
		})
	})
}

func (s *Service) GetReservation(ctx context.Context, reservationID int) (*domain.Reservation, error) {
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}
	return reservation, nil
}

func (s *Service) enqueueApprovalEffects(ctx context.Context, reservation *domain.Reservation, chatCastIDs, approved, rejected []int) error {
	if err := s.outbox.Enqueue(ctx, outbox.KindChatEnsure, outbox.ChatEnsurePayload{
		ReservationID: reservation.ID,
		GuestID:       reservation.GuestID,
		CastIDs:       chatCastIDs,
		Name:          fmt.Sprintf("reservation-%d", reservation.ID),
	}); err != nil {
		return err
	}
	if err := s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
		UserID:   reservation.GuestID,
		UserType: string(domain.OwnerGuest),
		Type:     outbox.NotifyReservationMatched,
		Payload:  map[string]any{"reservation_id": reservation.ID, "cast_ids": chatCastIDs},
	}); err != nil {
		return err
	}
	for _, castID := range approved {
		if err := s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
			UserID:   castID,
			UserType: string(domain.OwnerCast),
			Type:     outbox.NotifyApplicationApproved,
			Payload:  map[string]any{"reservation_id": reservation.ID},
		}); err != nil {
			return err
		}
	}
	for _, castID := range rejected {
		if err := s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
			UserID:   castID,
			UserType: string(domain.OwnerCast),
			Type:     outbox.NotifyApplicationRejected,
			Payload:  map[string]any{"reservation_id": reservation.ID, "reason": siblingRejectionReason},
		}); err != nil {
			return err
		}
	}
	return nil
}

func appendIfAbsent(ids []int, id int) []int {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(append([]int(nil), ids...), id)
}
