package payoutservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/outbox"
	"github.com/withu0/pishatto-engine/internal/pg"
	"github.com/withu0/pishatto-engine/internal/processor"
	"github.com/withu0/pishatto-engine/pkg/validate"
)

type Repo interface {
	CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int, status string) error
	SetProcessorRef(ctx context.Context, paymentID int, ref string) error
	GetPaymentByProcessorRef(ctx context.Context, ref string) (*domain.Payment, error)
	CreatePayout(ctx context.Context, p *domain.CastPayout) (*domain.CastPayout, error)
	GetPayoutByPaymentID(ctx context.Context, paymentID int) (*domain.CastPayout, error)
	UpdatePayoutStatus(ctx context.Context, id int, status string, closedAt *time.Time) error
	SumActivePayoutsSince(ctx context.Context, castID int, payoutType string, since time.Time) (int64, error)
}

type Ledger interface {
	GetAccount(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
	GetAccountForUpdate(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
	Convert(ctx context.Context, owner domain.AccountRef, amount int64, reservationID *int, description string) (*domain.PointTransaction, error)
	SumTransfersSince(ctx context.Context, castID int, since time.Time) (int64, error)
}

type ProcessorClient interface {
	CreatePayout(ctx context.Context, accountRef string, amount int64, currency string, metadata map[string]string) (*processor.Payout, error)
}

type Outbox interface {
	Enqueue(ctx context.Context, kind string, payload any) error
}

var (
	ErrCastNotFound              = errors.New("cast account not found")
	ErrBelowMinimum              = errors.New("payout amount below minimum")
	ErrInsufficientEligibleFunds = errors.New("payout amount exceeds eligible funds")
	ErrInvalidDestination        = errors.New("invalid payout destination")
	ErrPayoutNotFound            = errors.New("payout not found")
	ErrUnknownOutcome            = errors.New("unknown processor outcome")
)

// Policy carries the payout pricing knobs.
type Policy struct {
	Minimum        int64
	InstantPercent int64
	YenPerPoint    float64
}

type Summary struct {
	Points          int64
	GradePoints     int64
	Grade           string
	YenValue        int64
	InstantEligible int64
}

const paymentMethodPayout = "processor_payout"

// Service prices and submits cast withdrawals and reconciles them against
// processor callbacks. Funds leave the ledger only on confirmed payment.
type Service struct {
	repo      Repo
	ledger    Ledger
	processor ProcessorClient
	outbox    Outbox
	txManager pg.TXManager
	policy    Policy
}

func New(repo Repo, ledger Ledger, processorClient ProcessorClient, outbox Outbox, txManager pg.TXManager, policy Policy) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		processor: processorClient,
		outbox:    outbox,
		txManager: txManager,
		policy:    policy,
	}
}

// FeeRate is the withdrawal fee percentage for a cast grade.
func FeeRate(grade string) int64 {
	switch grade {
	case domain.GradePlatinum:
		return 0
	case domain.GradeGold:
		return 2
	case domain.GradeSilver:
		return 4
	default:
		return 5
	}
}

// BuildSummary reports the cast's withdrawable points, their currency value
// and the portion eligible for instant withdrawal this period.
func (s *Service) BuildSummary(ctx context.Context, castID int) (*Summary, error) {
	account, err := s.ledger.GetAccount(ctx, domain.Cast(castID))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrCastNotFound
	}
	return s.buildSummary(ctx, castID, account)
}

func (s *Service) buildSummary(ctx context.Context, castID int, account *domain.Account) (*Summary, error) {
	periodStart := startOfPeriod(time.Now())
	settled, err := s.ledger.SumTransfersSince(ctx, castID, periodStart)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.repo.SumActivePayoutsSince(ctx, castID, domain.PayoutInstant, periodStart)
	if err != nil {
		return nil, err
	}

	eligible := settled*s.policy.InstantPercent/100 - withdrawn
	if eligible < 0 {
		eligible = 0
	}
	if eligible > account.Points {
		eligible = account.Points
	}

	return &Summary{
		Points:          account.Points,
		GradePoints:     account.GradePoints,
		Grade:           account.Grade,
		YenValue:        int64(float64(account.Points) * s.policy.YenPerPoint),
		InstantEligible: eligible,
	}, nil
}

// RequestInstantPayout prices and submits an instant withdrawal. The
// eligibility check runs inside the transaction under the account row lock,
// so two concurrent requests cannot both pass against the same figures; a
// synchronous processor rejection rolls the local records back entirely.
func (s *Service) RequestInstantPayout(ctx context.Context, castID int, amount int64, destination, memo string) (*domain.CastPayout, error) {
	if amount < s.policy.Minimum {
		return nil, ErrBelowMinimum
	}
	if !validate.IsCardNumber(destination) {
		return nil, ErrInvalidDestination
	}

	var payout *domain.CastPayout
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledger.GetAccountForUpdate(ctx, domain.Cast(castID))
		if err != nil {
			return err
		}
		if account == nil {
			return ErrCastNotFound
		}
		summary, err := s.buildSummary(ctx, castID, account)
		if err != nil {
			return err
		}
		if amount > summary.InstantEligible {
			return ErrInsufficientEligibleFunds
		}

		fee := amount * FeeRate(account.Grade) / 100
		net := amount - fee
		yen := int64(float64(net) * s.policy.YenPerPoint)

		payment, err := s.repo.CreatePayment(ctx, &domain.Payment{
			UserID:        castID,
			UserType:      domain.OwnerCast,
			Amount:        yen,
			Status:        domain.PaymentPending,
			PaymentMethod: paymentMethodPayout,
			Metadata:      []byte(`{"payout_type":"instant"}`),
		})
		if err != nil {
			return err
		}

		payout, err = s.repo.CreatePayout(ctx, &domain.CastPayout{
			CastID:      castID,
			Amount:      amount,
			Fee:         fee,
			Status:      domain.PayoutProcessing,
			Type:        domain.PayoutInstant,
			PaymentID:   payment.ID,
			Destination: destination,
			Memo:        memo,
		})
		if err != nil {
			return err
		}

		resp, err := s.processor.CreatePayout(ctx, destination, yen, "jpy", map[string]string{
			"payout_id": strconv.Itoa(payout.ID),
		})
		if err != nil {
			return fmt.Errorf("instant payout submission: %w", err)
		}
		return s.repo.SetProcessorRef(ctx, payment.ID, resp.ID)
	})
	if err != nil {
		if !errors.Is(err, ErrCastNotFound) && !errors.Is(err, ErrInsufficientEligibleFunds) {
			zap.L().Error("instant payout request failed", zap.Error(err), zap.Int("castID", castID))
		}
		return nil, err
	}
	return payout, nil
}

// RequestScheduledPayout records a withdrawal for the next settlement run;
// the payout poller submits it to the processor. The points check runs under
// the account row lock, like the instant path.
func (s *Service) RequestScheduledPayout(ctx context.Context, castID int, amount int64, destination, memo string) (*domain.CastPayout, error) {
	if amount < s.policy.Minimum {
		return nil, ErrBelowMinimum
	}
	if !validate.IsCardNumber(destination) {
		return nil, ErrInvalidDestination
	}

	var payout *domain.CastPayout
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.ledger.GetAccountForUpdate(ctx, domain.Cast(castID))
		if err != nil {
			return err
		}
		if account == nil {
			return ErrCastNotFound
		}
		if amount > account.Points {
			return ErrInsufficientEligibleFunds
		}

		fee := amount * FeeRate(account.Grade) / 100
		yen := int64(float64(amount-fee) * s.policy.YenPerPoint)

		payment, err := s.repo.CreatePayment(ctx, &domain.Payment{
			UserID:        castID,
			UserType:      domain.OwnerCast,
			Amount:        yen,
			Status:        domain.PaymentPending,
			PaymentMethod: paymentMethodPayout,
			Metadata:      []byte(`{"payout_type":"scheduled"}`),
		})
		if err != nil {
			return err
		}
		payout, err = s.repo.CreatePayout(ctx, &domain.CastPayout{
			CastID:      castID,
			Amount:      amount,
			Fee:         fee,
			Status:      domain.PayoutRequested,
			Type:        domain.PayoutScheduled,
			PaymentID:   payment.ID,
			Destination: destination,
			Memo:        memo,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrCastNotFound) && !errors.Is(err, ErrInsufficientEligibleFunds) {
			zap.L().Error("scheduled payout request failed", zap.Error(err), zap.Int("castID", castID))
		}
		return nil, err
	}
	return payout, nil
}

// OnProcessorCallback applies one processor outcome. Replays are no-ops: a
// payment already in a terminal state is left untouched, so the ledger debit
// happens exactly once no matter how often the webhook fires.
func (s *Service) OnProcessorCallback(ctx context.Context, payoutRef, outcome string) error {
	switch outcome {
	case domain.PaymentPaid, domain.PaymentFailed:
	default:
		return ErrUnknownOutcome
	}

	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		payment, err := s.repo.GetPaymentByProcessorRef(ctx, payoutRef)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPayoutNotFound
		}
		if payment.Status != domain.PaymentPending {
			zap.L().Info("duplicate processor callback ignored", zap.String("payoutRef", payoutRef))
			return nil
		}
		payout, err := s.repo.GetPayoutByPaymentID(ctx, payment.ID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}

		now := time.Now()
		switch outcome {
		case domain.PaymentPaid:
			_, err := s.ledger.Convert(ctx, domain.Cast(payout.CastID), -payout.Amount, nil,
				fmt.Sprintf("payout #%d", payout.ID))
			if err != nil {
				return err
			}
			if err := s.repo.UpdatePayoutStatus(ctx, payout.ID, domain.PayoutPaid, &now); err != nil {
				return err
			}
			if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentPaid); err != nil {
				return err
			}
			return s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
				UserID:   payout.CastID,
				UserType: string(domain.OwnerCast),
				Type:     outbox.NotifyPayoutPaid,
				Payload:  map[string]any{"payout_id": payout.ID},
			})
		default:
			if err := s.repo.UpdatePayoutStatus(ctx, payout.ID, domain.PayoutFailed, &now); err != nil {
				return err
			}
			if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentFailed); err != nil {
				return err
			}
			return s.outbox.Enqueue(ctx, outbox.KindNotify, outbox.NotifyPayload{
				UserID:   payout.CastID,
				UserType: string(domain.OwnerCast),
				Type:     outbox.NotifyPayoutFailed,
				Payload:  map[string]any{"payout_id": payout.ID},
			})
		}
	})
}

// startOfPeriod is the beginning of the current settlement period: the first
// day of the calendar month.
func startOfPeriod(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
