package ledgerservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/pg"
)

type AccountRepo interface {
	Get(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
	GetForUpdate(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
	Create(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
	UpdateBalance(ctx context.Context, owner domain.AccountRef, points, gradePoints int64) error
}

type LedgerRepo interface {
	CreateTransaction(ctx context.Context, t *domain.PointTransaction) (*domain.PointTransaction, error)
	FindByReservation(ctx context.Context, reservationID int, txType string) ([]domain.PointTransaction, error)
	MarkConsumed(ctx context.Context, ids []int) error
	FindByOwner(ctx context.Context, owner domain.AccountRef, limit int) ([]domain.PointTransaction, error)
	SumTransfersSince(ctx context.Context, castID int, since time.Time) (int64, error)
}

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNoPendingFunds       = errors.New("no pending funds for reservation")
	ErrAlreadySettled       = errors.New("reservation already settled")
	ErrUnbalancedSettlement = errors.New("settlement allocations do not match held funds")
)

// Allocation is one cast's share of a settlement: Amount is the base drawn
// from the held funds, Bonus is credited on top of it.
type Allocation struct {
	Account domain.AccountRef
	Amount  int64
	Bonus   int64
}

// Service is the point ledger: the only component allowed to create point
// transactions and mutate account balances. Every mutation locks the
// affected account rows so concurrent balance checks never race.
type Service struct {
	accounts  AccountRepo
	ledger    LedgerRepo
	txManager pg.TXManager
}

func New(accounts AccountRepo, ledger LedgerRepo, txManager pg.TXManager) *Service {
	return &Service{
		accounts:  accounts,
		ledger:    ledger,
		txManager: txManager,
	}
}

func (s *Service) CreateAccount(ctx context.Context, owner domain.AccountRef) (*domain.Account, error) {
	account, err := s.accounts.Create(ctx, owner)
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, owner domain.AccountRef) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, owner)
	if err != nil {
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return account, nil
}

// GetAccountForUpdate reads an account under a row lock. The caller must be
// inside an open transaction for the lock to outlive the read.
func (s *Service) GetAccountForUpdate(ctx context.Context, owner domain.AccountRef) (*domain.Account, error) {
	account, err := s.accounts.GetForUpdate(ctx, owner)
	if err != nil {
		zap.L().Error("failed to lock account", zap.Error(err))
		return nil, err
	}
	return account, nil
}

func (s *Service) GetTransactions(ctx context.Context, owner domain.AccountRef, limit int) ([]domain.PointTransaction, error) {
	transactions, err := s.ledger.FindByOwner(ctx, owner, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

func (s *Service) SumTransfersSince(ctx context.Context, castID int, since time.Time) (int64, error) {
	return s.ledger.SumTransfersSince(ctx, castID, since)
}

// Hold debits the payer and records a pending transaction against the
// reservation. The counterparty, when given, earmarks the cast a share is
// destined for (pishatto reservations pre-allocate per-cast shares).
func (s *Service) Hold(ctx context.Context, payer domain.AccountRef, counterparty *domain.AccountRef, amount int64, reservationID int, description string) (*domain.PointTransaction, error) {
	var held *domain.PointTransaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.accounts.GetForUpdate(ctx, payer)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		if account.Points < amount {
			return ErrInsufficientFunds
		}
		if err := s.accounts.UpdateBalance(ctx, payer, account.Points-amount, account.GradePoints); err != nil {
			return err
		}

		transaction := &domain.PointTransaction{
			OwnerType:     payer.Type,
			OwnerID:       payer.ID,
			Type:          domain.TransactionPending,
			Amount:        -amount,
			ReservationID: &reservationID,
			Description:   description,
		}
		if counterparty != nil {
			transaction.CounterType = &counterparty.Type
			transaction.CounterID = &counterparty.ID
		}
		held, err = s.ledger.CreateTransaction(ctx, transaction)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			zap.L().Error("failed to hold funds", zap.Error(err))
		}
		return nil, err
	}
	return held, nil
}

// Outstanding reports the unconsumed held total for a reservation and the
// per-cast earmarks when the holds were pre-allocated.
func (s *Service) Outstanding(ctx context.Context, reservationID int) (int64, map[int]int64, error) {
	pendings, err := s.ledger.FindByReservation(ctx, reservationID, domain.TransactionPending)
	if err != nil {
		return 0, nil, err
	}
	outstanding := unconsumed(pendings)
	if len(outstanding) == 0 {
		if len(pendings) > 0 {
			return 0, nil, ErrAlreadySettled
		}
		return 0, nil, ErrNoPendingFunds
	}

	var total int64
	perCast := make(map[int]int64)
	for _, p := range outstanding {
		total += -p.Amount
		if p.CounterType != nil && *p.CounterType == domain.OwnerCast && p.CounterID != nil {
			perCast[*p.CounterID] += -p.Amount
		}
	}
	return total, perCast, nil
}

// Settle consumes the reservation's outstanding holds and credits each
// allocation's account amount + bonus. The base allocations must add up to
// the held total exactly; conservation is enforced, not assumed.
func (s *Service) Settle(ctx context.Context, reservationID int, allocations []Allocation) ([]domain.PointTransaction, error) {
	var transfers []domain.PointTransaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		pendings, err := s.ledger.FindByReservation(ctx, reservationID, domain.TransactionPending)
		if err != nil {
			return err
		}
		outstanding := unconsumed(pendings)
		if len(outstanding) == 0 {
			if len(pendings) > 0 {
				return ErrAlreadySettled
			}
			return ErrNoPendingFunds
		}

		var held, allocated int64
		ids := make([]int, 0, len(outstanding))
		for _, p := range outstanding {
			held += -p.Amount
			ids = append(ids, p.ID)
		}
		for _, a := range allocations {
			allocated += a.Amount
		}
		if held != allocated {
			return ErrUnbalancedSettlement
		}

		if err := s.ledger.MarkConsumed(ctx, ids); err != nil {
			return err
		}

		// The spend is final now: the payer's grade points grow by the
		// consumed amount.
		payer := domain.AccountRef{Type: outstanding[0].OwnerType, ID: outstanding[0].OwnerID}
		payerAccount, err := s.accounts.GetForUpdate(ctx, payer)
		if err != nil {
			return err
		}
		if payerAccount == nil {
			return ErrAccountNotFound
		}
		if err := s.accounts.UpdateBalance(ctx, payer, payerAccount.Points, payerAccount.GradePoints+held); err != nil {
			return err
		}

		for _, a := range allocations {
			account, err := s.accounts.GetForUpdate(ctx, a.Account)
			if err != nil {
				return err
			}
			if account == nil {
				return ErrAccountNotFound
			}
			credited := a.Amount + a.Bonus
			if err := s.accounts.UpdateBalance(ctx, a.Account, account.Points+credited, account.GradePoints+credited); err != nil {
				return err
			}

			transfer, err := s.ledger.CreateTransaction(ctx, &domain.PointTransaction{
				OwnerType:     a.Account.Type,
				OwnerID:       a.Account.ID,
				CounterType:   &payer.Type,
				CounterID:     &payer.ID,
				Type:          domain.TransactionTransfer,
				Amount:        credited,
				ReservationID: &reservationID,
				Description:   "reservation settlement",
			})
			if err != nil {
				return err
			}
			transfers = append(transfers, *transfer)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNoPendingFunds) && !errors.Is(err, ErrAlreadySettled) {
			zap.L().Error("failed to settle reservation", zap.Error(err), zap.Int("reservationID", reservationID))
		}
		return nil, err
	}
	return transfers, nil
}

// Refund returns any still-outstanding held amount to its payer. A
// reservation with nothing outstanding is a no-op, not an error.
func (s *Service) Refund(ctx context.Context, reservationID int) (*domain.PointTransaction, error) {
	var refund *domain.PointTransaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		pendings, err := s.ledger.FindByReservation(ctx, reservationID, domain.TransactionPending)
		if err != nil {
			return err
		}
		outstanding := unconsumed(pendings)
		if len(outstanding) == 0 {
			return nil
		}

		var held int64
		ids := make([]int, 0, len(outstanding))
		for _, p := range outstanding {
			held += -p.Amount
			ids = append(ids, p.ID)
		}
		if err := s.ledger.MarkConsumed(ctx, ids); err != nil {
			return err
		}

		payer := domain.AccountRef{Type: outstanding[0].OwnerType, ID: outstanding[0].OwnerID}
		account, err := s.accounts.GetForUpdate(ctx, payer)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		if err := s.accounts.UpdateBalance(ctx, payer, account.Points+held, account.GradePoints); err != nil {
			return err
		}

		refund, err = s.ledger.CreateTransaction(ctx, &domain.PointTransaction{
			OwnerType:     payer.Type,
			OwnerID:       payer.ID,
			Type:          domain.TransactionConvert,
			Amount:        held,
			ReservationID: &reservationID,
			Description:   "reservation refund",
		})
		return err
	})
	if err != nil {
		zap.L().Error("failed to refund reservation", zap.Error(err), zap.Int("reservationID", reservationID))
		return nil, err
	}
	return refund, nil
}

// Convert applies a signed balance adjustment outside the hold/settle pair:
// payout debits, manual corrections. Negative adjustments respect the
// non-negative balance invariant.
func (s *Service) Convert(ctx context.Context, owner domain.AccountRef, amount int64, reservationID *int, description string) (*domain.PointTransaction, error) {
	var converted *domain.PointTransaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := s.accounts.GetForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		if amount < 0 && account.Points < -amount {
			return ErrInsufficientFunds
		}
		if err := s.accounts.UpdateBalance(ctx, owner, account.Points+amount, account.GradePoints); err != nil {
			return err
		}

		converted, err = s.ledger.CreateTransaction(ctx, &domain.PointTransaction{
			OwnerType:     owner.Type,
			OwnerID:       owner.ID,
			Type:          domain.TransactionConvert,
			Amount:        amount,
			ReservationID: reservationID,
			Description:   description,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			zap.L().Error("failed to convert points", zap.Error(err))
		}
		return nil, err
	}
	return converted, nil
}

// Gift moves points from a guest to a cast outside any reservation.
func (s *Service) Gift(ctx context.Context, guest, cast domain.AccountRef, amount int64, description string) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		guestAccount, err := s.accounts.GetForUpdate(ctx, guest)
		if err != nil {
			return err
		}
		if guestAccount == nil {
			return ErrAccountNotFound
		}
		if guestAccount.Points < amount {
			return ErrInsufficientFunds
		}
		if err := s.accounts.UpdateBalance(ctx, guest, guestAccount.Points-amount, guestAccount.GradePoints+amount); err != nil {
			return err
		}

		castAccount, err := s.accounts.GetForUpdate(ctx, cast)
		if err != nil {
			return err
		}
		if castAccount == nil {
			return ErrAccountNotFound
		}
		if err := s.accounts.UpdateBalance(ctx, cast, castAccount.Points+amount, castAccount.GradePoints+amount); err != nil {
			return err
		}

		if _, err := s.ledger.CreateTransaction(ctx, &domain.PointTransaction{
			OwnerType:   guest.Type,
			OwnerID:     guest.ID,
			CounterType: &cast.Type,
			CounterID:   &cast.ID,
			Type:        domain.TransactionGift,
			Amount:      -amount,
			Description: description,
		}); err != nil {
			return err
		}
		_, err = s.ledger.CreateTransaction(ctx, &domain.PointTransaction{
			OwnerType:   cast.Type,
			OwnerID:     cast.ID,
			CounterType: &guest.Type,
			CounterID:   &guest.ID,
			Type:        domain.TransactionGift,
			Amount:      amount,
			Description: description,
		})
		return err
	})
}

func unconsumed(transactions []domain.PointTransaction) []domain.PointTransaction {
	var out []domain.PointTransaction
	for _, t := range transactions {
		if !t.Consumed {
			out = append(out, t)
		}
	}
	return out
}
