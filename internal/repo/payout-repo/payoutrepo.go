package payoutrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	query := `
        INSERT INTO payments (user_id, user_type, amount, status, payment_method, processor_ref, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, p.UserID, p.UserType, p.Amount, p.Status, p.PaymentMethod, p.ProcessorRef, p.Metadata).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		zap.L().Error("can't create payment", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int, status string) error {
	query := `
        UPDATE payments
        SET status = $1, updated_at = now()
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("can't update payment status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) SetProcessorRef(ctx context.Context, paymentID int, ref string) error {
	query := `
        UPDATE payments
        SET processor_ref = $1, updated_at = now()
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, ref, paymentID)
	if err != nil {
		zap.L().Error("can't set processor reference", zap.Error(err))
		return err
	}
	return nil
}

const paymentColumns = `id, user_id, user_type, amount, status, payment_method, processor_ref, metadata, created_at, updated_at`

func (r *Repository) GetPaymentByProcessorRef(ctx context.Context, ref string) (*domain.Payment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE processor_ref = $1
    `
	row := r.db.QueryRow(ctx, query, ref)
	var p domain.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.UserType, &p.Amount, &p.Status, &p.PaymentMethod, &p.ProcessorRef, &p.Metadata, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get payment by processor ref", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

const payoutColumns = `id, cast_id, amount, fee, status, type, payment_id, destination, memo, requested_at, closed_at`

func (r *Repository) CreatePayout(ctx context.Context, p *domain.CastPayout) (*domain.CastPayout, error) {
	query := `
        INSERT INTO cast_payouts (cast_id, amount, fee, status, type, payment_id, destination, memo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, requested_at
    `
	err := r.db.QueryRow(ctx, query, p.CastID, p.Amount, p.Fee, p.Status, p.Type, p.PaymentID, p.Destination, p.Memo).
		Scan(&p.ID, &p.RequestedAt)
	if err != nil {
		zap.L().Error("can't create payout", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) GetPayoutByPaymentID(ctx context.Context, paymentID int) (*domain.CastPayout, error) {
	query := `
        SELECT ` + payoutColumns + `
        FROM cast_payouts
        WHERE payment_id = $1
    `
	p, err := scanPayout(r.db.QueryRow(ctx, query, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get payout by payment id", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) UpdatePayoutStatus(ctx context.Context, id int, status string, closedAt *time.Time) error {
	query := `
        UPDATE cast_payouts
        SET status = $1, closed_at = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, status, closedAt, id)
	if err != nil {
		zap.L().Error("can't update payout status", zap.Error(err))
		return err
	}
	return nil
}

// SumActivePayoutsSince totals non-failed payouts of the given type in the
// period; it counts already-committed withdrawals against the instant
// eligibility window.
func (r *Repository) SumActivePayoutsSince(ctx context.Context, castID int, payoutType string, since time.Time) (int64, error) {
	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM cast_payouts
        WHERE cast_id = $1 AND type = $2 AND status <> 'failed' AND requested_at >= $3
    `
	var sum int64
	if err := r.db.QueryRow(ctx, query, castID, payoutType, since).Scan(&sum); err != nil {
		zap.L().Error("can't sum payouts", zap.Error(err))
		return 0, err
	}
	return sum, nil
}

func (r *Repository) FindForSubmission(ctx context.Context, limit int) ([]domain.CastPayout, error) {
	query := `
        SELECT ` + payoutColumns + `
        FROM cast_payouts
        WHERE status = 'requested' AND type = 'scheduled'
        ORDER BY requested_at ASC
        LIMIT $1
    `
	return r.findPayouts(ctx, query, limit)
}

// FindStuckProcessing returns payouts whose processor confirmation never
// arrived before the cutoff; the poller fails them so nothing stays
// processing indefinitely.
func (r *Repository) FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]domain.CastPayout, error) {
	query := `
        SELECT ` + payoutColumns + `
        FROM cast_payouts
        WHERE status = 'processing' AND requested_at < $1
        ORDER BY requested_at ASC
    `
	return r.findPayouts(ctx, query, cutoff)
}

func (r *Repository) findPayouts(ctx context.Context, query string, args ...any) ([]domain.CastPayout, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get payouts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.CastPayout
	for rows.Next() {
		var p domain.CastPayout
		err := rows.Scan(&p.ID, &p.CastID, &p.Amount, &p.Fee, &p.Status, &p.Type, &p.PaymentID, &p.Destination, &p.Memo, &p.RequestedAt, &p.ClosedAt)
		if err != nil {
			zap.L().Error("can't scan payout row", zap.Error(err))
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, nil
}

func scanPayout(row pgx.Row) (*domain.CastPayout, error) {
	var p domain.CastPayout
	err := row.Scan(&p.ID, &p.CastID, &p.Amount, &p.Fee, &p.Status, &p.Type, &p.PaymentID, &p.Destination, &p.Memo, &p.RequestedAt, &p.ClosedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
