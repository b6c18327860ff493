package ledgerrepo

import (
	"context"
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

const transactionColumns = `id, owner_type, owner_id, counter_type, counter_id, type, amount, reservation_id, description, consumed, created_at`

func (r *Repository) CreateTransaction(ctx context.Context, t *domain.PointTransaction) (*domain.PointTransaction, error) {
	query := `
        INSERT INTO point_transactions (owner_type, owner_id, counter_type, counter_id, type, amount, reservation_id, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.OwnerType, t.OwnerID, t.CounterType, t.CounterID, t.Type, t.Amount, t.ReservationID, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		zap.L().Error("can't save point transaction", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) FindByReservation(ctx context.Context, reservationID int, txType string) ([]domain.PointTransaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM point_transactions
        WHERE reservation_id = $1 AND type = $2
        ORDER BY id ASC
    `
	rows, err := r.db.Query(ctx, query, reservationID, txType)
	if err != nil {
		zap.L().Error("can't get transactions for reservation", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *Repository) MarkConsumed(ctx context.Context, ids []int) error {
	query := `
        UPDATE point_transactions
        SET consumed = TRUE
        WHERE id = ANY($1)
    `
	_, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		zap.L().Error("can't mark transactions consumed", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByOwner(ctx context.Context, owner domain.AccountRef, limit int) ([]domain.PointTransaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM point_transactions
        WHERE owner_type = $1 AND owner_id = $2
        ORDER BY created_at DESC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, owner.Type, owner.ID, limit)
	if err != nil {
		zap.L().Error("can't get transactions for owner", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SumTransfersSince totals the earning credits of a cast inside the current
// settlement period; the payout service prices instant withdrawals off it.
func (r *Repository) SumTransfersSince(ctx context.Context, castID int, since time.Time) (int64, error) {
	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM point_transactions
        WHERE owner_type = 'cast' AND owner_id = $1 AND type = 'transfer' AND created_at >= $2
    `
	var sum int64
	if err := r.db.QueryRow(ctx, query, castID, since).Scan(&sum); err != nil {
		zap.L().Error("can't sum transfer transactions", zap.Error(err))
		return 0, err
	}
	return sum, nil
}

func scanTransactions(rows pgx.Rows) ([]domain.PointTransaction, error) {
	var transactions []domain.PointTransaction
	for rows.Next() {
		var t domain.PointTransaction
		err := rows.Scan(&t.ID, &t.OwnerType, &t.OwnerID, &t.CounterType, &t.CounterID, &t.Type, &t.Amount, &t.ReservationID, &t.Description, &t.Consumed, &t.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan point transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}
