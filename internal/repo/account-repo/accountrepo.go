package accountrepo

import (
	"context"
	"errors"

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

func (r *Repository) Get(ctx context.Context, owner domain.AccountRef) (*domain.Account, error) {
	query := `
        SELECT id, owner_type, owner_id, points, grade_points, grade
        FROM accounts
        WHERE owner_type = $1 AND owner_id = $2
    `
	return r.scanOne(ctx, query, owner)
}

// GetForUpdate takes a row lock on the account. Callers must already be
// inside a transaction; the lock is what serializes concurrent balance
// mutations against the same account.
func (r *Repository) GetForUpdate(ctx context.Context, owner domain.AccountRef) (*domain.Account, error) {
	query := `
        SELECT id, owner_type, owner_id, points, grade_points, grade
        FROM accounts
        WHERE owner_type = $1 AND owner_id = $2
        FOR UPDATE
    `
	return r.scanOne(ctx, query, owner)
}

func (r *Repository) scanOne(ctx context.Context, query string, owner domain.AccountRef) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, query, owner.Type, owner.ID)
	var account domain.Account
	err := row.Scan(&account.ID, &account.OwnerType, &account.OwnerID, &account.Points, &account.GradePoints, &account.Grade)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) Create(ctx context.Context, owner domain.AccountRef) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (owner_type, owner_id, points, grade_points, grade)
        VALUES ($1, $2, 0, 0, 'bronze')
        RETURNING id, owner_type, owner_id, points, grade_points, grade
    `
	row := r.db.QueryRow(ctx, query, owner.Type, owner.ID)
	var account domain.Account
	err := row.Scan(&account.ID, &account.OwnerType, &account.OwnerID, &account.Points, &account.GradePoints, &account.Grade)
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, owner domain.AccountRef, points, gradePoints int64) error {
	query := `
        UPDATE accounts
        SET points = $1, grade_points = $2
        WHERE owner_type = $3 AND owner_id = $4
    `
	_, err := r.db.Exec(ctx, query, points, gradePoints, owner.Type, owner.ID)
	if err != nil {
		zap.L().Error("failed to update account balance", zap.Error(err))
		return err
	}
	return nil
}
