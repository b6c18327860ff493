package outboxrepo

import (
	"context"
	"encoding/json"

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

// Enqueue records a side-effect intent. It is called inside the financial
// transaction so the intent commits or rolls back together with the writes
// that produced it.
func (r *Repository) Enqueue(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("can't marshal side effect payload", zap.Error(err))
		return err
	}
	query := `
        INSERT INTO side_effects (kind, payload, status)
        VALUES ($1, $2, 'pending')
    `
	_, err = r.db.Exec(ctx, query, kind, body)
	if err != nil {
		zap.L().Error("can't enqueue side effect", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindPending(ctx context.Context, limit int) ([]domain.SideEffect, error) {
	query := `
        SELECT id, kind, payload, status, attempts, created_at, sent_at
        FROM side_effects
        WHERE status = 'pending'
        ORDER BY created_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get pending side effects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var effects []domain.SideEffect
	for rows.Next() {
		var e domain.SideEffect
		err := rows.Scan(&e.ID, &e.Kind, &e.Payload, &e.Status, &e.Attempts, &e.CreatedAt, &e.SentAt)
		if err != nil {
			zap.L().Error("can't scan side effect row", zap.Error(err))
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}

func (r *Repository) MarkSent(ctx context.Context, id int) error {
	query := `
        UPDATE side_effects
        SET status = 'sent', sent_at = now()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't mark side effect sent", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) MarkFailed(ctx context.Context, id, attempts int) error {
	query := `
        UPDATE side_effects
        SET status = 'failed', attempts = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, attempts, id)
	if err != nil {
		zap.L().Error("can't mark side effect failed", zap.Error(err))
		return err
	}
	return nil
}
