package actorrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.Actor, error) {
	var actor domain.Actor
	err := repo.db.QueryRow(ctx, "SELECT id, actor_type, login, password_hash FROM actors WHERE login = $1", login).
		Scan(&actor.ID, &actor.ActorType, &actor.Login, &actor.PasswordHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find actor", zap.Error(err))
		return nil, err
	}
	return &actor, nil
}

func (repo *Repository) Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error) {
	query := `
		INSERT INTO actors (actor_type, login, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := repo.db.QueryRow(ctx, query, actor.ActorType, actor.Login, actor.PasswordHash).Scan(&actor.ID)
	if err != nil {
		zap.L().Error("can't save actor", zap.Error(err))
		return nil, err
	}
	return actor, nil
}
