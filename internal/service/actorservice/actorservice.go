package actorservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/pkg/auth"
)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.Actor, error)
	Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error)
}

type Ledger interface {
	CreateAccount(ctx context.Context, owner domain.AccountRef) (*domain.Account, error)
}

var (
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownActorType   = errors.New("unknown actor type")
)

type Service struct {
	actorRepo   Repo
	ledger      Ledger
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
}

func New(repo Repo, ledger Ledger, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		actorRepo:   repo,
		ledger:      ledger,
		hashService: hashService,
		jwtService:  jwtService,
	}
}

// Register creates the actor together with its point account. Admins carry
// no points and get no account.
func (s *Service) Register(ctx context.Context, login, password, actorType string) (*domain.Actor, error) {
	switch actorType {
	case domain.ActorGuest, domain.ActorCast, domain.ActorAdmin:
	default:
		return nil, ErrUnknownActorType
	}

	existing, err := s.actorRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find actor: ", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		zap.L().Info("actor already exists, login: ", zap.String("login", login))
		return nil, ErrLoginTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	actor, err := s.actorRepo.Create(ctx, &domain.Actor{
		ActorType:    actorType,
		Login:        login,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		zap.L().Error("can't create actor: ", zap.Error(err))
		return nil, err
	}

	if actorType != domain.ActorAdmin {
		owner := domain.AccountRef{Type: domain.OwnerType(actorType), ID: actor.ID}
		if _, err := s.ledger.CreateAccount(ctx, owner); err != nil {
			zap.L().Error("can't create account: ", zap.Error(err))
			return nil, err
		}
	}

	zap.L().Info("actor successfully registered", zap.String("login", login), zap.String("type", actorType))
	return actor, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.Actor, error) {
	actor, err := s.actorRepo.FindByLogin(ctx, login)
	if err != nil || actor == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(actor.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("actor successfully authenticated", zap.String("login", login))
	return actor, nil
}

func (s *Service) GenerateToken(actorID int, actorType string) (string, error) {
	expirationTime := time.Now().Add(15 * time.Minute)

	token, err := s.jwtService.GenerateJWT(actorID, actorType, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
