package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/withu0/pishatto-engine/internal/pg"
	accountrepo "github.com/withu0/pishatto-engine/internal/repo/account-repo"
	actorrepo "github.com/withu0/pishatto-engine/internal/repo/actor-repo"
	ledgerrepo "github.com/withu0/pishatto-engine/internal/repo/ledger-repo"
	outboxrepo "github.com/withu0/pishatto-engine/internal/repo/outbox-repo"
	payoutrepo "github.com/withu0/pishatto-engine/internal/repo/payout-repo"
	reservationrepo "github.com/withu0/pishatto-engine/internal/repo/reservation-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.ActorRepo)
	assert.NotNil(t, repo.AccountRepo)
	assert.NotNil(t, repo.LedgerRepo)
	assert.NotNil(t, repo.ReservationRepo)
	assert.NotNil(t, repo.PayoutRepo)
	assert.NotNil(t, repo.OutboxRepo)

	assert.IsType(t, &actorrepo.Repository{}, repo.ActorRepo)
	assert.IsType(t, &accountrepo.Repository{}, repo.AccountRepo)
	assert.IsType(t, &ledgerrepo.Repository{}, repo.LedgerRepo)
	assert.IsType(t, &reservationrepo.Repository{}, repo.ReservationRepo)
	assert.IsType(t, &payoutrepo.Repository{}, repo.PayoutRepo)
	assert.IsType(t, &outboxrepo.Repository{}, repo.OutboxRepo)

	assert.Equal(t, repo.PayoutRepo, repo.PayoutQueue)
	assert.Equal(t, repo.OutboxRepo, repo.EffectQueue)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
