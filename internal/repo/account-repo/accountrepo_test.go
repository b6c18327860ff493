package accountrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/withu0/pishatto-engine/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	owner := domain.Guest(1)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Account
	}{
		{
			name: "Existing account is returned",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "owner_type", "owner_id", "points", "grade_points", "grade"}).
					AddRow(1, domain.OwnerGuest, 1, int64(20000), int64(5000), domain.GradeBronze)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_type, owner_id, points, grade_points, grade FROM accounts WHERE owner_type = $1 AND owner_id = $2`)).
					WithArgs(domain.OwnerGuest, 1).
					WillReturnRows(rows)
			},
			result: &domain.Account{
				ID:          1,
				OwnerType:   domain.OwnerGuest,
				OwnerID:     1,
				Points:      20000,
				GradePoints: 5000,
				Grade:       domain.GradeBronze,
			},
		},
		{
			name: "Missing account returns nil",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_type, owner_id, points, grade_points, grade FROM accounts WHERE owner_type = $1 AND owner_id = $2`)).
					WithArgs(domain.OwnerGuest, 1).
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_type, owner_id, points, grade_points, grade FROM accounts WHERE owner_type = $1 AND owner_id = $2`)).
					WithArgs(domain.OwnerGuest, 1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Get(context.Background(), owner)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetForUpdate(t *testing.T) {
	repo, mock := NewMock(t)
	owner := domain.Cast(7)

	rows := pgxmock.NewRows([]string{"id", "owner_type", "owner_id", "points", "grade_points", "grade"}).
		AddRow(2, domain.OwnerCast, 7, int64(500), int64(30000), domain.GradeGold)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_type, owner_id, points, grade_points, grade FROM accounts WHERE owner_type = $1 AND owner_id = $2 FOR UPDATE`)).
		WithArgs(domain.OwnerCast, 7).
		WillReturnRows(rows)

	account, err := repo.GetForUpdate(context.Background(), owner)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), account.Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	owner := domain.Cast(7)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "New account starts empty at bronze",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "owner_type", "owner_id", "points", "grade_points", "grade"}).
					AddRow(2, domain.OwnerCast, 7, int64(0), int64(0), domain.GradeBronze)
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts (owner_type, owner_id, points, grade_points, grade) VALUES ($1, $2, 0, 0, 'bronze') RETURNING id, owner_type, owner_id, points, grade_points, grade`)).
					WithArgs(domain.OwnerCast, 7).
					WillReturnRows(rows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts (owner_type, owner_id, points, grade_points, grade) VALUES ($1, $2, 0, 0, 'bronze') RETURNING id, owner_type, owner_id, points, grade_points, grade`)).
					WithArgs(domain.OwnerCast, 7).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			account, err := repo.Create(context.Background(), owner)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, account)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.GradeBronze, account.Grade)
				assert.Zero(t, account.Points)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_UpdateBalance(t *testing.T) {
	repo, mock := NewMock(t)
	owner := domain.Guest(1)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Balance updated",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET points = $1, grade_points = $2 WHERE owner_type = $3 AND owner_id = $4`)).
					WithArgs(int64(11000), int64(5000), domain.OwnerGuest, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET points = $1, grade_points = $2 WHERE owner_type = $3 AND owner_id = $4`)).
					WithArgs(int64(11000), int64(5000), domain.OwnerGuest, 1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.UpdateBalance(context.Background(), owner, 11000, 5000)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
