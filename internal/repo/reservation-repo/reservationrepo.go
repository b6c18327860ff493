package reservationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/domain"
	"github.com/withu0/pishatto-engine/internal/pg"
)

const uniqueViolationCode = "23505"

// ErrDuplicateApplication surfaces the UNIQUE(reservation_id, cast_id)
// violation when a cast applies to the same reservation twice.
var ErrDuplicateApplication = errors.New("application already exists")

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const reservationColumns = `id, guest_id, type, duration_hours, scheduled_at, started_at, ended_at, active, cast_id, cast_ids, points_earned, created_at`

func (r *Repository) CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	query := `
        INSERT INTO reservations (guest_id, type, duration_hours, scheduled_at, active)
        VALUES ($1, $2, $3, $4, TRUE)
        RETURNING ` + reservationColumns + `
    `
	row := r.db.QueryRow(ctx, query, res.GuestID, res.Type, res.DurationHours, res.ScheduledAt)
	created, err := scanReservation(row)
	if err != nil {
		zap.L().Error("can't create reservation", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetReservation(ctx context.Context, id int) (*domain.Reservation, error) {
	query := `
        SELECT ` + reservationColumns + `
        FROM reservations
        WHERE id = $1
    `
	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get reservation", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// SetWinner commits the winning cast set and closes the reservation to
// further applications in one statement.
func (r *Repository) SetWinner(ctx context.Context, id, castID int, castIDs []int) error {
	query := `
        UPDATE reservations
        SET active = FALSE, cast_id = $1, cast_ids = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, castID, castIDs, id)
	if err != nil {
		zap.L().Error("can't commit reservation winner", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) SetSettled(ctx context.Context, id int, pointsEarned int64, startedAt, endedAt time.Time) error {
	query := `
        UPDATE reservations
        SET points_earned = $1, started_at = $2, ended_at = $3
        WHERE id = $4
    `
	_, err := r.db.Exec(ctx, query, pointsEarned, startedAt, endedAt, id)
	if err != nil {
		zap.L().Error("can't record reservation settlement", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) MarkInactive(ctx context.Context, id int) error {
	query := `
        UPDATE reservations
        SET active = FALSE
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't mark reservation inactive", zap.Error(err))
		return err
	}
	return nil
}

const applicationColumns = `id, reservation_id, cast_id, status, applied_at, approved_at, rejected_at, rejected_by, rejection_reason`

func (r *Repository) CreateApplication(ctx context.Context, a *domain.ReservationApplication) (*domain.ReservationApplication, error) {
	query := `
        INSERT INTO reservation_applications (reservation_id, cast_id, status, applied_at)
        VALUES ($1, $2, 'pending', $3)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, a.ReservationID, a.CastID, a.AppliedAt).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrDuplicateApplication
		}
		zap.L().Error("can't create application", zap.Error(err))
		return nil, err
	}
	a.Status = domain.ApplicationPending
	return a, nil
}

func (r *Repository) GetApplication(ctx context.Context, id int) (*domain.ReservationApplication, error) {
	query := `
        SELECT ` + applicationColumns + `
        FROM reservation_applications
        WHERE id = $1
    `
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get application", zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (r *Repository) FindApplication(ctx context.Context, reservationID, castID int) (*domain.ReservationApplication, error) {
	query := `
        SELECT ` + applicationColumns + `
        FROM reservation_applications
        WHERE reservation_id = $1 AND cast_id = $2
    `
	app, err := scanApplication(r.db.QueryRow(ctx, query, reservationID, castID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find application", zap.Error(err))
		return nil, err
	}
	return app, nil
}

// ApproveApplication flips pending to approved. The status guard in the
// WHERE clause is the optimistic concurrency check: of two concurrent
// approvals exactly one sees a row.
func (r *Repository) ApproveApplication(ctx context.Context, id int) (bool, error) {
	query := `
        UPDATE reservation_applications
        SET status = 'approved', approved_at = now()
        WHERE id = $1 AND status = 'pending'
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't approve application", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) RejectApplication(ctx context.Context, id, adminID int, reason string) (bool, error) {
	query := `
        UPDATE reservation_applications
        SET status = 'rejected', rejected_at = now(), rejected_by = $1, rejection_reason = $2
        WHERE id = $3 AND status = 'pending'
    `
	tag, err := r.db.Exec(ctx, query, adminID, reason, id)
	if err != nil {
		zap.L().Error("can't reject application", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RejectOtherPending rejects every still-pending application on the
// reservation except the kept casts, returning the affected cast ids so the
// caller can fan out notifications.
func (r *Repository) RejectOtherPending(ctx context.Context, reservationID int, keepCastIDs []int, adminID int, reason string) ([]int, error) {
	query := `
        UPDATE reservation_applications
        SET status = 'rejected', rejected_at = now(), rejected_by = $1, rejection_reason = $2
        WHERE reservation_id = $3 AND status = 'pending' AND NOT (cast_id = ANY($4))
        RETURNING cast_id
    `
	rows, err := r.db.Query(ctx, query, adminID, reason, reservationID, keepCastIDs)
	if err != nil {
		zap.L().Error("can't reject sibling applications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var castIDs []int
	for rows.Next() {
		var castID int
		if err := rows.Scan(&castID); err != nil {
			zap.L().Error("can't scan rejected cast id", zap.Error(err))
			return nil, err
		}
		castIDs = append(castIDs, castID)
	}
	return castIDs, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(&res.ID, &res.GuestID, &res.Type, &res.DurationHours, &res.ScheduledAt,
		&res.StartedAt, &res.EndedAt, &res.Active, &res.CastID, &res.CastIDs, &res.PointsEarned, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanApplication(row pgx.Row) (*domain.ReservationApplication, error) {
	var app domain.ReservationApplication
	err := row.Scan(&app.ID, &app.ReservationID, &app.CastID, &app.Status, &app.AppliedAt,
		&app.ApprovedAt, &app.RejectedAt, &app.RejectedBy, &app.RejectionReason)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
