package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error)
	GetByID(ctx context.Context, id, userID int64) (*domain.Trip, error)
	Delete(ctx context.Context, id, userID int64) error
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

func (r *PGTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	return r.db.QueryRow(ctx, `INSERT INTO trips (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`, trip.UserID, trip.Name).
		Scan(&trip.ID, &trip.CreatedAt)
}

func (r *PGTripRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, name, created_at FROM trips WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *PGTripRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Trip, error) {
	var t domain.Trip
	err := r.db.QueryRow(ctx, `SELECT id, user_id, name, created_at FROM trips WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGTripRepository) Delete(ctx context.Context, id, userID int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Search history outlives its trip; detach instead of cascading.
	if _, err := tx.Exec(ctx, `UPDATE airfare_searches SET trip_id=NULL WHERE trip_id=$1 AND user_id=$2`, id, userID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM trips WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

var _ TripRepository = (*PGTripRepository)(nil)
