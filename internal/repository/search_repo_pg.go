package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

type SearchRepository interface {
	Create(ctx context.Context, search *domain.AirfareSearch) error
	GetByID(ctx context.Context, id, userID int64) (*domain.AirfareSearch, error)
	ListByUser(ctx context.Context, userID int64, tripID *int64) ([]domain.AirfareSearch, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGSearchRepository struct {
	db *pgxpool.Pool
}

func NewSearchRepository(db *pgxpool.Pool) SearchRepository {
	return &PGSearchRepository{db: db}
}

func (r *PGSearchRepository) Create(ctx context.Context, search *domain.AirfareSearch) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO airfare_searches
		(reference, trip_id, user_id, search_type, origin, destination, departure_date, return_date, passengers, search_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		search.Reference, search.TripID, search.UserID, search.Type, search.Origin, search.Destination,
		search.DepartureDate, search.ReturnDate, search.Passengers, search.Results).
		Scan(&search.ID, &search.CreatedAt); err != nil {
		return err
	}

	for i, seg := range search.Segments {
		if _, err := tx.Exec(ctx, `INSERT INTO multi_city_segments
			(airfare_search_id, segment_order, origin, destination, departure_date)
			VALUES ($1, $2, $3, $4, $5)`,
			search.ID, i+1, seg.Origin, seg.Destination, seg.DepartureDate); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGSearchRepository) GetByID(ctx context.Context, id, userID int64) (*domain.AirfareSearch, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, trip_id, user_id, search_type, origin, destination, departure_date, return_date, passengers, search_results, created_at
		FROM airfare_searches WHERE id=$1 AND user_id=$2`, id, userID)
	s, err := scanSearch(row)
	if err != nil {
		return nil, err
	}

	segs, err := r.segments(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Segments = segs
	return s, nil
}

func (r *PGSearchRepository) ListByUser(ctx context.Context, userID int64, tripID *int64) ([]domain.AirfareSearch, error) {
	query := `SELECT id, reference, trip_id, user_id, search_type, origin, destination, departure_date, return_date, passengers, search_results, created_at
		FROM airfare_searches WHERE user_id=$1 ORDER BY created_at DESC`
	args := []any{userID}
	if tripID != nil {
		query = `SELECT id, reference, trip_id, user_id, search_type, origin, destination, departure_date, return_date, passengers, search_results, created_at
			FROM airfare_searches WHERE user_id=$1 AND trip_id=$2 ORDER BY created_at DESC`
		args = append(args, *tripID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := make([]domain.AirfareSearch, 0)
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	ids := multiCityIDs(searches)
	if len(ids) == 0 {
		return searches, nil
	}
	legs, err := r.segmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	attachSegments(searches, legs)
	return searches, nil
}

func (r *PGSearchRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM multi_city_segments WHERE airfare_search_id IN
		(SELECT id FROM airfare_searches WHERE created_at < $1)`, cutoff); err != nil {
		return 0, err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM airfare_searches WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), tx.Commit(ctx)
}

// segmentsFor loads the ordered legs for a batch of multi-city searches.
func (r *PGSearchRepository) segmentsFor(ctx context.Context, ids []int64) (map[int64][]domain.Leg, error) {
	rows, err := r.db.Query(ctx, `SELECT airfare_search_id, origin, destination, departure_date
		FROM multi_city_segments WHERE airfare_search_id = ANY($1)
		ORDER BY airfare_search_id, segment_order`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	legs := make(map[int64][]domain.Leg)
	for rows.Next() {
		var id int64
		var l domain.Leg
		if err := rows.Scan(&id, &l.Origin, &l.Destination, &l.DepartureDate); err != nil {
			return nil, err
		}
		legs[id] = append(legs[id], l)
	}
	return legs, rows.Err()
}

func multiCityIDs(searches []domain.AirfareSearch) []int64 {
	var ids []int64
	for _, s := range searches {
		if s.Type == domain.TripTypeMultiCity {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func attachSegments(searches []domain.AirfareSearch, legs map[int64][]domain.Leg) {
	for i := range searches {
		if searches[i].Type == domain.TripTypeMultiCity {
			searches[i].Segments = legs[searches[i].ID]
		}
	}
}

func (r *PGSearchRepository) segments(ctx context.Context, searchID int64) ([]domain.Leg, error) {
	rows, err := r.db.Query(ctx, `SELECT origin, destination, departure_date FROM multi_city_segments
		WHERE airfare_search_id=$1 ORDER BY segment_order`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var legs []domain.Leg
	for rows.Next() {
		var l domain.Leg
		if err := rows.Scan(&l.Origin, &l.Destination, &l.DepartureDate); err != nil {
			return nil, err
		}
		legs = append(legs, l)
	}
	return legs, rows.Err()
}

func scanSearch(row pgx.Row) (*domain.AirfareSearch, error) {
	var s domain.AirfareSearch
	err := row.Scan(&s.ID, &s.Reference, &s.TripID, &s.UserID, &s.Type, &s.Origin, &s.Destination,
		&s.DepartureDate, &s.ReturnDate, &s.Passengers, &s.Results, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var _ SearchRepository = (*PGSearchRepository)(nil)
