package trips

import (
	"context"
	"errors"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
	"github.com/arpangb16/Prometheus-travel-planner/internal/repository"
)

type TripUseCase interface {
	Create(ctx context.Context, userID int64, name string) (*domain.Trip, error)
	List(ctx context.Context, userID int64) ([]domain.Trip, error)
	Get(ctx context.Context, id, userID int64) (*domain.Trip, error)
	Delete(ctx context.Context, id, userID int64) error
}

type TripService struct {
	trips repository.TripRepository
}

func NewTripService(trips repository.TripRepository) *TripService {
	return &TripService{trips: trips}
}

func (s *TripService) Create(ctx context.Context, userID int64, name string) (*domain.Trip, error) {
	if name == "" {
		return nil, errors.New("trip name is required")
	}

	trip := &domain.Trip{UserID: userID, Name: name}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) List(ctx context.Context, userID int64) ([]domain.Trip, error) {
	return s.trips.ListByUser(ctx, userID)
}

func (s *TripService) Get(ctx context.Context, id, userID int64) (*domain.Trip, error) {
	return s.trips.GetByID(ctx, id, userID)
}

func (s *TripService) Delete(ctx context.Context, id, userID int64) error {
	return s.trips.Delete(ctx, id, userID)
}

var _ TripUseCase = (*TripService)(nil)
