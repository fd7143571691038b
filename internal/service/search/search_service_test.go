package search

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arpangb16/Prometheus-travel-planner/internal/amadeus"
	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

type MockFallback struct {
	mock.Mock
}

func (m *MockFallback) Generate(q domain.SearchQuery) *domain.SearchResult {
	args := m.Called(q)
	return args.Get(0).(*domain.SearchResult)
}

type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) Create(ctx context.Context, search *domain.AirfareSearch) error {
	args := m.Called(ctx, search)
	return args.Error(0)
}

func (m *MockSearchRepository) GetByID(ctx context.Context, id, userID int64) (*domain.AirfareSearch, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AirfareSearch), args.Error(1)
}

func (m *MockSearchRepository) ListByUser(ctx context.Context, userID int64, tripID *int64) ([]domain.AirfareSearch, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AirfareSearch), args.Error(1)
}

func (m *MockSearchRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *MockCache) SetSearchResult(ctx context.Context, key string, result *domain.SearchResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func oneWayQuery() domain.SearchQuery {
	return domain.SearchQuery{
		Type:          domain.TripTypeOneWay,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Passengers:    2,
		CabinClass:    "economy",
	}
}

func sampleResult() *domain.SearchResult {
	return &domain.SearchResult{Flights: []domain.FlightOption{{
		AirlineCode:   "DL",
		Airline:       "Delta Air Lines",
		FlightNumber:  "DL423",
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2025, 6, 1, 11, 45, 0, 0, time.UTC),
		Duration:      "6h 15m",
		Price:         412.50,
		Currency:      "USD",
		Stops:         0,
		CabinClass:    "economy",
	}}}
}

func TestSearchService_OneWayPersistsAndPublishes(t *testing.T) {
	mockProvider := &MockProvider{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewSearchService(mockProvider, nil, mockRepo, mockCache,
		WithProducer(mockProducer, "airfare.search_completed"))

	ctx := context.Background()
	q := oneWayQuery()
	result := sampleResult()

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(nil, nil).Once()
	mockProvider.On("Search", ctx, q).Return(result, nil).Once()
	mockCache.On("SetSearchResult", ctx, mock.Anything, result).Return(nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AirfareSearch")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "airfare.search_completed", mock.Anything, mock.Anything).Return(nil).Once()

	record, err := service.Search(ctx, 1, nil, q)

	require.NoError(t, err)
	assert.NotEmpty(t, record.Reference)
	assert.Equal(t, domain.TripTypeOneWay, record.Type)
	assert.Equal(t, "JFK", record.Origin)
	assert.Equal(t, "LAX", record.Destination)
	assert.Equal(t, 2, record.Passengers)

	var stored domain.SearchResult
	require.NoError(t, json.Unmarshal(record.Results, &stored))
	assert.Equal(t, result.Flights, stored.Flights)

	mockProvider.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestSearchService_StrictModeSurfacesTypedError(t *testing.T) {
	mockProvider := &MockProvider{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}

	service := NewSearchService(mockProvider, nil, mockRepo, mockCache)

	ctx := context.Background()
	q := oneWayQuery()

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(nil, nil).Once()
	mockProvider.On("Search", ctx, q).Return(nil, &amadeus.NoDataError{Detail: "nothing flying"}).Once()

	_, err := service.Search(ctx, 1, nil, q)

	var noData *amadeus.NoDataError
	require.ErrorAs(t, err, &noData)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestSearchService_FallbackModeSubstitutesSyntheticOptions(t *testing.T) {
	mockProvider := &MockProvider{}
	mockFallback := &MockFallback{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}

	service := NewSearchService(mockProvider, mockFallback, mockRepo, mockCache, WithFallbackOnError())

	ctx := context.Background()
	q := oneWayQuery()
	synthetic := sampleResult()

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(nil, nil).Once()
	mockProvider.On("Search", ctx, q).Return(nil, &amadeus.AuthError{Detail: "client credentials not configured"}).Once()
	mockFallback.On("Generate", q).Return(synthetic).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AirfareSearch")).Return(nil).Once()

	record, err := service.Search(ctx, 1, nil, q)

	require.NoError(t, err)
	var stored domain.SearchResult
	require.NoError(t, json.Unmarshal(record.Results, &stored))
	assert.Equal(t, synthetic.Flights, stored.Flights)

	mockFallback.AssertExpectations(t)
}

func TestSearchService_CacheHitSkipsProvider(t *testing.T) {
	mockProvider := &MockProvider{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}

	service := NewSearchService(mockProvider, nil, mockRepo, mockCache)

	ctx := context.Background()
	q := oneWayQuery()

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(sampleResult(), nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AirfareSearch")).Return(nil).Once()

	_, err := service.Search(ctx, 1, nil, q)

	require.NoError(t, err)
	mockProvider.AssertNotCalled(t, "Search")
	mockCache.AssertNotCalled(t, "SetSearchResult")
}

func TestSearchService_MultiCityLegFailureIsIsolated(t *testing.T) {
	mockProvider := &MockProvider{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}

	service := NewSearchService(mockProvider, nil, mockRepo, mockCache)

	ctx := context.Background()
	legs := []domain.Leg{
		{Origin: "JFK", Destination: "ORD", DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Origin: "ORD", Destination: "DEN", DepartureDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{Origin: "DEN", Destination: "LAX", DepartureDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)},
	}
	q := domain.SearchQuery{
		Type:       domain.TripTypeMultiCity,
		Legs:       legs,
		Passengers: 1,
		CabinClass: "economy",
	}

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(nil, nil).Times(3)
	mockCache.On("SetSearchResult", ctx, mock.Anything, mock.Anything).Return(nil).Times(2)
	mockProvider.On("Search", ctx, mock.MatchedBy(func(lq domain.SearchQuery) bool {
		return lq.Origin == "ORD"
	})).Return(nil, &amadeus.TransportError{Op: "flight offers search"}).Once()
	mockProvider.On("Search", ctx, mock.MatchedBy(func(lq domain.SearchQuery) bool {
		return lq.Origin != "ORD"
	})).Return(sampleResult(), nil).Times(2)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AirfareSearch")).Return(nil).Once()

	record, err := service.Search(ctx, 1, nil, q)
	require.NoError(t, err)

	var results []domain.LegResult
	require.NoError(t, json.Unmarshal(record.Results, &results))
	require.Len(t, results, 3)

	assert.Equal(t, legs[0], results[0].Leg)
	assert.NotEmpty(t, results[0].Flights)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, legs[1], results[1].Leg)
	assert.Empty(t, results[1].Flights)
	assert.NotEmpty(t, results[1].Error)

	assert.Equal(t, legs[2], results[2].Leg)
	assert.NotEmpty(t, results[2].Flights)
	assert.Empty(t, results[2].Error)

	// Record metadata spans first origin to last destination.
	assert.Equal(t, "JFK", record.Origin)
	assert.Equal(t, "LAX", record.Destination)
	assert.Equal(t, legs, record.Segments)
}

func TestSearchService_SaveFailureStillReturnsOptions(t *testing.T) {
	mockProvider := &MockProvider{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}

	service := NewSearchService(mockProvider, nil, mockRepo, mockCache)

	ctx := context.Background()
	q := oneWayQuery()

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(nil, nil).Once()
	mockProvider.On("Search", ctx, q).Return(sampleResult(), nil).Once()
	mockCache.On("SetSearchResult", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AirfareSearch")).Return(assert.AnError).Once()

	record, err := service.Search(ctx, 1, nil, q)

	require.NoError(t, err)
	assert.NotEmpty(t, record.Results)
}

func TestSearchService_ReturnDateRecordedOnReturnTrips(t *testing.T) {
	mockProvider := &MockProvider{}
	mockRepo := &MockSearchRepository{}
	mockCache := &MockCache{}

	service := NewSearchService(mockProvider, nil, mockRepo, mockCache)

	ctx := context.Background()
	q := oneWayQuery()
	q.Type = domain.TripTypeReturn
	q.ReturnDate = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	result := &domain.SearchResult{
		Outbound: sampleResult().Flights,
		Return:   sampleResult().Flights,
	}

	mockCache.On("GetSearchResult", ctx, mock.Anything).Return(nil, nil).Once()
	mockProvider.On("Search", ctx, q).Return(result, nil).Once()
	mockCache.On("SetSearchResult", ctx, mock.Anything, result).Return(nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.AirfareSearch")).Return(nil).Once()

	record, err := service.Search(ctx, 1, nil, q)

	require.NoError(t, err)
	require.NotNil(t, record.ReturnDate)
	assert.Equal(t, q.ReturnDate, *record.ReturnDate)
}
