package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
	"github.com/arpangb16/Prometheus-travel-planner/internal/kafka"
	"github.com/arpangb16/Prometheus-travel-planner/internal/repository"
)

type SearchUseCase interface {
	Search(ctx context.Context, userID int64, tripID *int64, q domain.SearchQuery) (*domain.AirfareSearch, error)
	History(ctx context.Context, userID int64, tripID *int64) ([]domain.AirfareSearch, error)
	GetSearch(ctx context.Context, id, userID int64) (*domain.AirfareSearch, error)
}

// FlightProvider is the real flight-data source. Failures surface as the
// provider's typed errors.
type FlightProvider interface {
	Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error)
}

// FallbackGenerator synthesizes result-shaped data and never fails.
type FallbackGenerator interface {
	Generate(q domain.SearchQuery) *domain.SearchResult
}

type Cache interface {
	GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error)
	SetSearchResult(ctx context.Context, key string, result *domain.SearchResult) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SearchService coordinates token-backed provider searches, the fallback
// policy, result caching, search-history persistence and event publishing.
//
// Failure policy: provider errors are surfaced to the caller as typed errors.
// Only when the service is constructed with fallback enabled does any
// provider failure (auth, transport, no data) substitute synthetic options
// instead, uniformly across all query kinds.
type SearchService struct {
	provider        FlightProvider
	fallback        FallbackGenerator
	searches        repository.SearchRepository
	cache           Cache
	producer        Producer
	searchTopic     string
	fallbackOnError bool
}

type SearchServiceOption func(*SearchService)

// WithFallbackOnError substitutes synthetic options for any provider failure
// instead of surfacing the error.
func WithFallbackOnError() SearchServiceOption {
	return func(s *SearchService) { s.fallbackOnError = true }
}

func WithProducer(producer Producer, topic string) SearchServiceOption {
	return func(s *SearchService) {
		s.producer = producer
		s.searchTopic = topic
	}
}

func NewSearchService(
	provider FlightProvider,
	fallback FallbackGenerator,
	searches repository.SearchRepository,
	cache Cache,
	opts ...SearchServiceOption,
) *SearchService {
	service := &SearchService{
		provider: provider,
		fallback: fallback,
		searches: searches,
		cache:    cache,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *SearchService) Search(ctx context.Context, userID int64, tripID *int64, q domain.SearchQuery) (*domain.AirfareSearch, error) {
	var (
		payload      any
		optionCount  int
		fallbackUsed bool
	)

	switch q.Type {
	case domain.TripTypeMultiCity:
		legs, usedFallback := s.searchLegs(ctx, q)
		payload = legs
		fallbackUsed = usedFallback
		for _, l := range legs {
			optionCount += len(l.Flights)
		}
	default:
		result, usedFallback, err := s.resolve(ctx, q)
		if err != nil {
			return nil, err
		}
		payload = result
		fallbackUsed = usedFallback
		optionCount = len(result.Flights) + len(result.Outbound) + len(result.Return)
	}

	results, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode search results: %w", err)
	}

	record := buildRecord(userID, tripID, q, results)
	if err := s.searches.Create(ctx, record); err != nil {
		// History is best effort; the caller still gets the options.
		log.Printf("save search %s: %v", record.Reference, err)
	}

	s.publish(ctx, record, optionCount, fallbackUsed)
	return record, nil
}

func (s *SearchService) History(ctx context.Context, userID int64, tripID *int64) ([]domain.AirfareSearch, error) {
	return s.searches.ListByUser(ctx, userID, tripID)
}

func (s *SearchService) GetSearch(ctx context.Context, id, userID int64) (*domain.AirfareSearch, error) {
	return s.searches.GetByID(ctx, id, userID)
}

// resolve answers a one-way or return query from cache, the provider, or the
// fallback generator, per the failure policy.
func (s *SearchService) resolve(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, bool, error) {
	key := cacheKey(q)
	if s.cache != nil {
		if cached, err := s.cache.GetSearchResult(ctx, key); err == nil && cached != nil {
			return cached, false, nil
		}
	}

	result, err := s.provider.Search(ctx, q)
	if err != nil {
		if !s.fallbackOnError {
			return nil, false, err
		}
		log.Printf("provider search failed, substituting synthetic options: %v", err)
		return s.fallback.Generate(q), true, nil
	}

	if s.cache != nil {
		if err := s.cache.SetSearchResult(ctx, key, result); err != nil {
			log.Printf("cache search result: %v", err)
		}
	}
	return result, false, nil
}

// searchLegs searches multi-city legs in order, each as an independent
// one-way query. A failing leg carries its error (or fallback options, per
// policy) without affecting the other legs.
func (s *SearchService) searchLegs(ctx context.Context, q domain.SearchQuery) ([]domain.LegResult, bool) {
	legs := make([]domain.LegResult, 0, len(q.Legs))
	fallbackUsed := false

	for _, leg := range q.Legs {
		legQuery := domain.SearchQuery{
			Type:          domain.TripTypeOneWay,
			Origin:        leg.Origin,
			Destination:   leg.Destination,
			DepartureDate: leg.DepartureDate,
			Passengers:    q.Passengers,
			CabinClass:    q.CabinClass,
		}

		result, usedFallback, err := s.resolve(ctx, legQuery)
		if err != nil {
			legs = append(legs, domain.LegResult{Leg: leg, Error: err.Error()})
			continue
		}
		fallbackUsed = fallbackUsed || usedFallback
		legs = append(legs, domain.LegResult{Leg: leg, Flights: result.Flights})
	}

	return legs, fallbackUsed
}

func (s *SearchService) publish(ctx context.Context, record *domain.AirfareSearch, optionCount int, fallbackUsed bool) {
	if s.producer == nil || s.searchTopic == "" {
		return
	}
	event := kafka.SearchEvent{
		Type:          "search_completed",
		Reference:     record.Reference,
		UserID:        record.UserID,
		TripID:        record.TripID,
		SearchType:    string(record.Type),
		Origin:        record.Origin,
		Destination:   record.Destination,
		DepartureDate: record.DepartureDate,
		OptionCount:   optionCount,
		Fallback:      fallbackUsed,
		CreatedAt:     record.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.searchTopic, record.Reference, event); err != nil {
		log.Printf("publish search_completed for %s: %v", record.Reference, err)
	}
}

func buildRecord(userID int64, tripID *int64, q domain.SearchQuery, results json.RawMessage) *domain.AirfareSearch {
	record := &domain.AirfareSearch{
		Reference:     uuid.NewString(),
		TripID:        tripID,
		UserID:        userID,
		Type:          q.Type,
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.DepartureDate,
		Passengers:    q.Passengers,
		Results:       results,
	}

	if q.Type == domain.TripTypeReturn {
		ret := q.ReturnDate
		record.ReturnDate = &ret
	}
	if q.Type == domain.TripTypeMultiCity && len(q.Legs) > 0 {
		record.Origin = q.Legs[0].Origin
		record.Destination = q.Legs[len(q.Legs)-1].Destination
		record.DepartureDate = q.Legs[0].DepartureDate
		record.Segments = q.Legs
	}
	return record
}

func cacheKey(q domain.SearchQuery) string {
	returnDate := ""
	if q.Type == domain.TripTypeReturn {
		returnDate = q.ReturnDate.Format("2006-01-02")
	}
	return fmt.Sprintf("search:%s:%s:%s:%s:%s:%d:%s",
		q.Type, q.Origin, q.Destination, q.DepartureDate.Format("2006-01-02"), returnDate, q.Passengers, q.CabinClass)
}

var _ SearchUseCase = (*SearchService)(nil)
