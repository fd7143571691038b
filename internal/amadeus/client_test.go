package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

func newTestClient(t *testing.T, search http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"test-token","expires_in":1799}`))
	})
	mux.HandleFunc(offersPath, search)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tokens := NewTokenCache(srv.URL, "id", "secret", WithHTTPClient(srv.Client()))
	return NewClient(srv.URL, tokens, WithSearchHTTPClient(srv.Client()))
}

func TestClient_SearchSendsTokenAndParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "JFK", r.URL.Query().Get("originLocationCode"))
		assert.Equal(t, "LAX", r.URL.Query().Get("destinationLocationCode"))
		assert.Equal(t, "2", r.URL.Query().Get("adults"))
		w.Write([]byte(oneWayBody))
	})

	result, err := client.Search(context.Background(), domain.SearchQuery{
		Type:          domain.TripTypeOneWay,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Passengers:    2,
		CabinClass:    "economy",
	})

	require.NoError(t, err)
	require.Len(t, result.Flights, 3)
	assert.Equal(t, 289.99, result.Flights[0].Price)
}

func TestClient_SearchRejectedToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Search(context.Background(), domain.SearchQuery{
		Type:          domain.TripTypeOneWay,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Passengers:    1,
	})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestClient_SearchErrorBodySurfacesDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"status":400,"title":"INVALID DATE","detail":"Date/Time is in the past"}]}`))
	})

	_, err := client.Search(context.Background(), domain.SearchQuery{
		Type:          domain.TripTypeOneWay,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Passengers:    1,
	})

	var noData *NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Contains(t, noData.Detail, "Date/Time is in the past")
}

func TestClient_SearchTransportFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"test-token","expires_in":1799}`))
	}))
	t.Cleanup(tokenSrv.Close)

	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	searchSrv.Close()

	tokens := NewTokenCache(tokenSrv.URL, "id", "secret", WithHTTPClient(tokenSrv.Client()))
	client := NewClient(searchSrv.URL, tokens)

	_, err := client.Search(context.Background(), domain.SearchQuery{
		Type:          domain.TripTypeOneWay,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Passengers:    1,
	})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestClient_MultiCityNotSearchedDirectly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider should not be called")
	})

	_, err := client.Search(context.Background(), domain.SearchQuery{Type: domain.TripTypeMultiCity})
	assert.Error(t, err)
}
