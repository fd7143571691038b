package amadeus

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

const (
	offersPath = "/v2/shopping/flight-offers"

	// Results per request are capped to keep responses small.
	maxOffers = 10
)

// searchRequest is one outbound request descriptor addressed to the offer
// search endpoint.
type searchRequest struct {
	path   string
	params url.Values
}

// buildRequests maps a query onto provider request descriptors. One-way and
// return queries yield exactly one request; a return query carries both dates
// and the provider answers with combined round-trip offers. Multi-city
// queries yield one independent one-way request per leg, in leg order.
func buildRequests(q domain.SearchQuery) []searchRequest {
	if q.Type == domain.TripTypeMultiCity {
		reqs := make([]searchRequest, 0, len(q.Legs))
		for _, leg := range q.Legs {
			reqs = append(reqs, buildRequests(domain.SearchQuery{
				Type:          domain.TripTypeOneWay,
				Origin:        leg.Origin,
				Destination:   leg.Destination,
				DepartureDate: leg.DepartureDate,
				Passengers:    q.Passengers,
				CabinClass:    q.CabinClass,
			})...)
		}
		return reqs
	}

	params := url.Values{}
	params.Set("originLocationCode", strings.ToUpper(q.Origin))
	params.Set("destinationLocationCode", strings.ToUpper(q.Destination))
	params.Set("departureDate", q.DepartureDate.Format("2006-01-02"))
	if q.Type == domain.TripTypeReturn {
		params.Set("returnDate", q.ReturnDate.Format("2006-01-02"))
	}
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("max", strconv.Itoa(maxOffers))
	if tc := travelClass(q.CabinClass); tc != "" {
		params.Set("travelClass", tc)
	}

	return []searchRequest{{path: offersPath, params: params}}
}

func travelClass(cabin string) string {
	switch strings.ToLower(cabin) {
	case "", "economy":
		return "ECONOMY"
	case "premium", "premium_economy":
		return "PREMIUM_ECONOMY"
	case "business":
		return "BUSINESS"
	case "first":
		return "FIRST"
	default:
		return ""
	}
}
