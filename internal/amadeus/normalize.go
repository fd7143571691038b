package amadeus

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

// offersResponse mirrors the provider payload for GET /v2/shopping/flight-offers.
type offersResponse struct {
	Data   []offer    `json:"data"`
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type offer struct {
	Price       offerPrice  `json:"price"`
	Itineraries []itinerary `json:"itineraries"`
}

type offerPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type itinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Departure   flightPoint `json:"departure"`
	Arrival     flightPoint `json:"arrival"`
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
}

type flightPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

// normalize flattens the provider's nested offer structure into price-sorted
// flight options. For round-trip offers the provider pairs itineraries
// positionally: itineraries[0] is the outbound leg, itineraries[1] the
// return leg, and the offer price covers the pair. The normalizer cannot
// verify that contract, only rely on it.
//
// Offers with an unparseable price or timestamp are skipped individually; a
// response with no usable offers at all yields *NoDataError carrying any
// provider-supplied error detail.
func normalize(body []byte, isReturn bool, cabin string) (*domain.SearchResult, error) {
	var resp offersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &NoDataError{Detail: fmt.Sprintf("unrecognized response: %v", err)}
	}
	if len(resp.Data) == 0 {
		return nil, &NoDataError{Detail: errorDetail(resp.Errors)}
	}

	result := &domain.SearchResult{}
	for _, o := range resp.Data {
		price, err := strconv.ParseFloat(o.Price.Total, 64)
		if err != nil || price < 0 {
			continue
		}
		currency := o.Price.Currency
		if currency == "" {
			currency = "USD"
		}

		if isReturn {
			if len(o.Itineraries) < 2 {
				continue
			}
			out, err := buildOption(o.Itineraries[0], price, currency, cabin)
			if err != nil {
				continue
			}
			ret, err := buildOption(o.Itineraries[1], price, currency, cabin)
			if err != nil {
				continue
			}
			result.Outbound = append(result.Outbound, out)
			result.Return = append(result.Return, ret)
			continue
		}

		if len(o.Itineraries) == 0 {
			continue
		}
		opt, err := buildOption(o.Itineraries[0], price, currency, cabin)
		if err != nil {
			continue
		}
		result.Flights = append(result.Flights, opt)
	}

	if len(result.Flights) == 0 && len(result.Outbound) == 0 {
		return nil, &NoDataError{Detail: errorDetail(resp.Errors)}
	}

	sortByPrice(result.Flights)
	sortByPrice(result.Outbound)
	sortByPrice(result.Return)
	return result, nil
}

// buildOption derives a flight option from one itinerary: departure from the
// first segment, arrival from the last, carrier and flight number from the
// first segment, stops = segments-1.
func buildOption(it itinerary, price float64, currency, cabin string) (domain.FlightOption, error) {
	if len(it.Segments) == 0 {
		return domain.FlightOption{}, fmt.Errorf("itinerary has no segments")
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]

	departure, err := parseFlightTime(first.Departure.At)
	if err != nil {
		return domain.FlightOption{}, fmt.Errorf("departure time %q: %w", first.Departure.At, err)
	}
	arrival, err := parseFlightTime(last.Arrival.At)
	if err != nil {
		return domain.FlightOption{}, fmt.Errorf("arrival time %q: %w", last.Arrival.At, err)
	}

	if cabin == "" {
		cabin = "economy"
	}

	return domain.FlightOption{
		AirlineCode:   first.CarrierCode,
		Airline:       airlineName(first.CarrierCode),
		FlightNumber:  first.CarrierCode + first.Number,
		Origin:        first.Departure.IataCode,
		Destination:   last.Arrival.IataCode,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Duration:      formatDuration(it.Duration),
		Price:         price,
		Currency:      currency,
		Stops:         len(it.Segments) - 1,
		CabinClass:    cabin,
	}, nil
}

// parseFlightTime accepts RFC3339 timestamps and the provider's zoneless
// local form "2006-01-02T15:04:05".
func parseFlightTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// formatDuration rewrites the provider's ISO 8601 duration ("PT6H30M") as
// "6h 30m". Values it cannot parse pass through unchanged.
func formatDuration(iso string) string {
	rest, ok := strings.CutPrefix(iso, "PT")
	if !ok {
		return iso
	}
	var hours, minutes int
	if h, tail, found := strings.Cut(rest, "H"); found {
		n, err := strconv.Atoi(h)
		if err != nil {
			return iso
		}
		hours = n
		rest = tail
	}
	if m, _, found := strings.Cut(rest, "M"); found {
		n, err := strconv.Atoi(m)
		if err != nil {
			return iso
		}
		minutes = n
	}
	if hours == 0 && minutes == 0 {
		return iso
	}
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func sortByPrice(options []domain.FlightOption) {
	// Stable keeps provider order for equal prices.
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Price < options[j].Price
	})
}

func errorDetail(errs []apiError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Detail != "" {
			parts = append(parts, e.Title+": "+e.Detail)
		} else {
			parts = append(parts, e.Title)
		}
	}
	return strings.Join(parts, "; ")
}
