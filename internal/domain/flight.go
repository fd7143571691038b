package domain

import "time"

type TripType string

const (
	TripTypeOneWay    TripType = "one-way"
	TripTypeReturn    TripType = "return"
	TripTypeMultiCity TripType = "multi-city"
)

// FlightOption is one bookable flight offer. Options are built fresh per
// search and never mutated afterwards.
type FlightOption struct {
	AirlineCode   string    `json:"airline_code"`
	Airline       string    `json:"airline"`
	FlightNumber  string    `json:"flight_number"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Duration      string    `json:"duration"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Stops         int       `json:"stops"`
	CabinClass    string    `json:"cabin_class"`
}

// Leg is one origin/destination/date triple of a multi-city query. Each leg
// is searched as an independent one-way trip.
type Leg struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate time.Time `json:"departure_date"`
}

// SearchQuery is a validated airfare query. Origin/Destination and the date
// fields describe one-way and return trips; Legs is set for multi-city
// queries instead.
type SearchQuery struct {
	Type          TripType
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	Legs          []Leg
	Passengers    int
	CabinClass    string
}

// SearchResult holds price-sorted flight options. Flights is set for one-way
// searches; Outbound and Return are each independently sorted for return
// trips.
type SearchResult struct {
	Flights  []FlightOption `json:"flights,omitempty"`
	Outbound []FlightOption `json:"outbound,omitempty"`
	Return   []FlightOption `json:"return,omitempty"`
}

// LegResult pairs one multi-city leg with its options, preserving query leg
// order. Error carries the per-leg failure message when the leg could not be
// searched and no fallback was substituted.
type LegResult struct {
	Leg     Leg            `json:"leg"`
	Flights []FlightOption `json:"flights,omitempty"`
	Error   string         `json:"error,omitempty"`
}
