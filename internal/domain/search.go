package domain

import (
	"encoding/json"
	"time"
)

// AirfareSearch is one persisted search-history record. Results holds the
// serialized SearchResult (or []LegResult for multi-city searches) exactly as
// returned to the caller.
type AirfareSearch struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"`
	TripID        *int64          `json:"trip_id,omitempty"`
	UserID        int64           `json:"user_id"`
	Type          TripType        `json:"search_type"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureDate time.Time       `json:"departure_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	Passengers    int             `json:"passengers"`
	Segments      []Leg           `json:"segments,omitempty"`
	Results       json.RawMessage `json:"results,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
