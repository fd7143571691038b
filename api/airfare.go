package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arpangb16/Prometheus-travel-planner/internal/amadeus"
	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
	"github.com/arpangb16/Prometheus-travel-planner/internal/repository"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/search"
)

const dateLayout = "2006-01-02"

type AirfareHandler struct {
	service search.SearchUseCase
}

type oneWayRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	Passengers    int    `json:"passengers" binding:"omitempty,min=1,max=9"`
	CabinClass    string `json:"cabin_class"`
}

type returnRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date" binding:"required"`
	Passengers    int    `json:"passengers" binding:"omitempty,min=1,max=9"`
	CabinClass    string `json:"cabin_class"`
}

type segmentRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
}

type multiCityRequest struct {
	Segments   []segmentRequest `json:"segments" binding:"required,min=2,dive"`
	Passengers int              `json:"passengers" binding:"omitempty,min=1,max=9"`
	CabinClass string           `json:"cabin_class"`
}

func NewAirfareHandler(service search.SearchUseCase) *AirfareHandler {
	return &AirfareHandler{service: service}
}

func (h *AirfareHandler) Register(router *gin.RouterGroup) {
	router.POST("/search/one-way", h.searchOneWay)
	router.POST("/search/return", h.searchReturn)
	router.POST("/search/multi-city", h.searchMultiCity)
	router.GET("/searches", h.history)
	router.GET("/searches/:id", h.get)
}

func (h *AirfareHandler) searchOneWay(c *gin.Context) {
	var req oneWayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departure, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date, expected YYYY-MM-DD"})
		return
	}

	h.runSearch(c, domain.SearchQuery{
		Type:          domain.TripTypeOneWay,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departure,
		Passengers:    defaultPassengers(req.Passengers),
		CabinClass:    defaultCabin(req.CabinClass),
	})
}

func (h *AirfareHandler) searchReturn(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departure, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_date, expected YYYY-MM-DD"})
		return
	}
	returnDate, err := time.Parse(dateLayout, req.ReturnDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid return_date, expected YYYY-MM-DD"})
		return
	}
	if returnDate.Before(departure) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must not be before departure_date"})
		return
	}

	h.runSearch(c, domain.SearchQuery{
		Type:          domain.TripTypeReturn,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		Passengers:    defaultPassengers(req.Passengers),
		CabinClass:    defaultCabin(req.CabinClass),
	})
}

func (h *AirfareHandler) searchMultiCity(c *gin.Context) {
	var req multiCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	legs := make([]domain.Leg, 0, len(req.Segments))
	for _, seg := range req.Segments {
		departure, err := time.Parse(dateLayout, seg.DepartureDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segment departure_date, expected YYYY-MM-DD"})
			return
		}
		legs = append(legs, domain.Leg{
			Origin:        seg.Origin,
			Destination:   seg.Destination,
			DepartureDate: departure,
		})
	}

	h.runSearch(c, domain.SearchQuery{
		Type:       domain.TripTypeMultiCity,
		Legs:       legs,
		Passengers: defaultPassengers(req.Passengers),
		CabinClass: defaultCabin(req.CabinClass),
	})
}

func (h *AirfareHandler) runSearch(c *gin.Context, q domain.SearchQuery) {
	tripID, err := optionalTripID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip_id"})
		return
	}

	user := currentUser(c)
	record, err := h.service.Search(c.Request.Context(), user.ID, tripID, q)
	if err != nil {
		status := searchErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *AirfareHandler) history(c *gin.Context) {
	tripID, err := optionalTripID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip_id"})
		return
	}

	user := currentUser(c)
	searches, err := h.service.History(c.Request.Context(), user.ID, tripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, searches)
}

func (h *AirfareHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	user := currentUser(c)
	record, err := h.service.GetSearch(c.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "search not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// searchErrorStatus maps the provider's typed failures onto HTTP statuses.
// The error text already combines the failure kind with provider detail.
func searchErrorStatus(err error) int {
	var authErr *amadeus.AuthError
	var transportErr *amadeus.TransportError
	var noDataErr *amadeus.NoDataError

	switch {
	case errors.As(err, &authErr):
		return http.StatusBadGateway
	case errors.As(err, &transportErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &noDataErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func optionalTripID(c *gin.Context) (*int64, error) {
	raw := c.Query("trip_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func defaultPassengers(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func defaultCabin(cabin string) string {
	if cabin == "" {
		return "economy"
	}
	return cabin
}
