package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bookutu/internal/domain/models"
	"bookutu/internal/http/middleware"
	"bookutu/internal/utils"

	"github.com/gin-gonic/gin"
)

type createTripRequest struct {
	CompanyID   int64   `json:"company_id"`
	VehicleID   int64   `json:"vehicle_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DepartureAt string  `json:"departure_at"`
	ArrivalAt   string  `json:"arrival_at"`
	BaseFare    float64 `json:"base_fare"`
}

// POST /api/trips
func (a API) CreateTrip(c *gin.Context) {
	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	departure, err := utils.ParseDateTime(req.DepartureAt)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid departure_at", err)
		return
	}
	arrival, err := utils.ParseDateTime(req.ArrivalAt)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid arrival_at", err)
		return
	}

	trip, err := a.trips(c).CreateTrip(models.Trip{
		CompanyID:   req.CompanyID,
		VehicleID:   req.VehicleID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: departure,
		ArrivalAt:   arrival,
		BaseFare:    req.BaseFare,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GET /api/trips/:id — trip details plus the cached remaining-seat count.
func (a API) GetTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	svc := a.trips(c)
	trip, err := svc.GetTrip(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	remaining, err := svc.RemainingSeats(c.Request.Context(), trip)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip, "remaining_seats": remaining})
}

// GET /api/trips?company_id=&origin=&destination=&date=
func (a API) SearchTrips(c *gin.Context) {
	companyID, err := strconv.ParseInt(c.Query("company_id"), 10, 64)
	if err != nil || companyID <= 0 {
		RespondError(c, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid date", err)
			return
		}
		date = &d
	}

	trips, err := a.trips(c).Search(companyID, c.Query("origin"), c.Query("destination"), date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id/seats — the full seat map with per-seat state and
// price.
func (a API) TripSeatAvailability(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var userID int64
	if rc, ok := middleware.GetAuth(c); ok {
		userID = int64(rc.UserID)
	}

	seats, err := a.trips(c).SeatAvailability(id, userID, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

type tripStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/trips/:id/status
func (a API) UpdateTripStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req tripStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := a.trips(c).UpdateStatus(id, req.Status); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "status": req.Status})
}

// GET /api/admin/trips/:id/bookings — the passenger manifest.
func (a API) TripManifest(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	list, err := a.bookings(c).ListByTrip(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "bookings": list})
}

// POST /api/admin/trips/:id/recount — rebuilds the booked_seats counter
// from the confirmed booking set.
func (a API) RecountTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	n, err := a.trips(c).Recount(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "booked_seats": n})
}

type tripPricingRequest struct {
	PeakMultiplier    float64 `json:"peak_multiplier"`
	DemandMultiplier  float64 `json:"demand_multiplier"`
	EarlyBirdDiscount float64 `json:"early_bird_discount"`
	EarlyBirdDays     int     `json:"early_bird_days"`
}

// PUT /api/admin/trips/:id/pricing — store the dynamic-pricing factors.
func (a API) SetTripPricing(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req tripPricingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	pricing, err := a.trips(c).SetPricing(id, models.TripPricing{
		PeakMultiplier:    req.PeakMultiplier,
		DemandMultiplier:  req.DemandMultiplier,
		EarlyBirdDiscount: req.EarlyBirdDiscount,
		EarlyBirdDays:     req.EarlyBirdDays,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricing": pricing})
}

// POST /api/admin/trips/:id/depart — close out the trip at departure.
func (a API) DepartTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := a.bookings(c).MarkDeparted(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "status": models.TripInTransit})
}
