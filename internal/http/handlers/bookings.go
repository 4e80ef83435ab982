package handlers

import (
	"net/http"

	"bookutu/internal/domain/models"
	"bookutu/internal/http/middleware"
	"bookutu/internal/services"
	"bookutu/internal/utils"

	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	TripID         int64  `json:"trip_id"`
	SeatID         int64  `json:"seat_id"`
	Seat           string `json:"seat"`
	PassengerName  string `json:"passenger_name"`
	PassengerPhone string `json:"passenger_phone"`
	PassengerEmail string `json:"passenger_email"`
	Source         string `json:"source"`
}

// POST /api/bookings
func (a API) CreateBooking(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Source == "" {
		req.Source = models.SourceMobileApp
	}

	b, err := a.bookings(c).Create(c.Request.Context(), services.CreateBookingInput{
		TripID:         req.TripID,
		SeatID:         req.SeatID,
		Seat:           req.Seat,
		UserID:         int64(rc.UserID),
		PassengerName:  req.PassengerName,
		PassengerPhone: req.PassengerPhone,
		PassengerEmail: req.PassengerEmail,
		Source:         req.Source,
	}, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// GET /api/bookings/:ref
func (a API) GetBooking(c *gin.Context) {
	b, cancellation, err := a.bookings(c).Get(c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	resp := gin.H{"booking": b}
	if cancellation != nil {
		resp["cancellation"] = cancellation
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/bookings — the caller's own bookings.
func (a API) ListMyBookings(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	list, err := a.bookings(c).ListByUser(int64(rc.UserID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// POST /api/bookings/:ref/confirm — explicit confirmation for cash and
// direct sales; payment must already be settled.
func (a API) ConfirmBooking(c *gin.Context) {
	b, err := a.bookings(c).Confirm(c.Param("ref"), utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// POST /api/bookings/:ref/cancel
func (a API) CancelBooking(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}

	res, err := a.bookings(c).Cancel(c.Request.Context(), c.Param("ref"), req.Reason, int64(rc.UserID), utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":          res.Booking,
		"cancellation_fee": res.Fee,
		"refund_amount":    res.Refund,
	})
}
