package handlers

import (
	"net/http"

	"bookutu/internal/http/middleware"
	"bookutu/internal/utils"

	"github.com/gin-gonic/gin"
)

type reservationRequest struct {
	Seat string `json:"seat"`
}

// POST /api/trips/:id/reservations — place a 15-minute hold on a seat.
func (a API) Reserve(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc, ok := middleware.GetAuth(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	var req reservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	rv, err := a.reservations(c).Reserve(tripID, req.Seat, int64(rc.UserID), utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": rv})
}

// DELETE /api/trips/:id/reservations — release the caller's own hold.
func (a API) Release(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc, ok := middleware.GetAuth(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	var req reservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := a.reservations(c).Release(tripID, req.Seat, int64(rc.UserID)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}
