package handlers

import (
	"net/http"

	"bookutu/internal/domain"
	"bookutu/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Seat
// contention (already booked, reserved by someone else) is a 409 so
// clients can offer another seat and retry.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsCapacityExceeded(err):
		respondError(c, http.StatusBadRequest, "capacity_exceeded", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsSeatAlreadyBooked(err):
		respondError(c, http.StatusConflict, "seat_already_booked", err.Error())
	case domain.IsSeatReserved(err):
		respondError(c, http.StatusConflict, "seat_reserved", err.Error())
	case domain.IsInvalidTransition(err):
		respondError(c, http.StatusConflict, "invalid_transition", err.Error())
	case domain.IsSeatMismatch(err):
		respondError(c, http.StatusUnprocessableEntity, "seat_mismatch", err.Error())
	case domain.IsTripNotBookable(err):
		respondError(c, http.StatusUnprocessableEntity, "trip_not_bookable", err.Error())
	case domain.IsInternal(err):
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
