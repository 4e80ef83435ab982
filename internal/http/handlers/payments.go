package handlers

import (
	"net/http"
	"strings"

	"bookutu/internal/utils"

	"github.com/gin-gonic/gin"
)

// paymentWebhookRequest is the settlement event shape from the payment
// collaborator. Status is "settled" or "failed".
type paymentWebhookRequest struct {
	BookingRef string  `json:"booking_ref"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	GatewayID  string  `json:"gateway_id"`
	Reason     string  `json:"reason"`
}

// POST /api/payments/webhook
func (a API) PaymentWebhook(c *gin.Context) {
	var req paymentWebhookRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.BookingRef) == "" {
		RespondError(c, http.StatusBadRequest, "booking_ref is required", nil)
		return
	}

	now := utils.NowUTC()
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case "settled", "completed", "paid":
		b, err := a.bookings(c).OnPaymentSettled(req.BookingRef, req.Amount, req.Method, req.GatewayID, now)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"booking": b})
	case "failed":
		if err := a.bookings(c).OnPaymentFailed(req.BookingRef, req.Method, req.Reason, now); err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recorded": true})
	default:
		RespondError(c, http.StatusBadRequest, "unknown payment status", nil)
	}
}

// GET /api/payments/:reference — settlement record lookup.
func (a API) GetPayment(c *gin.Context) {
	p, err := a.bookings(c).Payment(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// GET /api/bookings/:ref/payments — every settlement attempt against the
// booking, oldest first.
func (a API) ListBookingPayments(c *gin.Context) {
	payments, err := a.bookings(c).Payments(c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
