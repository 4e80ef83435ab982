package models

import "time"

// Payment record statuses. These mirror what the external collaborator
// reports; the core only appends rows in response to settlement events.
const (
	PaymentRecordPending   = "PENDING"
	PaymentRecordCompleted = "COMPLETED"
	PaymentRecordFailed    = "FAILED"
)

// Payment methods.
const (
	MethodCash        = "CASH"
	MethodMobileMoney = "MOBILE_MONEY"
	MethodCard        = "CARD"
)

// Payment is one settlement report against a booking (one-to-many).
type Payment struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	BookingID int64     `json:"bookingId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	GatewayID string    `json:"gatewayId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
