package models

import "time"

// Booking statuses.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
	BookingNoShow    = "NO_SHOW"
)

// Booking sources.
const (
	SourceMobileApp = "MOBILE_APP"
	SourceWeb       = "WEB"
	SourceDirect    = "DIRECT"
	SourcePhone     = "PHONE"
	SourceWalkIn    = "WALK_IN"
)

// Payment statuses as seen by the booking core. Settlement is reported by
// the external payment collaborator; the core never computes it.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Booking is the authoritative record of seat ownership for a trip. At
// most one booking in {PENDING, CONFIRMED} may exist per (trip, seat);
// the storage layer enforces this with a unique key.
type Booking struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	CompanyID int64  `json:"companyId"`
	TripID    int64  `json:"tripId"`
	SeatID    int64  `json:"seatId"`
	UserID    int64  `json:"userId"`

	PassengerName  string `json:"passengerName"`
	PassengerPhone string `json:"passengerPhone"`
	PassengerEmail string `json:"passengerEmail,omitempty"`

	Status        string `json:"status"`
	Source        string `json:"source"`
	PaymentStatus string `json:"paymentStatus"`

	BaseFare    float64 `json:"baseFare"`
	SeatFee     float64 `json:"seatFee"`
	ServiceFee  float64 `json:"serviceFee"`
	TotalAmount float64 `json:"totalAmount"`

	CreatedAt   time.Time  `json:"createdAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// Active reports whether the booking currently occupies its seat.
func (b Booking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Cancellation captures the outcome of a booking cancellation: who, why,
// and the fee/refund split computed from company policy.
type Cancellation struct {
	ID              int64     `json:"id"`
	BookingID       int64     `json:"bookingId"`
	Reason          string    `json:"reason"`
	CancelledBy     int64     `json:"cancelledBy"`
	CancellationFee float64   `json:"cancellationFee"`
	RefundAmount    float64   `json:"refundAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TicketSnapshot is the read-only view handed to the notification
// collaborator once a booking reaches CONFIRMED.
type TicketSnapshot struct {
	Reference      string    `json:"reference"`
	PassengerName  string    `json:"passengerName"`
	PassengerPhone string    `json:"passengerPhone"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	SeatNumber     string    `json:"seatNumber"`
	DepartureAt    time.Time `json:"departureAt"`
	TotalAmount    float64   `json:"totalAmount"`
}
