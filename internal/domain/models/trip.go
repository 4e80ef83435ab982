package models

import "time"

// Trip statuses.
const (
	TripScheduled = "SCHEDULED"
	TripBoarding  = "BOARDING"
	TripInTransit = "IN_TRANSIT"
	TripCompleted = "COMPLETED"
	TripCancelled = "CANCELLED"
	TripDelayed   = "DELAYED"
)

// Trip is one scheduled departure of a vehicle along a route.
//
// BookedSeats is a denormalized display cache, not the source of truth:
// the authoritative occupied-seat count is always derivable from the
// booking set.
type Trip struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"companyId"`
	VehicleID   int64     `json:"vehicleId"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departureAt"`
	ArrivalAt   time.Time `json:"arrivalAt"`
	BaseFare    float64   `json:"baseFare"`
	Status      string    `json:"status"`
	Capacity    int       `json:"capacity"`
	BookedSeats int       `json:"bookedSeats"`
}

// TripPricing carries the optional dynamic-pricing factors for a trip.
// A trip without a pricing row uses ZeroTripPricing.
type TripPricing struct {
	TripID            int64   `json:"tripId"`
	PeakMultiplier    float64 `json:"peakMultiplier"`
	DemandMultiplier  float64 `json:"demandMultiplier"`
	EarlyBirdDiscount float64 `json:"earlyBirdDiscount"`
	EarlyBirdDays     int     `json:"earlyBirdDays"`
}

// ZeroTripPricing returns the neutral factors: multipliers 1.0, no
// discount.
func ZeroTripPricing(tripID int64) TripPricing {
	return TripPricing{
		TripID:           tripID,
		PeakMultiplier:   1.0,
		DemandMultiplier: 1.0,
		EarlyBirdDays:    7,
	}
}
