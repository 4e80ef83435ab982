package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookutu/internal/cache"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/pricing"
	"bookutu/internal/repositories"
	"bookutu/internal/utils"
)

// Seat availability states as shown to clients.
const (
	SeatAvailable = "available"
	SeatReserved  = "reserved"
	SeatBooked    = "booked"
)

// SeatAvailability is one seat in the availability view of a trip.
type SeatAvailability struct {
	Seat  models.Seat `json:"seat"`
	State string      `json:"state"`
	Mine  bool        `json:"mine,omitempty"`
	Price float64     `json:"price"`
}

// TripService tracks per-trip capacity. Admission decisions always count
// live bookings; the cached counter and the Redis entry only serve
// displays.
type TripService struct {
	TripRepo        repositories.TripRepository
	VehicleRepo     repositories.VehicleRepository
	CompanyRepo     repositories.CompanyRepository
	ReservationRepo repositories.ReservationRepository
	Cache           cache.AvailabilityCache
	RequestID       string
}

func (s TripService) CreateTrip(t models.Trip) (models.Trip, error) {
	if strings.TrimSpace(t.Origin) == "" || strings.TrimSpace(t.Destination) == "" {
		return models.Trip{}, domain.ValidationError{Field: "route", Msg: "origin and destination are required"}
	}
	if !t.DepartureAt.Before(t.ArrivalAt) {
		return models.Trip{}, domain.ValidationError{Field: "departure_at", Msg: "departure must be before arrival"}
	}
	if t.BaseFare <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "base_fare", Msg: "base fare must be positive"}
	}

	vehicle, err := s.VehicleRepo.GetByID(t.VehicleID)
	if err != nil {
		return models.Trip{}, err
	}
	if vehicle.CompanyID != t.CompanyID {
		return models.Trip{}, domain.ValidationError{Field: "vehicle_id", Msg: "vehicle belongs to another company"}
	}

	t.Capacity = vehicle.TotalSeats
	t.Status = models.TripScheduled
	id, err := s.TripRepo.Create(t)
	if err != nil {
		return models.Trip{}, err
	}
	t.ID = id
	utils.LogEvent(s.RequestID, "trips", "create", fmt.Sprintf("trip=%d vehicle=%d capacity=%d", id, t.VehicleID, t.Capacity))
	return t, nil
}

func (s TripService) GetTrip(id int64) (models.Trip, error) {
	return s.TripRepo.GetByID(id)
}

func (s TripService) Search(companyID int64, origin, destination string, date *time.Time) ([]models.Trip, error) {
	return s.TripRepo.Search(companyID, origin, destination, date)
}

// Bookable checks whether the trip admits new bookings at the given
// instant: scheduled, departure still ahead, seats left by live count.
func (s TripService) Bookable(trip models.Trip, now time.Time) error {
	if trip.Status != models.TripScheduled {
		return domain.TripNotBookableError{TripID: trip.ID, Reason: "trip is " + strings.ToLower(trip.Status)}
	}
	if !trip.DepartureAt.After(now) {
		return domain.TripNotBookableError{TripID: trip.ID, Reason: "trip has departed"}
	}
	active, err := s.TripRepo.ActiveBookingCount(trip.ID)
	if err != nil {
		return err
	}
	if active >= trip.Capacity {
		return domain.TripNotBookableError{TripID: trip.ID, Reason: "no seats remaining"}
	}
	return nil
}

// RemainingSeats serves the availability display through the Redis cache.
// The count is capacity minus live bookings; a cache miss recomputes and
// repopulates.
func (s TripService) RemainingSeats(ctx context.Context, trip models.Trip) (int, error) {
	if n, ok := s.Cache.GetRemaining(ctx, trip.ID); ok {
		return n, nil
	}
	active, err := s.TripRepo.ActiveBookingCount(trip.ID)
	if err != nil {
		return 0, err
	}
	remaining := trip.Capacity - active
	if remaining < 0 {
		remaining = 0
	}
	if err := s.Cache.SetRemaining(ctx, trip.ID, remaining); err != nil {
		utils.LogEvent(s.RequestID, "trips", "cache", "set remaining failed: "+err.Error())
	}
	return remaining, nil
}

// SeatAvailability renders the full seat map of a trip with per-seat
// state and price. userID marks the caller's own holds.
func (s TripService) SeatAvailability(tripID, userID int64, now time.Time) ([]SeatAvailability, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	seats, err := s.VehicleRepo.ListSeats(trip.VehicleID)
	if err != nil {
		return nil, err
	}
	booked, err := s.TripRepo.BookedSeatIDs(tripID)
	if err != nil {
		return nil, err
	}
	holds, err := s.ReservationRepo.ActiveHolds(tripID, now)
	if err != nil {
		return nil, err
	}
	factors, err := s.TripRepo.GetPricing(tripID)
	if err != nil {
		return nil, err
	}
	policy, err := s.CompanyRepo.GetPolicy(trip.CompanyID)
	if err != nil {
		return nil, err
	}
	calc := pricing.Calculator{Policy: policy}

	out := make([]SeatAvailability, 0, len(seats))
	for _, seat := range seats {
		sa := SeatAvailability{
			Seat:  seat,
			State: SeatAvailable,
			Price: calc.FinalFare(trip.BaseFare, seat.PriceMultiplier, factors, trip.DepartureAt, now),
		}
		if booked[seat.ID] {
			sa.State = SeatBooked
		} else if hold, ok := holds[seat.ID]; ok {
			sa.State = SeatReserved
			sa.Mine = hold.UserID == userID
		}
		out = append(out, sa)
	}
	return out, nil
}

// Recount rebuilds the booked_seats cache from the confirmed booking set
// and drops the Redis entry.
func (s TripService) Recount(ctx context.Context, tripID int64) (int, error) {
	n, err := s.TripRepo.RecomputeBookedSeats(tripID)
	if err != nil {
		return 0, err
	}
	if err := s.Cache.Invalidate(ctx, tripID); err != nil {
		utils.LogEvent(s.RequestID, "trips", "recount", "cache invalidate failed: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "trips", "recount", fmt.Sprintf("trip=%d booked_seats=%d", tripID, n))
	return n, nil
}

// SetPricing stores the dynamic-pricing factors for a trip. Quotes are
// computed at booking time, so a change only affects bookings made after
// it.
func (s TripService) SetPricing(tripID int64, f models.TripPricing) (models.TripPricing, error) {
	if _, err := s.TripRepo.GetByID(tripID); err != nil {
		return models.TripPricing{}, err
	}
	if f.PeakMultiplier <= 0 {
		return models.TripPricing{}, domain.ValidationError{Field: "peak_multiplier", Msg: "must be positive"}
	}
	if f.DemandMultiplier <= 0 {
		return models.TripPricing{}, domain.ValidationError{Field: "demand_multiplier", Msg: "must be positive"}
	}
	if f.EarlyBirdDiscount < 0 || f.EarlyBirdDiscount >= 1 {
		return models.TripPricing{}, domain.ValidationError{Field: "early_bird_discount", Msg: "must be a fraction in [0, 1)"}
	}
	if f.EarlyBirdDays < 0 {
		return models.TripPricing{}, domain.ValidationError{Field: "early_bird_days", Msg: "must not be negative"}
	}

	f.TripID = tripID
	if err := s.TripRepo.SavePricing(f); err != nil {
		return models.TripPricing{}, err
	}
	utils.LogEvent(s.RequestID, "trips", "set_pricing",
		fmt.Sprintf("trip=%d peak=%.2f demand=%.2f early_bird=%.2f/%dd",
			tripID, f.PeakMultiplier, f.DemandMultiplier, f.EarlyBirdDiscount, f.EarlyBirdDays))
	return f, nil
}

func (s TripService) UpdateStatus(tripID int64, status string) error {
	switch status {
	case models.TripScheduled, models.TripBoarding, models.TripInTransit,
		models.TripCompleted, models.TripCancelled, models.TripDelayed:
	default:
		return domain.ValidationError{Field: "status", Msg: "unknown trip status"}
	}
	return s.TripRepo.UpdateStatus(tripID, status)
}
