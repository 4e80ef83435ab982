package services

import (
	"fmt"
	"time"

	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/monitoring"
	"bookutu/internal/repositories"
	"bookutu/internal/utils"
)

// ReservationService manages the time-boxed seat holds taken during
// interactive checkout.
type ReservationService struct {
	TripRepo        repositories.TripRepository
	VehicleRepo     repositories.VehicleRepository
	ReservationRepo repositories.ReservationRepository
	Trips           TripService
	Catalog         CatalogService
	TTL             time.Duration
	RequestID       string
}

// Reserve places a hold on the seat for the user. No hold is granted when
// a live booking already owns the seat or another user's unexpired hold
// blocks it; the storage-level upsert settles simultaneous attempts.
func (s ReservationService) Reserve(tripID int64, seatRef string, userID int64, now time.Time) (models.Reservation, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.Reservation{}, err
	}
	if err := s.Trips.Bookable(trip, now); err != nil {
		return models.Reservation{}, err
	}

	seat, err := s.resolve(trip, seatRef)
	if err != nil {
		return models.Reservation{}, err
	}

	booked, err := s.TripRepo.BookedSeatIDs(tripID)
	if err != nil {
		return models.Reservation{}, err
	}
	if booked[seat.ID] {
		monitoring.TrackSeatConflict("reserve")
		return models.Reservation{}, domain.SeatAlreadyBookedError{TripID: tripID, SeatID: seat.ID}
	}

	rv, err := s.ReservationRepo.Reserve(tripID, seat.ID, userID, now, s.TTL)
	if err != nil {
		if domain.IsSeatReserved(err) {
			monitoring.TrackSeatConflict("reserve")
		}
		return models.Reservation{}, err
	}
	utils.LogEvent(s.RequestID, "reservations", "reserve",
		fmt.Sprintf("trip=%d seat=%d user=%d expires=%s", tripID, seat.ID, userID, utils.FormatDateTime(rv.ExpiresAt)))
	return rv, nil
}

// Release drops the caller's own hold. Idempotent.
func (s ReservationService) Release(tripID int64, seatRef string, userID int64) error {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return err
	}
	seat, err := s.resolve(trip, seatRef)
	if err != nil {
		return err
	}
	if err := s.ReservationRepo.Release(tripID, seat.ID, userID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "reservations", "release",
		fmt.Sprintf("trip=%d seat=%d user=%d", tripID, seat.ID, userID))
	return nil
}

// SweepExpired deactivates lapsed holds. Invoked by the background
// sweeper; safe alongside live traffic because readers never trust an
// expired hold anyway.
func (s ReservationService) SweepExpired(now time.Time) (int64, error) {
	n, err := s.ReservationRepo.SweepExpired(now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		monitoring.TrackSweep(n)
		utils.LogEvent(s.RequestID, "reservations", "sweep", fmt.Sprintf("deactivated=%d", n))
	}
	return n, nil
}

func (s ReservationService) resolve(trip models.Trip, seatRef string) (models.Seat, error) {
	vehicle, err := s.VehicleRepo.GetByID(trip.VehicleID)
	if err != nil {
		return models.Seat{}, err
	}
	return s.Catalog.ResolveSeat(vehicle, seatRef)
}
