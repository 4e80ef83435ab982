package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// Seat-contention and lifecycle errors. All of these are expected,
// recoverable conditions: the caller can pick another seat, wait, or retry.

// SeatNotFoundError: the requested seat does not exist on the vehicle.
type SeatNotFoundError struct {
	VehicleID  int64
	SeatNumber string
}

func (e SeatNotFoundError) Error() string {
	return fmt.Sprintf("seat %s not found on vehicle %d", e.SeatNumber, e.VehicleID)
}

// SeatMismatchError: the seat exists but belongs to a different vehicle
// than the trip's.
type SeatMismatchError struct {
	SeatID int64
	TripID int64
}

func (e SeatMismatchError) Error() string {
	return fmt.Sprintf("seat %d does not belong to the vehicle of trip %d", e.SeatID, e.TripID)
}

// SeatAlreadyBookedError: an active (PENDING or CONFIRMED) booking already
// holds the seat on this trip. Losers of a concurrent create race receive
// this, never a raw constraint violation.
type SeatAlreadyBookedError struct {
	TripID int64
	SeatID int64
}

func (e SeatAlreadyBookedError) Error() string {
	return fmt.Sprintf("seat %d already booked on trip %d", e.SeatID, e.TripID)
}

// SeatReservedError: a live hold by another user blocks the seat. The hold
// expires at ExpiresAt; after that instant it no longer blocks anyone.
type SeatReservedError struct {
	TripID int64
	SeatID int64
}

func (e SeatReservedError) Error() string {
	return fmt.Sprintf("seat %d on trip %d is temporarily reserved", e.SeatID, e.TripID)
}

// TripNotBookableError: wrong trip status, past departure, or no seats left.
type TripNotBookableError struct {
	TripID int64
	Reason string
}

func (e TripNotBookableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("trip %d not bookable: %s", e.TripID, e.Reason)
	}
	return fmt.Sprintf("trip %d not bookable", e.TripID)
}

// InvalidTransitionError: the requested booking state change is not legal,
// e.g. confirming without settled payment or cancelling a completed booking.
type InvalidTransitionError struct {
	From string
	To   string
	Msg  string
}

func (e InvalidTransitionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("illegal booking transition %s -> %s", e.From, e.To)
}

// CapacityExceededError: a numeric seat request beyond the vehicle's seat
// count.
type CapacityExceededError struct {
	SeatNumber int
	Capacity   int
}

func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("seat number %d exceeds vehicle capacity %d", e.SeatNumber, e.Capacity)
}

func IsNotFound(err error) bool {
	var a NotFoundError
	var b SeatNotFoundError
	return errors.As(err, &a) || errors.As(err, &b)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsSeatNotFound(err error) bool {
	var target SeatNotFoundError
	return errors.As(err, &target)
}

func IsSeatMismatch(err error) bool {
	var target SeatMismatchError
	return errors.As(err, &target)
}

func IsSeatAlreadyBooked(err error) bool {
	var target SeatAlreadyBookedError
	return errors.As(err, &target)
}

func IsSeatReserved(err error) bool {
	var target SeatReservedError
	return errors.As(err, &target)
}

func IsTripNotBookable(err error) bool {
	var target TripNotBookableError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsCapacityExceeded(err error) bool {
	var target CapacityExceededError
	return errors.As(err, &target)
}

// IsConflict reports whether err is any of the retryable seat-contention
// conditions. Handlers map these to 409.
func IsConflict(err error) bool {
	return IsSeatAlreadyBooked(err) || IsSeatReserved(err)
}
