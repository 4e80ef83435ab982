package models

import "time"

// Reservation is a time-boxed, advisory hold on a (trip, seat) pair during
// interactive checkout. It is never proof of ownership: every consumer
// compares ExpiresAt against the current clock, so an expired hold blocks
// nobody even before the sweeper deactivates it.
type Reservation struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"tripId"`
	SeatID    int64     `json:"seatId"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the hold has lapsed at the given instant.
func (r Reservation) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Blocks reports whether the hold excludes the given user at the given
// instant. A user's own hold never blocks them.
func (r Reservation) Blocks(userID int64, now time.Time) bool {
	return r.IsActive && !r.Expired(now) && r.UserID != userID
}
