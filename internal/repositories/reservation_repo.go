package repositories

import (
	"database/sql"
	"time"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/utils"
)

type ReservationRepository struct {
	DB *sql.DB
}

func (r ReservationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Reserve takes or refreshes the hold on (trip, seat) for the user in one
// atomic statement against the unique (trip_id, seat_id) key.
//
// The upsert only moves the row to the caller when the existing hold is
// the caller's own, released, or expired. MySQL applies the assignments
// left to right, so the first one judges legality against the row's
// original values and the later ones key off whether user_id now equals
// the caller's.
//
// RowsAffected then discriminates the outcome: 1 means inserted, 2 means
// the row moved to the caller, 0 means either nothing changed (the exact
// same hold already existed) or another user's live hold won. The zero
// case is resolved with a follow-up read.
func (r ReservationRepository) Reserve(tripID, seatID, userID int64, now time.Time, ttl time.Duration) (models.Reservation, error) {
	expiresAt := now.Add(ttl)
	res, err := r.db().Exec(`
		INSERT INTO seat_reservations (trip_id, seat_id, user_id, expires_at, is_active)
		VALUES (?, ?, ?, ?, 1)
		ON DUPLICATE KEY UPDATE
			user_id    = IF(user_id=VALUES(user_id) OR is_active=0 OR expires_at <= ?, VALUES(user_id), user_id),
			expires_at = IF(user_id=VALUES(user_id), VALUES(expires_at), expires_at),
			is_active  = IF(user_id=VALUES(user_id), 1, is_active)
	`, tripID, seatID, userID, utils.FormatDateTime(expiresAt), utils.FormatDateTime(now))
	if err != nil {
		return models.Reservation{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.Reservation{}, err
	}
	if affected > 0 {
		return r.Get(tripID, seatID)
	}

	// Nothing changed: either our identical hold already exists or we lost.
	cur, err := r.Get(tripID, seatID)
	if err != nil {
		return models.Reservation{}, err
	}
	if cur.UserID == userID && cur.IsActive && !cur.Expired(now) {
		return cur, nil
	}
	return models.Reservation{}, domain.SeatReservedError{TripID: tripID, SeatID: seatID}
}

func (r ReservationRepository) Get(tripID, seatID int64) (models.Reservation, error) {
	var rv models.Reservation
	err := r.db().QueryRow(`
		SELECT id, trip_id, seat_id, user_id, expires_at, is_active, created_at
		FROM seat_reservations
		WHERE trip_id=? AND seat_id=? LIMIT 1
	`, tripID, seatID).Scan(&rv.ID, &rv.TripID, &rv.SeatID, &rv.UserID, &rv.ExpiresAt, &rv.IsActive, &rv.CreatedAt)
	if err == sql.ErrNoRows {
		return rv, domain.NotFoundError{Resource: "reservation"}
	}
	return rv, err
}

// Release deactivates the caller's own hold. Releasing a hold you do not
// own, or one that no longer exists, is a no-op.
func (r ReservationRepository) Release(tripID, seatID, userID int64) error {
	_, err := r.db().Exec(`
		UPDATE seat_reservations SET is_active=0
		WHERE trip_id=? AND seat_id=? AND user_id=? AND is_active=1
	`, tripID, seatID, userID)
	return err
}

// ReleaseForBooking frees the seat's hold regardless of holder. Used once
// a booking has been created, when the hold has served its purpose.
func (r ReservationRepository) ReleaseForBooking(tx *sql.Tx, tripID, seatID int64) error {
	_, err := tx.Exec(`
		UPDATE seat_reservations SET is_active=0
		WHERE trip_id=? AND seat_id=? AND is_active=1
	`, tripID, seatID)
	return err
}

// SweepExpired deactivates lapsed holds in bulk and returns how many rows
// it touched. Purely hygienic: readers already treat expired holds as
// gone.
func (r ReservationRepository) SweepExpired(now time.Time) (int64, error) {
	res, err := r.db().Exec(`
		UPDATE seat_reservations SET is_active=0
		WHERE is_active=1 AND expires_at <= ?
	`, utils.FormatDateTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ActiveHolds returns the live, unexpired holds on a trip keyed by seat.
func (r ReservationRepository) ActiveHolds(tripID int64, now time.Time) (map[int64]models.Reservation, error) {
	rows, err := r.db().Query(`
		SELECT id, trip_id, seat_id, user_id, expires_at, is_active, created_at
		FROM seat_reservations
		WHERE trip_id=? AND is_active=1 AND expires_at > ?
	`, tripID, utils.FormatDateTime(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]models.Reservation{}
	for rows.Next() {
		var rv models.Reservation
		if err := rows.Scan(&rv.ID, &rv.TripID, &rv.SeatID, &rv.UserID, &rv.ExpiresAt, &rv.IsActive, &rv.CreatedAt); err != nil {
			return out, err
		}
		out[rv.SeatID] = rv
	}
	return out, rows.Err()
}
