package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/utils"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateReference signals a reference-code collision on insert. The
// caller regenerates the code and retries; the random suffix makes a
// second collision vanishingly unlikely.
var ErrDuplicateReference = errors.New("duplicate booking reference")

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, reference, company_id, trip_id, seat_id, user_id,
	passenger_name, passenger_phone, passenger_email,
	status, source, payment_status,
	base_fare, seat_fee, service_fee, total_amount,
	created_at, confirmed_at, cancelled_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.CompanyID, &b.TripID, &b.SeatID, &b.UserID,
		&b.PassengerName, &b.PassengerPhone, &b.PassengerEmail,
		&b.Status, &b.Source, &b.PaymentStatus,
		&b.BaseFare, &b.SeatFee, &b.ServiceFee, &b.TotalAmount,
		&b.CreatedAt, &b.ConfirmedAt, &b.CancelledAt)
	return b, err
}

func isDuplicateKey(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return false
	}
	return strings.Contains(me.Message, key)
}

// Create inserts the booking and consumes any hold on its seat as one
// transaction. A duplicate on uniq_active_seat means another live booking
// holds the seat; the insert loses cleanly and surfaces SeatAlreadyBooked.
func (r BookingRepository) Create(b models.Booking) (models.Booking, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Booking{}, err
	}

	res, err := tx.Exec(`
		INSERT INTO bookings (reference, company_id, trip_id, seat_id, user_id,
			passenger_name, passenger_phone, passenger_email,
			status, source, payment_status,
			base_fare, seat_fee, service_fee, total_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Reference, b.CompanyID, b.TripID, b.SeatID, b.UserID,
		b.PassengerName, b.PassengerPhone, b.PassengerEmail,
		b.Status, b.Source, b.PaymentStatus,
		b.BaseFare, b.SeatFee, b.ServiceFee, b.TotalAmount)
	if err != nil {
		tx.Rollback()
		if isDuplicateKey(err, "uniq_active_seat") {
			return models.Booking{}, domain.SeatAlreadyBookedError{TripID: b.TripID, SeatID: b.SeatID}
		}
		if isDuplicateKey(err, "uniq_booking_reference") {
			return models.Booking{}, ErrDuplicateReference
		}
		return models.Booking{}, err
	}

	if err := (ReservationRepository{}).ReleaseForBooking(tx, b.TripID, b.SeatID); err != nil {
		tx.Rollback()
		return models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	b.ID, _ = res.LastInsertId()
	return r.GetByID(b.ID)
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	b, err := scanBooking(r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

func (r BookingRepository) GetByReference(ref string) (models.Booking, error) {
	b, err := scanBooking(r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE reference=? LIMIT 1`, strings.TrimSpace(ref)))
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

func (r BookingRepository) ListByUser(userID int64) ([]models.Booking, error) {
	return r.list(`user_id=?`, userID)
}

func (r BookingRepository) ListByTrip(tripID int64) ([]models.Booking, error) {
	return r.list(`trip_id=?`, tripID)
}

func (r BookingRepository) list(where string, arg any) ([]models.Booking, error) {
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func lockBooking(tx *sql.Tx, id int64) (models.Booking, error) {
	b, err := scanBooking(tx.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// Confirm moves PENDING -> CONFIRMED. Legal only once payment is settled.
// The status write and the trip counter bump commit together.
func (r BookingRepository) Confirm(id int64, now time.Time) (models.Booking, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	b, err := lockBooking(tx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != models.BookingPending {
		return models.Booking{}, domain.InvalidTransitionError{From: b.Status, To: models.BookingConfirmed}
	}
	if b.PaymentStatus != models.PaymentPaid {
		return models.Booking{}, domain.InvalidTransitionError{
			From: b.Status, To: models.BookingConfirmed,
			Msg: "cannot confirm booking before payment is settled",
		}
	}

	if _, err := tx.Exec(`
		UPDATE bookings SET status=?, confirmed_at=? WHERE id=?
	`, models.BookingConfirmed, utils.FormatDateTime(now), id); err != nil {
		return models.Booking{}, err
	}
	if _, err := tx.Exec(`UPDATE trips SET booked_seats=booked_seats+1 WHERE id=?`, b.TripID); err != nil {
		return models.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return r.GetByID(id)
}

// SettlePayment records payment_status=paid and, when the booking is still
// PENDING, auto-confirms it in the same transaction. Returns whether the
// confirmation happened.
func (r BookingRepository) SettlePayment(id int64, now time.Time) (models.Booking, bool, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Booking{}, false, err
	}
	defer tx.Rollback()

	b, err := lockBooking(tx, id)
	if err != nil {
		return models.Booking{}, false, err
	}

	if _, err := tx.Exec(`UPDATE bookings SET payment_status=? WHERE id=?`, models.PaymentPaid, id); err != nil {
		return models.Booking{}, false, err
	}

	confirmed := false
	if b.Status == models.BookingPending {
		if _, err := tx.Exec(`
			UPDATE bookings SET status=?, confirmed_at=? WHERE id=?
		`, models.BookingConfirmed, utils.FormatDateTime(now), id); err != nil {
			return models.Booking{}, false, err
		}
		if _, err := tx.Exec(`UPDATE trips SET booked_seats=booked_seats+1 WHERE id=?`, b.TripID); err != nil {
			return models.Booking{}, false, err
		}
		confirmed = true
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, false, err
	}
	updated, err := r.GetByID(id)
	return updated, confirmed, err
}

func (r BookingRepository) MarkPaymentFailed(id int64) error {
	_, err := r.db().Exec(`UPDATE bookings SET payment_status=? WHERE id=?`, models.PaymentFailed, id)
	return err
}

// Cancel moves PENDING/CONFIRMED -> CANCELLED, writes the cancellation
// record and, when the booking was counted, lowers the trip counter. All
// in one transaction.
func (r BookingRepository) Cancel(id int64, c models.Cancellation, now time.Time) (models.Booking, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	b, err := lockBooking(tx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !b.Active() {
		return models.Booking{}, domain.InvalidTransitionError{From: b.Status, To: models.BookingCancelled}
	}

	if _, err := tx.Exec(`
		UPDATE bookings SET status=?, cancelled_at=? WHERE id=?
	`, models.BookingCancelled, utils.FormatDateTime(now), id); err != nil {
		return models.Booking{}, err
	}
	if _, err := tx.Exec(`
		INSERT INTO booking_cancellations (booking_id, reason, cancelled_by, cancellation_fee, refund_amount)
		VALUES (?, ?, ?, ?, ?)
	`, id, c.Reason, c.CancelledBy, c.CancellationFee, c.RefundAmount); err != nil {
		return models.Booking{}, err
	}
	if b.Status == models.BookingConfirmed {
		if _, err := tx.Exec(`
			UPDATE trips SET booked_seats=GREATEST(booked_seats-1, 0) WHERE id=?
		`, b.TripID); err != nil {
			return models.Booking{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return r.GetByID(id)
}

func (r BookingRepository) GetCancellation(bookingID int64) (models.Cancellation, error) {
	var c models.Cancellation
	err := r.db().QueryRow(`
		SELECT id, booking_id, reason, cancelled_by, cancellation_fee, refund_amount, created_at
		FROM booking_cancellations
		WHERE booking_id=? LIMIT 1
	`, bookingID).Scan(&c.ID, &c.BookingID, &c.Reason, &c.CancelledBy, &c.CancellationFee, &c.RefundAmount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, domain.NotFoundError{Resource: "cancellation"}
	}
	return c, err
}

// CloseOutTrip settles all live bookings at departure: CONFIRMED become
// COMPLETED, unpaid PENDING become NO_SHOW.
func (r BookingRepository) CloseOutTrip(tripID int64) (completed, noShow int64, err error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE bookings SET status=? WHERE trip_id=? AND status=?
	`, models.BookingCompleted, tripID, models.BookingConfirmed)
	if err != nil {
		return 0, 0, err
	}
	completed, _ = res.RowsAffected()

	res, err = tx.Exec(`
		UPDATE bookings SET status=? WHERE trip_id=? AND status=?
	`, models.BookingNoShow, tripID, models.BookingPending)
	if err != nil {
		return 0, 0, err
	}
	noShow, _ = res.RowsAffected()

	return completed, noShow, tx.Commit()
}
