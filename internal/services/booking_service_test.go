package services

import (
	"context"
	"testing"
	"time"

	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tripCols = []string{"id", "company_id", "vehicle_id", "origin", "destination", "departure_at", "arrival_at", "base_fare", "status", "capacity", "booked_seats"}
	seatCols = []string{"id", "vehicle_id", "seat_number", "row_no", "position", "seat_type", "is_window", "is_aisle", "price_multiplier"}
	bkCols   = []string{
		"id", "reference", "company_id", "trip_id", "seat_id", "user_id",
		"passenger_name", "passenger_phone", "passenger_email",
		"status", "source", "payment_status",
		"base_fare", "seat_fee", "service_fee", "total_amount",
		"created_at", "confirmed_at", "cancelled_at",
	}
	resCols = []string{"id", "trip_id", "seat_id", "user_id", "expires_at", "is_active", "created_at"}
	payCols = []string{"id", "reference", "booking_id", "amount", "method", "status", "gateway_id", "created_at"}
)

func scheduledTripRow(departure time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(tripCols).AddRow(
		5, 1, 2, "Kampala", "Gulu", departure, departure.Add(5*time.Hour),
		50000.0, models.TripScheduled, 40, 0)
}

func regularSeatRow() *sqlmock.Rows {
	return sqlmock.NewRows(seatCols).AddRow(12, 2, "3B", 3, models.PositionLeftAisle, models.SeatTypeRegular, false, true, 1.0)
}

func bookingServiceFor(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := BookingService{
		BookingRepo:     repositories.BookingRepository{DB: db},
		TripRepo:        repositories.TripRepository{DB: db},
		VehicleRepo:     repositories.VehicleRepository{DB: db},
		CompanyRepo:     repositories.CompanyRepository{DB: db},
		ReservationRepo: repositories.ReservationRepository{DB: db},
		PaymentRepo:     repositories.PaymentRepository{DB: db},
		Trips: TripService{
			TripRepo:    repositories.TripRepository{DB: db},
			VehicleRepo: repositories.VehicleRepository{DB: db},
		},
		Catalog: CatalogService{VehicleRepo: repositories.VehicleRepository{DB: db}},
	}
	return svc, mock, func() { db.Close() }
}

func TestCreateBookingIgnoresExpiredHold(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WithArgs(int64(12)).WillReturnRows(regularSeatRow())
	mock.ExpectQuery("SELECT seat_id FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	// another user's hold, already lapsed: it blocks nobody
	mock.ExpectQuery("SELECT (.+) FROM seat_reservations").
		WithArgs(int64(5), int64(12)).
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(7, 5, 12, 99, now.Add(-time.Minute), true, now.Add(-16*time.Minute)))
	mock.ExpectQuery("SELECT (.+) FROM trip_pricing").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"trip_id"}))
	mock.ExpectQuery("SELECT (.+) FROM company_settings").
		WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"company_id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(33, 1))
	mock.ExpectExec("UPDATE seat_reservations SET is_active=0").
		WithArgs(int64(5), int64(12)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingPending, models.SourceMobileApp, models.PaymentPending,
			50000.0, 0.0, 0.0, 50000.0,
			now, nil, nil))

	b, err := svc.Create(context.Background(), CreateBookingInput{
		TripID: 5, SeatID: 12, UserID: 42,
		PassengerName:  "Okello James",
		PassengerPhone: "+256700000001",
		Source:         models.SourceMobileApp,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, 50000.0, b.TotalAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingBlockedByLiveHold(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WithArgs(int64(12)).WillReturnRows(regularSeatRow())
	mock.ExpectQuery("SELECT seat_id FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectQuery("SELECT (.+) FROM seat_reservations").
		WithArgs(int64(5), int64(12)).
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(7, 5, 12, 99, now.Add(10*time.Minute), true, now))

	_, err := svc.Create(context.Background(), CreateBookingInput{
		TripID: 5, SeatID: 12, UserID: 42,
		PassengerName:  "Okello James",
		PassengerPhone: "+256700000001",
		Source:         models.SourceMobileApp,
	}, now)
	assert.True(t, domain.IsSeatReserved(err), "expected SeatReserved, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsDepartedTrip(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(now.Add(-time.Hour)))

	_, err := svc.Create(context.Background(), CreateBookingInput{
		TripID: 5, SeatID: 12, UserID: 42,
		PassengerName:  "Okello James",
		PassengerPhone: "+256700000001",
		Source:         models.SourceMobileApp,
	}, now)
	assert.True(t, domain.IsTripNotBookable(err), "expected TripNotBookable, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeatFromOtherVehicle(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(now.Add(48 * time.Hour)))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(77, 9, "1A", 1, models.PositionLeftWindow, models.SeatTypeRegular, true, false, 1.0))

	_, err := svc.Create(context.Background(), CreateBookingInput{
		TripID: 5, SeatID: 77, UserID: 42,
		PassengerName:  "Okello James",
		PassengerPhone: "+256700000001",
		Source:         models.SourceMobileApp,
	}, now)
	assert.True(t, domain.IsSeatMismatch(err), "expected SeatMismatch, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

type recordingNotifier struct {
	sent []models.TicketSnapshot
}

func (n *recordingNotifier) SendTicket(s models.TicketSnapshot) error {
	n.sent = append(n.sent, s)
	return nil
}

func TestOnPaymentSettledAutoConfirmsAndNotifies(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()
	notifier := &recordingNotifier{}
	svc.Notifier = notifier

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	pendingRow := sqlmock.NewRows(bkCols).AddRow(
		33, "BK20260301ABCDEF", 1, 5, 12, 42,
		"Okello James", "+256700000001", "",
		models.BookingPending, models.SourceMobileApp, models.PaymentPending,
		50000.0, 0.0, 0.0, 50000.0,
		now, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE reference=\\?").
		WithArgs("BK20260301ABCDEF").WillReturnRows(pendingRow)
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE booking_id=\\?").
		WithArgs(int64(33)).WillReturnRows(sqlmock.NewRows(payCols))
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\? LIMIT 1 FOR UPDATE").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingPending, models.SourceMobileApp, models.PaymentPending,
			50000.0, 0.0, 0.0, 50000.0,
			now, nil, nil))
	mock.ExpectExec("UPDATE bookings SET payment_status=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status=\\?, confirmed_at=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips SET booked_seats=booked_seats\\+1").
		WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingConfirmed, models.SourceMobileApp, models.PaymentPaid,
			50000.0, 0.0, 0.0, 50000.0,
			now, now, nil))

	// ticket snapshot loads
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WithArgs(int64(12)).WillReturnRows(regularSeatRow())

	b, err := svc.OnPaymentSettled("BK20260301ABCDEF", 50000, models.MethodMobileMoney, "mm-123", now)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "3B", notifier.sent[0].SeatNumber)
	assert.Equal(t, "BK20260301ABCDEF", notifier.sent[0].Reference)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOnPaymentSettledIgnoresReplayedWebhook(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()
	notifier := &recordingNotifier{}
	svc.Notifier = notifier

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE reference=\\?").
		WithArgs("BK20260301ABCDEF").
		WillReturnRows(sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingConfirmed, models.SourceMobileApp, models.PaymentPaid,
			50000.0, 0.0, 0.0, 50000.0,
			now, now, nil))
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE booking_id=\\?").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(payCols).AddRow(
			1, "PAY2026030110000001", 33, 50000.0, models.MethodMobileMoney,
			models.PaymentRecordCompleted, "mm-123", now))

	b, err := svc.OnPaymentSettled("BK20260301ABCDEF", 50000, models.MethodMobileMoney, "mm-123", now)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Empty(t, notifier.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOnPaymentSettledRetriesSettlementAfterPartialFailure(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()
	notifier := &recordingNotifier{}
	svc.Notifier = notifier

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	// First delivery recorded the payment row but died before the status
	// write: the booking is still PENDING/pending. The retry must settle
	// it without inserting a second payment row.
	pendingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingPending, models.SourceMobileApp, models.PaymentPending,
			50000.0, 0.0, 0.0, 50000.0,
			now, nil, nil)
	}

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE reference=\\?").
		WithArgs("BK20260301ABCDEF").WillReturnRows(pendingRow())
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE booking_id=\\?").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(payCols).AddRow(
			1, "PAY2026030110000001", 33, 50000.0, models.MethodMobileMoney,
			models.PaymentRecordCompleted, "mm-123", now))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\? LIMIT 1 FOR UPDATE").
		WithArgs(int64(33)).WillReturnRows(pendingRow())
	mock.ExpectExec("UPDATE bookings SET payment_status=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status=\\?, confirmed_at=\\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips SET booked_seats=booked_seats\\+1").
		WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingConfirmed, models.SourceMobileApp, models.PaymentPaid,
			50000.0, 0.0, 0.0, 50000.0,
			now, now, nil))
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id=\\?").
		WithArgs(int64(12)).WillReturnRows(regularSeatRow())

	b, err := svc.OnPaymentSettled("BK20260301ABCDEF", 50000, models.MethodMobileMoney, "mm-123", now)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	require.Len(t, notifier.sent, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelInsideFreeWindowHasNoFee(t *testing.T) {
	svc, mock, done := bookingServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	confirmedRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingConfirmed, models.SourceMobileApp, models.PaymentPaid,
			50000.0, 0.0, 0.0, 50000.0,
			now, now, nil)
	}

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE reference=\\?").
		WithArgs("BK20260301ABCDEF").WillReturnRows(confirmedRow())
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT (.+) FROM company_settings").
		WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"company_id"}))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\? LIMIT 1 FOR UPDATE").
		WithArgs(int64(33)).WillReturnRows(confirmedRow())
	mock.ExpectExec("UPDATE bookings SET status=\\?, cancelled_at=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_cancellations").
		WithArgs(int64(33), "change of plans", int64(42), 0.0, 50000.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE trips SET booked_seats=GREATEST").
		WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=\\?").
		WithArgs(int64(33)).
		WillReturnRows(sqlmock.NewRows(bkCols).AddRow(
			33, "BK20260301ABCDEF", 1, 5, 12, 42,
			"Okello James", "+256700000001", "",
			models.BookingCancelled, models.SourceMobileApp, models.PaymentPaid,
			50000.0, 0.0, 0.0, 50000.0,
			now, now, now))

	res, err := svc.Cancel(context.Background(), "BK20260301ABCDEF", "change of plans", 42, now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Fee)
	assert.Equal(t, 50000.0, res.Refund)
	assert.Equal(t, models.BookingCancelled, res.Booking.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
