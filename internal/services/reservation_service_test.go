package services

import (
	"testing"
	"time"

	"bookutu/internal/domain"
	"bookutu/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservationServiceFor(t *testing.T) (ReservationService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := ReservationService{
		TripRepo:        repositories.TripRepository{DB: db},
		VehicleRepo:     repositories.VehicleRepository{DB: db},
		ReservationRepo: repositories.ReservationRepository{DB: db},
		Trips: TripService{
			TripRepo: repositories.TripRepository{DB: db},
		},
		Catalog: CatalogService{VehicleRepo: repositories.VehicleRepository{DB: db}},
		TTL:     15 * time.Minute,
	}
	return svc, mock, func() { db.Close() }
}

func TestReserveTakesOverExpiredHold(t *testing.T) {
	svc, mock, done := reservationServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=\\?").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "license_plate", "total_seats"}).
			AddRow(2, 1, "UBH 123X", 40))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE vehicle_id=\\? AND seat_number=\\?").
		WithArgs(int64(2), "3B").WillReturnRows(regularSeatRow())
	mock.ExpectQuery("SELECT seat_id FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))

	// the upsert moves the expired hold to the new user: two rows affected
	mock.ExpectExec("INSERT INTO seat_reservations").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT (.+) FROM seat_reservations").
		WithArgs(int64(5), int64(12)).
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(7, 5, 12, 42, now.Add(15*time.Minute), true, now.Add(-time.Hour)))

	rv, err := svc.Reserve(5, "3B", 42, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rv.UserID)
	assert.False(t, rv.Expired(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsBookedSeat(t *testing.T) {
	svc, mock, done := reservationServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(departure))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=\\?").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "license_plate", "total_seats"}).
			AddRow(2, 1, "UBH 123X", 40))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE vehicle_id=\\? AND seat_number=\\?").
		WithArgs(int64(2), "3B").WillReturnRows(regularSeatRow())
	mock.ExpectQuery("SELECT seat_id FROM bookings").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(12))

	_, err := svc.Reserve(5, "3B", 42, now)
	assert.True(t, domain.IsSeatAlreadyBooked(err), "expected SeatAlreadyBooked, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsFullTrip(t *testing.T) {
	svc, mock, done := reservationServiceFor(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id=\\?").
		WithArgs(int64(5)).WillReturnRows(scheduledTripRow(now.Add(48 * time.Hour)))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(40))

	_, err := svc.Reserve(5, "3B", 42, now)
	assert.True(t, domain.IsTripNotBookable(err), "expected TripNotBookable, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepExpiredCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE seat_reservations SET is_active=0").
		WillReturnResult(sqlmock.NewResult(0, 2))

	svc := ReservationService{ReservationRepo: repositories.ReservationRepository{DB: db}}
	n, err := svc.SweepExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
