package worker

import (
	"context"
	"testing"
	"time"

	"bookutu/internal/repositories"
	"bookutu/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSweeperRunsImmediatelyAndStops(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	// at least the immediate sweep on start; ticks may add more
	mock.ExpectExec("UPDATE seat_reservations SET is_active=0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < 5; i++ {
		mock.ExpectExec("UPDATE seat_reservations SET is_active=0").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	w := &Sweeper{
		Reservations: services.ReservationService{
			ReservationRepo: repositories.ReservationRepository{DB: db},
		},
		Interval: 5 * time.Millisecond,
	}
	w.Start(context.Background())
	time.Sleep(12 * time.Millisecond)
	w.Stop()

	// Stop twice must not panic
	w.Stop()
}

func TestSweeperStartIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 10; i++ {
		mock.ExpectExec("UPDATE seat_reservations SET is_active=0").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	w := &Sweeper{
		Reservations: services.ReservationService{
			ReservationRepo: repositories.ReservationRepository{DB: db},
		},
		Interval: time.Hour,
	}
	w.Start(context.Background())
	w.Start(context.Background())
	w.Stop()
}
