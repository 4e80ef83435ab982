package repositories

import (
	"database/sql"
	"time"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/utils"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, company_id, vehicle_id, origin, destination, departure_at, arrival_at, base_fare, status, capacity, booked_seats`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(&t.ID, &t.CompanyID, &t.VehicleID, &t.Origin, &t.Destination,
		&t.DepartureAt, &t.ArrivalAt, &t.BaseFare, &t.Status, &t.Capacity, &t.BookedSeats)
	return t, err
}

func (r TripRepository) Create(t models.Trip) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO trips (company_id, vehicle_id, origin, destination, departure_at, arrival_at, base_fare, status, capacity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.CompanyID, t.VehicleID, t.Origin, t.Destination,
		utils.FormatDateTime(t.DepartureAt), utils.FormatDateTime(t.ArrivalAt),
		t.BaseFare, t.Status, t.Capacity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	t, err := scanTrip(r.db().QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return t, domain.NotFoundError{Resource: "trip"}
	}
	return t, err
}

// Search lists upcoming trips, optionally filtered by route endpoints and
// departure date.
func (r TripRepository) Search(companyID int64, origin, destination string, date *time.Time) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE company_id=?`
	args := []any{companyID}
	if origin != "" {
		query += ` AND origin=?`
		args = append(args, origin)
	}
	if destination != "" {
		query += ` AND destination=?`
		args = append(args, destination)
	}
	if date != nil {
		query += ` AND DATE(departure_at)=?`
		args = append(args, utils.FormatDate(*date))
	}
	query += ` ORDER BY departure_at ASC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r TripRepository) UpdateStatus(id int64, status string) error {
	res, err := r.db().Exec(`UPDATE trips SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}

// ActiveBookingCount is the authoritative occupied-seat count: live
// bookings in PENDING or CONFIRMED. Admission decisions use this, never
// the booked_seats cache.
func (r TripRepository) ActiveBookingCount(tripID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE trip_id=? AND status IN ('PENDING','CONFIRMED')
	`, tripID).Scan(&n)
	return n, err
}

// BookedSeatIDs returns the seat ids held by live bookings on the trip.
func (r TripRepository) BookedSeatIDs(tripID int64) (map[int64]bool, error) {
	rows, err := r.db().Query(`
		SELECT seat_id FROM bookings
		WHERE trip_id=? AND status IN ('PENDING','CONFIRMED')
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return out, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// RecomputeBookedSeats rebuilds the cache from the confirmed booking set.
// Run by admins after suspected drift.
func (r TripRepository) RecomputeBookedSeats(tripID int64) (int, error) {
	var n int
	if err := r.db().QueryRow(`
		SELECT COUNT(*) FROM bookings WHERE trip_id=? AND status='CONFIRMED'
	`, tripID).Scan(&n); err != nil {
		return 0, err
	}
	if _, err := r.db().Exec(`UPDATE trips SET booked_seats=? WHERE id=?`, n, tripID); err != nil {
		return 0, err
	}
	return n, nil
}

// GetPricing loads the dynamic-pricing factors; trips without a pricing
// row get the neutral factors.
func (r TripRepository) GetPricing(tripID int64) (models.TripPricing, error) {
	var p models.TripPricing
	err := r.db().QueryRow(`
		SELECT trip_id, peak_multiplier, demand_multiplier, early_bird_discount, early_bird_days
		FROM trip_pricing
		WHERE trip_id=? LIMIT 1
	`, tripID).Scan(&p.TripID, &p.PeakMultiplier, &p.DemandMultiplier, &p.EarlyBirdDiscount, &p.EarlyBirdDays)
	if err == sql.ErrNoRows {
		return models.ZeroTripPricing(tripID), nil
	}
	return p, err
}

func (r TripRepository) SavePricing(p models.TripPricing) error {
	_, err := r.db().Exec(`
		INSERT INTO trip_pricing (trip_id, peak_multiplier, demand_multiplier, early_bird_discount, early_bird_days)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			peak_multiplier=VALUES(peak_multiplier),
			demand_multiplier=VALUES(demand_multiplier),
			early_bird_discount=VALUES(early_bird_discount),
			early_bird_days=VALUES(early_bird_days)
	`, p.TripID, p.PeakMultiplier, p.DemandMultiplier, p.EarlyBirdDiscount, p.EarlyBirdDays)
	return err
}
