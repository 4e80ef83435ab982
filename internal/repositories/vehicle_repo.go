package repositories

import (
	"database/sql"
	"strings"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r VehicleRepository) Create(v models.Vehicle) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (company_id, license_plate, total_seats)
		VALUES (?, ?, ?)
	`, v.CompanyID, strings.ToUpper(strings.TrimSpace(v.LicensePlate)), v.TotalSeats)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	var v models.Vehicle
	err := r.db().QueryRow(`
		SELECT id, company_id, license_plate, total_seats
		FROM vehicles
		WHERE id=? LIMIT 1
	`, id).Scan(&v.ID, &v.CompanyID, &v.LicensePlate, &v.TotalSeats)
	if err == sql.ErrNoRows {
		return v, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, err
}

func (r VehicleRepository) ListByCompany(companyID int64) ([]models.Vehicle, error) {
	rows, err := r.db().Query(`
		SELECT id, company_id, license_plate, total_seats
		FROM vehicles
		WHERE company_id=?
		ORDER BY id ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.LicensePlate, &v.TotalSeats); err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountSeats returns the number of seat rows already generated for the
// vehicle. Layout generation uses it as its idempotency guard.
func (r VehicleRepository) CountSeats(vehicleID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM seats WHERE vehicle_id=?`, vehicleID).Scan(&n)
	return n, err
}

// InsertSeats bulk-inserts a generated layout inside one transaction so a
// vehicle never ends up with a partial seat map.
func (r VehicleRepository) InsertSeats(vehicleID int64, seats []models.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO seats (vehicle_id, seat_number, row_no, position, seat_type, is_window, is_aisle, price_multiplier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, s := range seats {
		if _, err := stmt.Exec(vehicleID, s.SeatNumber, s.RowNumber, s.Position, s.SeatType, s.IsWindow, s.IsAisle, s.PriceMultiplier); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r VehicleRepository) ListSeats(vehicleID int64) ([]models.Seat, error) {
	rows, err := r.db().Query(`
		SELECT id, vehicle_id, seat_number, row_no, position, seat_type, is_window, is_aisle, price_multiplier
		FROM seats
		WHERE vehicle_id=?
		ORDER BY row_no ASC, seat_number ASC
	`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Seat{}
	for rows.Next() {
		var s models.Seat
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.SeatNumber, &s.RowNumber, &s.Position, &s.SeatType, &s.IsWindow, &s.IsAisle, &s.PriceMultiplier); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r VehicleRepository) GetSeatByID(seatID int64) (models.Seat, error) {
	var s models.Seat
	err := r.db().QueryRow(`
		SELECT id, vehicle_id, seat_number, row_no, position, seat_type, is_window, is_aisle, price_multiplier
		FROM seats
		WHERE id=? LIMIT 1
	`, seatID).Scan(&s.ID, &s.VehicleID, &s.SeatNumber, &s.RowNumber, &s.Position, &s.SeatType, &s.IsWindow, &s.IsAisle, &s.PriceMultiplier)
	if err == sql.ErrNoRows {
		return s, domain.NotFoundError{Resource: "seat"}
	}
	return s, err
}

func (r VehicleRepository) GetSeatByNumber(vehicleID int64, seatNumber string) (models.Seat, error) {
	var s models.Seat
	err := r.db().QueryRow(`
		SELECT id, vehicle_id, seat_number, row_no, position, seat_type, is_window, is_aisle, price_multiplier
		FROM seats
		WHERE vehicle_id=? AND seat_number=? LIMIT 1
	`, vehicleID, strings.ToUpper(strings.TrimSpace(seatNumber))).Scan(
		&s.ID, &s.VehicleID, &s.SeatNumber, &s.RowNumber, &s.Position, &s.SeatType, &s.IsWindow, &s.IsAisle, &s.PriceMultiplier)
	if err == sql.ErrNoRows {
		return s, domain.SeatNotFoundError{VehicleID: vehicleID, SeatNumber: seatNumber}
	}
	return s, err
}
