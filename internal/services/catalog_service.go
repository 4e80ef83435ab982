package services

import (
	"fmt"
	"strconv"
	"strings"

	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/repositories"
	"bookutu/internal/utils"
)

// CatalogService owns the physical seat map of each vehicle: layout
// generation at vehicle creation and seat resolution for booking flows.
type CatalogService struct {
	VehicleRepo repositories.VehicleRepository
	RequestID   string
}

// CreateVehicle registers the vehicle and generates its seat layout.
// seatsPerRow is 2 or 4; 0 means the default 4.
func (s CatalogService) CreateVehicle(v models.Vehicle, seatsPerRow int) (models.Vehicle, error) {
	if strings.TrimSpace(v.LicensePlate) == "" {
		return models.Vehicle{}, domain.ValidationError{Field: "license_plate", Msg: "license plate is required"}
	}
	if v.TotalSeats <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "total_seats", Msg: "total seats must be positive"}
	}
	if seatsPerRow == 0 {
		seatsPerRow = 4
	}
	if seatsPerRow != 2 && seatsPerRow != 4 {
		return models.Vehicle{}, domain.ValidationError{Field: "seats_per_row", Msg: "seats per row must be 2 or 4"}
	}

	id, err := s.VehicleRepo.Create(v)
	if err != nil {
		return models.Vehicle{}, err
	}
	v.ID = id

	if err := s.GenerateLayout(id, v.TotalSeats, seatsPerRow); err != nil {
		return models.Vehicle{}, err
	}
	utils.LogEvent(s.RequestID, "catalog", "create_vehicle",
		fmt.Sprintf("vehicle=%d seats=%d per_row=%d", id, v.TotalSeats, seatsPerRow))
	return v, nil
}

// GenerateLayout materializes the seat rows for a vehicle. Idempotent:
// when seats already exist the call is a no-op, so a retried creation
// never duplicates or reshuffles a seat map that bookings may reference.
func (s CatalogService) GenerateLayout(vehicleID int64, totalSeats, seatsPerRow int) error {
	existing, err := s.VehicleRepo.CountSeats(vehicleID)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return s.VehicleRepo.InsertSeats(vehicleID, BuildLayout(vehicleID, totalSeats, seatsPerRow))
}

// BuildLayout produces the deterministic seat map: rows numbered from 1,
// letters A.. across each row, windows at the row edges and aisle seats in
// the middle. A 2-wide row is the left pair only (A window, B aisle). The
// final row may be short so the seat count always equals totalSeats.
func BuildLayout(vehicleID int64, totalSeats, seatsPerRow int) []models.Seat {
	positions := []string{
		models.PositionLeftWindow,
		models.PositionLeftAisle,
		models.PositionRightAisle,
		models.PositionRightWindow,
	}
	if seatsPerRow == 2 {
		positions = positions[:2]
	}

	seats := make([]models.Seat, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		row := i/seatsPerRow + 1
		col := i % seatsPerRow
		pos := positions[col]
		seats = append(seats, models.Seat{
			VehicleID:       vehicleID,
			SeatNumber:      strconv.Itoa(row) + string(rune('A'+col)),
			RowNumber:       row,
			Position:        pos,
			SeatType:        models.SeatTypeRegular,
			IsWindow:        pos == models.PositionLeftWindow || pos == models.PositionRightWindow,
			IsAisle:         pos == models.PositionLeftAisle || pos == models.PositionRightAisle,
			PriceMultiplier: 1.0,
		})
	}
	return seats
}

// ListVehicles returns the company's fleet.
func (s CatalogService) ListVehicles(companyID int64) ([]models.Vehicle, error) {
	return s.VehicleRepo.ListByCompany(companyID)
}

func (s CatalogService) ListSeats(vehicleID int64) ([]models.Seat, error) {
	return s.VehicleRepo.ListSeats(vehicleID)
}

// ResolveSeat maps a client seat reference to a seat row on the vehicle.
// The reference is a seat number like "2B"; a purely numeric reference is
// treated as the 1-based ordinal in the layout, and an ordinal beyond the
// vehicle's seat count is a capacity error rather than a lookup miss.
func (s CatalogService) ResolveSeat(vehicle models.Vehicle, ref string) (models.Seat, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return models.Seat{}, domain.ValidationError{Field: "seat", Msg: "seat reference is required"}
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n <= 0 {
			return models.Seat{}, domain.ValidationError{Field: "seat", Msg: "seat ordinal must be positive"}
		}
		if n > vehicle.TotalSeats {
			return models.Seat{}, domain.CapacityExceededError{SeatNumber: n, Capacity: vehicle.TotalSeats}
		}
		seats, err := s.VehicleRepo.ListSeats(vehicle.ID)
		if err != nil {
			return models.Seat{}, err
		}
		if n > len(seats) {
			return models.Seat{}, domain.SeatNotFoundError{VehicleID: vehicle.ID, SeatNumber: ref}
		}
		return seats[n-1], nil
	}

	return s.VehicleRepo.GetSeatByNumber(vehicle.ID, ref)
}
