package models

// Vehicle is a bus in a company fleet. Immutable once its seat layout has
// been generated.
type Vehicle struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyId"`
	LicensePlate string `json:"licensePlate"`
	TotalSeats   int    `json:"totalSeats"`
}

// Seat positions within a row. 4-wide rows use all four; 2-wide rows use
// the LEFT pair only.
const (
	PositionLeftWindow  = "LEFT_WINDOW"
	PositionLeftAisle   = "LEFT_AISLE"
	PositionRightAisle  = "RIGHT_AISLE"
	PositionRightWindow = "RIGHT_WINDOW"
)

// Seat types.
const (
	SeatTypeRegular = "REGULAR"
	SeatTypePremium = "PREMIUM"
	SeatTypeVIP     = "VIP"
)

// Seat is one addressable position on a vehicle. (vehicle, seat number) is
// unique; rows are created at vehicle-creation time and never mutated in
// normal operation.
type Seat struct {
	ID              int64   `json:"id"`
	VehicleID       int64   `json:"vehicleId"`
	SeatNumber      string  `json:"seatNumber"` // e.g. "1A", "12B"
	RowNumber       int     `json:"rowNumber"`
	Position        string  `json:"position"`
	SeatType        string  `json:"seatType"`
	IsWindow        bool    `json:"isWindow"`
	IsAisle         bool    `json:"isAisle"`
	PriceMultiplier float64 `json:"priceMultiplier"` // 1.0 = base price
}
