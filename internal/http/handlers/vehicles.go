package handlers

import (
	"net/http"

	"bookutu/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type createVehicleRequest struct {
	CompanyID    int64  `json:"company_id"`
	LicensePlate string `json:"license_plate"`
	TotalSeats   int    `json:"total_seats"`
	SeatsPerRow  int    `json:"seats_per_row"`
}

// POST /api/vehicles — registers a vehicle and generates its seat layout.
func (a API) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	vehicle, err := a.catalog(c).CreateVehicle(models.Vehicle{
		CompanyID:    req.CompanyID,
		LicensePlate: req.LicensePlate,
		TotalSeats:   req.TotalSeats,
	}, req.SeatsPerRow)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// GET /api/vehicles/:id
func (a API) GetVehicle(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	vehicle, err := a.Catalog.VehicleRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// GET /api/vehicles/:id/seats
func (a API) ListVehicleSeats(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	seats, err := a.catalog(c).ListSeats(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}
