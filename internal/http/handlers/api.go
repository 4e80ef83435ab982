package handlers

import (
	intconfig "bookutu/internal/config"
	"bookutu/internal/http/middleware"
	"bookutu/internal/repositories"
	"bookutu/internal/services"

	"github.com/gin-gonic/gin"
)

// API bundles the wired services for the HTTP handlers. Services are
// value types; per-request copies get the request id stamped on so
// every log line downstream is traceable.
type API struct {
	Env          intconfig.Env
	Companies    services.CompanyService
	Catalog      services.CatalogService
	Trips        services.TripService
	Reservations services.ReservationService
	Bookings     services.BookingService
	Users        repositories.UserRepository
}

func (a API) companies(c *gin.Context) services.CompanyService {
	svc := a.Companies
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (a API) catalog(c *gin.Context) services.CatalogService {
	svc := a.Catalog
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (a API) trips(c *gin.Context) services.TripService {
	svc := a.Trips
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (a API) reservations(c *gin.Context) services.ReservationService {
	svc := a.Reservations
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (a API) bookings(c *gin.Context) services.BookingService {
	svc := a.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	if svc.Notifier == nil {
		svc.Notifier = services.LogNotifier{RequestID: svc.RequestID}
	}
	return svc
}
