package api

import (
	"log"
	stdhttp "net/http"

	intconfig "bookutu/internal/config"
	h "bookutu/internal/http/handlers"
	"bookutu/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env, a h.API) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.RequireAuth(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", a.DBCheck)

		api.POST("/auth/login", a.Login)
		api.POST("/auth/register", a.Register)

		api.GET("/companies/:id", a.GetCompany)
		api.GET("/companies/:id/vehicles", a.ListCompanyVehicles)

		vehicles := api.Group("/vehicles")
		vehicles.POST("", auth, a.CreateVehicle)
		vehicles.GET("/:id", a.GetVehicle)
		vehicles.GET("/:id/seats", a.ListVehicleSeats)

		trips := api.Group("/trips")
		trips.GET("", a.SearchTrips)
		trips.POST("", auth, a.CreateTrip)
		trips.GET("/:id", a.GetTrip)
		trips.GET("/:id/seats", a.TripSeatAvailability)
		trips.PUT("/:id/status", auth, a.UpdateTripStatus)
		trips.POST("/:id/reservations", auth, a.Reserve)
		trips.DELETE("/:id/reservations", auth, a.Release)

		bookings := api.Group("/bookings", auth)
		bookings.POST("", a.CreateBooking)
		bookings.GET("", a.ListMyBookings)
		bookings.GET("/:ref", a.GetBooking)
		bookings.GET("/:ref/payments", a.ListBookingPayments)
		bookings.POST("/:ref/confirm", a.ConfirmBooking)
		bookings.POST("/:ref/cancel", a.CancelBooking)

		api.POST("/payments/webhook", a.PaymentWebhook)
		api.GET("/payments/:reference", auth, a.GetPayment)

		admin := api.Group("/admin", auth)
		admin.POST("/companies", a.CreateCompany)
		admin.PUT("/companies/:id/settings", a.UpdateCompanySettings)
		admin.PUT("/trips/:id/pricing", a.SetTripPricing)
		admin.GET("/trips/:id/bookings", a.TripManifest)
		admin.POST("/trips/:id/recount", a.RecountTrip)
		admin.POST("/trips/:id/depart", a.DepartTrip)
	}

	return r
}
