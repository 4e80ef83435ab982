package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookutu/internal/cache"
	intconfig "bookutu/internal/config"
	"bookutu/internal/db"
	api "bookutu/internal/http"
	"bookutu/internal/http/handlers"
	"bookutu/internal/repositories"
	"bookutu/internal/services"
	"bookutu/internal/worker"

	"github.com/redis/go-redis/v9"
)

func main() {
	env := intconfig.LoadEnv()

	conn := intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: env.RedisAddr})
	defer redisClient.Close()
	availability := cache.AvailabilityCache{Client: redisClient, TTL: env.AvailabilityTTL}

	companies := services.CompanyService{CompanyRepo: repositories.CompanyRepository{}}
	catalog := services.CatalogService{VehicleRepo: repositories.VehicleRepository{}}
	trips := services.TripService{
		TripRepo:        repositories.TripRepository{},
		VehicleRepo:     repositories.VehicleRepository{},
		CompanyRepo:     repositories.CompanyRepository{},
		ReservationRepo: repositories.ReservationRepository{},
		Cache:           availability,
	}
	reservations := services.ReservationService{
		TripRepo:        repositories.TripRepository{},
		VehicleRepo:     repositories.VehicleRepository{},
		ReservationRepo: repositories.ReservationRepository{},
		Trips:           trips,
		Catalog:         catalog,
		TTL:             env.ReservationTTL,
	}
	bookings := services.BookingService{
		BookingRepo:     repositories.BookingRepository{},
		TripRepo:        repositories.TripRepository{},
		VehicleRepo:     repositories.VehicleRepository{},
		CompanyRepo:     repositories.CompanyRepository{},
		ReservationRepo: repositories.ReservationRepository{},
		PaymentRepo:     repositories.PaymentRepository{},
		Trips:           trips,
		Catalog:         catalog,
		Cache:           availability,
	}

	r := api.NewRouter(env, handlers.API{
		Env:          env,
		Companies:    companies,
		Catalog:      catalog,
		Trips:        trips,
		Reservations: reservations,
		Bookings:     bookings,
		Users:        repositories.UserRepository{},
	})

	sweeper := &worker.Sweeper{Reservations: reservations, Interval: env.SweepInterval}
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
