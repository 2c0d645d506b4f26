// File: appointly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appointly/config"
	"appointly/cron"
	"appointly/database"
	availabilityRepoPkg "appointly/database/repository/availability"
	bookingRepoPkg "appointly/database/repository/booking"
	catalogRepoPkg "appointly/database/repository/catalog"
	"appointly/handlers"
	"appointly/middleware"
	"appointly/routes"
	"appointly/services/availability"
	"appointly/services/booking"
	"appointly/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSlotCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	availRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	catRepo := catalogRepoPkg.NewMongoCatalogRepo()

	// Services.
	slotCache := utils.GetSlotCacheClient()
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:  availRepo,
		Cache: slotCache,
	}

	schedulingEngine := &booking.DefaultSchedulingEngine{
		Availability: availabilityService,
		Bookings:     bookRepo,
		Catalog:      catRepo,
		Cache:        slotCache,
	}

	// Handlers.
	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityService, schedulingEngine),
		Booking:      handlers.NewBookingHandler(schedulingEngine),
		Catalog:      handlers.NewCatalogHandler(catRepo, slotCache),
		Payments:     handlers.NewPaymentWebhookHandler(schedulingEngine),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background completion sweep.
	cron.InitCompletionSweeper(schedulingEngine, bookRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
