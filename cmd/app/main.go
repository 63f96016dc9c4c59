package main

import (
	"concierge/config"
	"concierge/di"
	"concierge/shared/logger"
)

// @title Concierge Booking Desk API
// @version 1.0
// @description Availability-aware booking-slot engine for the restaurant and hotel dashboard.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
