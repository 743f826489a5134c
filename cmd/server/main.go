package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peoplefinder/internal/app"
	"peoplefinder/internal/handlers"
	"peoplefinder/internal/logger"

	"github.com/gofiber/fiber/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to create app", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app cleanly", err)
		}
	}()

	server := fiber.New(fiber.Config{
		AppName: "peoplefinder",
	})

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		address := fmt.Sprintf(":%d", application.Config.Port)
		log.Info("Listening", "address", address)
		if err := server.Listen(address); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Er("failed to shut down cleanly", err)
	}
}
