package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"domotica/internal/config"
	"domotica/internal/handlers"
	"domotica/internal/logger"
	"domotica/internal/models"
	"domotica/internal/protocol"
	"domotica/internal/registry"
	"domotica/internal/server"
	"domotica/internal/service"
	"domotica/internal/tcp"
	"domotica/internal/telemetry"
)

const defaultSimTick = 1 * time.Second

func main() {
	// load config.yml
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)

	// wire dependencies
	reg := registry.New(log, buildInventory(cfg))
	defer reg.Close()

	services, err := service.NewService(reg, cfg.Users, cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalw("failed to init services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start thermostat simulator (via composed service)
	go services.Simulator.Run(ctx, defaultSimTick)

	// start TCP command server
	tcpServer := tcp.New(protocol.NewInterpreter(services), log)
	tcpAddr := fmt.Sprintf("%s:%d", cfg.TCP.Host, cfg.TCP.Port)
	if err := tcpServer.Start(tcpAddr); err != nil {
		log.Fatalw("error starting tcp server", "addr", tcpAddr, "err", err)
	}

	// start UDP telemetry broadcaster
	broadcastAddr := fmt.Sprintf("%s:%d", cfg.UDP.Broadcast, cfg.UDP.Port)
	broadcaster := telemetry.New(services, broadcastAddr, log)
	go func() {
		if err := broadcaster.Run(ctx, cfg.UDP.Interval); err != nil {
			log.Errorw("telemetry broadcaster failed", "err", err)
		}
	}()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.HTTP.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, tcpServer, log)
}

// buildInventory converts configured devices into the startup inventory.
func buildInventory(cfg *config.Config) []models.Device {
	inventory := make([]models.Device, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		inventory = append(inventory, models.NewDevice(d.ID, d.Type))
	}
	return inventory
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, tcpServer *tcp.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// close the command port and its sessions
	tcpServer.Stop()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
