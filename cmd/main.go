package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bezrodnovart03/BnovAuto/internal/auth"
	"github.com/bezrodnovart03/BnovAuto/internal/config"
	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/fleet"
	"github.com/bezrodnovart03/BnovAuto/internal/handlers"
	"github.com/bezrodnovart03/BnovAuto/internal/ingest"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/middleware"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	client, err := db.ConnectMongo(cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	log.Info("Connected to MongoDB")

	collections := db.NewCollections(client.Database(cfg.Mongo.Database))
	m := metrics.NewMetrics()

	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
	telemetryService := fleet.NewTelemetryService(collections.Telemetry, collections.Vehicles)
	vehicleService := fleet.NewVehicleService(collections.Vehicles, collections.Companies, telemetryService)
	routeService := fleet.NewRouteService(collections.Routes, collections.Companies, collections.Vehicles, collections.Users)

	authHandler := handlers.NewAuthHandler(authService, collections.Users, collections.Companies)
	companyHandler := handlers.NewCompanyHandler(collections.Companies, m)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, telemetryService, m)
	routeHandler := handlers.NewRouteHandler(routeService, m)
	telemetryHandler := handlers.NewTelemetryHandler(telemetryService, m)
	userHandler := handlers.NewUserHandler(collections.Users, authService, m)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/companies", companyHandler.Handle)
	mux.HandleFunc("/api/companies/", companyHandler.Handle)
	mux.HandleFunc("/api/vehicles", vehicleHandler.Handle)
	mux.HandleFunc("/api/vehicles/", vehicleHandler.Handle)
	mux.HandleFunc("/api/routes", routeHandler.Handle)
	mux.HandleFunc("/api/routes/", routeHandler.Handle)
	mux.HandleFunc("/api/telemetry", telemetryHandler.Handle)
	mux.HandleFunc("/api/users", userHandler.Handle)
	mux.HandleFunc("/api/users/", userHandler.Handle)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = rateLimiter.RateLimit(100, 60)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if cfg.MQTT.Broker != "" {
		ingestor := ingest.NewMQTTIngestor(cfg.MQTT.Broker, cfg.MQTT.Topic, telemetryService, m)
		g.Go(func() error {
			return ingestor.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Server exited with error")
	}
	log.Info("Server stopped")
}
