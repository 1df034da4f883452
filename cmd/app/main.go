package main

import (
	"clinic-service/internal/config"
	apptCancel "clinic-service/internal/http-server/handlers/appointments/cancel"
	apptCheckin "clinic-service/internal/http-server/handlers/appointments/checkin"
	apptCreate "clinic-service/internal/http-server/handlers/appointments/create"
	apptDelete "clinic-service/internal/http-server/handlers/appointments/delete"
	apptGet "clinic-service/internal/http-server/handlers/appointments/get"
	availCreate "clinic-service/internal/http-server/handlers/availability/create"
	availDelete "clinic-service/internal/http-server/handlers/availability/delete"
	availGet "clinic-service/internal/http-server/handlers/availability/get"
	availUpdate "clinic-service/internal/http-server/handlers/availability/update"
	calendarGet "clinic-service/internal/http-server/handlers/calendar/get"
	dashboardGet "clinic-service/internal/http-server/handlers/dashboard/get"
	doctorCreate "clinic-service/internal/http-server/handlers/doctors/create"
	doctorDelete "clinic-service/internal/http-server/handlers/doctors/delete"
	doctorGet "clinic-service/internal/http-server/handlers/doctors/get"
	doctorUpdate "clinic-service/internal/http-server/handlers/doctors/update"
	reportGet "clinic-service/internal/http-server/handlers/reports/get"
	"clinic-service/internal/lock"
	svc "clinic-service/internal/service"
	"clinic-service/internal/storage/postgres"
	"clinic-service/pkg/handlers/slogpretty"
	"clinic-service/pkg/middleware/mwlogger"
	"clinic-service/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, locker)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Doctors
	router.Post("/doctors", doctorCreate.New(log, service))
	router.Get("/doctors", doctorGet.New(log, service))
	router.Get("/doctors/{id}", doctorGet.New(log, service))
	router.Put("/doctors/{id}", doctorUpdate.New(log, service))
	router.Delete("/doctors/{id}", doctorDelete.New(log, service))

	// Availability Windows
	router.Post("/doctors/{doctorID}/availability", availCreate.New(log, service))
	router.Get("/doctors/{doctorID}/availability", availGet.New(log, service))
	router.Get("/availability/{id}", availGet.New(log, service))
	router.Put("/availability/{id}", availUpdate.New(log, service))
	router.Delete("/availability/{id}", availDelete.New(log, service))

	// Appointments
	router.Post("/appointments", apptCreate.New(log, service))
	router.Get("/appointments", apptGet.New(log, service))
	router.Get("/appointments/{id}", apptGet.New(log, service))
	router.Put("/appointments/{id}/cancel", apptCancel.New(log, service))
	router.Put("/appointments/{id}/checkin", apptCheckin.New(log, service))
	router.Delete("/appointments/{id}", apptDelete.New(log, service))

	// Calendar & Dashboard
	router.Get("/calendar", calendarGet.New(log, service))
	router.Get("/dashboard", dashboardGet.New(log, service))

	// Reports
	router.Get("/reports", reportGet.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
