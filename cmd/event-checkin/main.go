package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventcheckin/internal/broadcast"
	"eventcheckin/internal/checkin"
	"eventcheckin/internal/clock"
	"eventcheckin/internal/config"
	"eventcheckin/internal/consumer"
	"eventcheckin/internal/directory"
	"eventcheckin/internal/http-server/handlers/admin/resetEvent"
	"eventcheckin/internal/http-server/handlers/checkin/submit"
	"eventcheckin/internal/http-server/handlers/dashboard/subscribe"
	"eventcheckin/internal/http-server/handlers/event/getCheckins"
	"eventcheckin/internal/http-server/handlers/event/getOccupancy"
	"eventcheckin/internal/http-server/middleware/mwlogger"
	"eventcheckin/internal/lib/logger/handlers/slogpretty"
	"eventcheckin/internal/lib/logger/sl"
	"eventcheckin/internal/occupancy"
	"eventcheckin/internal/storage/memory"
	"eventcheckin/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type storageBackend interface {
	checkin.EventStore
	checkin.Ledger
	consumer.EventStore
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting event check-in service", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	var storage storageBackend

	switch cfg.Storage {
	case "memory":
		storage = memory.New()
		log.Warn("using in-memory storage, check-ins will not survive a restart")
	default:
		pg, err := postgres.InitDB(&cfg.Database)
		if err != nil {
			log.Error("failed to init storage", sl.Err(err))
			os.Exit(1)
		}
		defer func() {
			if err := pg.Close(); err != nil {
				log.Error("failed to close postgres connection", sl.Err(err))
			}
		}()
		storage = pg
	}

	var dir checkin.AttendeeDirectory
	var ticketing occupancy.Ticketing

	if cfg.Redis.Enabled {
		rd, err := directory.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("failed to init attendee directory", sl.Err(err))
			os.Exit(1)
		}
		defer rd.Close()
		dir = rd
		ticketing = rd
	} else {
		log.Warn("attendee directory is not configured, all lookups will miss")
		static := directory.NewStatic()
		dir = static
		ticketing = static
	}

	clk := clock.NewSystem()
	hub := broadcast.NewHub()
	agg := occupancy.New(storage, ticketing, clk)
	validator := checkin.NewValidator(clk, checkin.WithQRTTL(cfg.CheckIn.QRTTL))
	service := checkin.NewService(storage, storage, dir, validator, agg, hub, clk)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/events/{id}/checkin", submit.New(log, service))
	router.Get("/events/{id}/occupancy", getOccupancy.New(log, service))
	router.Get("/events/{id}/checkins", getCheckins.New(log, service))
	router.Get("/events/{id}/subscribe", subscribe.New(log, hub, service))
	router.Post("/events/{id}/reset", resetEvent.New(log, service))

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:        cfg.HTTPServer.Address,
		Handler:     router,
		ReadTimeout: cfg.HTTPServer.Timeout,
		// SSE subscriptions outlive any sane write timeout.
		WriteTimeout: 0,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.AMQP.Enabled {
		lifecycle, err := consumer.NewLifecycle(log, cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, storage)
		if err != nil {
			log.Error("failed to init lifecycle consumer", sl.Err(err))
			os.Exit(1)
		}
		defer lifecycle.Close()

		go func() {
			if err := lifecycle.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("lifecycle consumer stopped", sl.Err(err))
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(cfg.CheckIn.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for _, eventID := range hub.ActiveTopics() {
					if err := service.Refresh(ctx, eventID); err != nil {
						log.Error("failed to refresh snapshot", sl.Err(err),
							slog.String("event_id", eventID))
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
