package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iliyamo/room-booking-grid/internal/catalog"
	"github.com/iliyamo/room-booking-grid/internal/config"
	"github.com/iliyamo/room-booking-grid/internal/libcal"
	"github.com/iliyamo/room-booking-grid/internal/logging"
	"github.com/iliyamo/room-booking-grid/internal/queue"
	"github.com/iliyamo/room-booking-grid/internal/router"
	"github.com/iliyamo/room-booking-grid/internal/sample"
	"github.com/iliyamo/room-booking-grid/internal/slotgrid"
	"github.com/iliyamo/room-booking-grid/internal/source"
	"github.com/iliyamo/room-booking-grid/internal/store"
	"github.com/iliyamo/room-booking-grid/internal/telemetry"
)

const service = "room-booking-grid"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, service)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, config.LoadTelemetryConfig(service))
	if err != nil {
		logger.Error("telemetry setup failed", "err", err)
		os.Exit(1)
	}

	src, db, err := newSource(cfg, logger)
	if err != nil {
		logger.Error("data source setup failed", "err", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; response cache off, rate limits kept in process")
	} else {
		defer rdb.Close()
	}

	qcfg := config.LoadQueueConfig()
	var pub queue.Publisher = queue.Nop{}
	if qcfg.Enabled {
		pub = queue.NewAMQPPublisher(qcfg.URL, qcfg.Queue, logger)
		if qcfg.ConsumerEnabled {
			c := &queue.Consumer{URL: qcfg.URL, Queue: qcfg.Queue, LogPath: qcfg.LogPath, Logger: logger}
			go func() {
				if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("event consumer stopped", "err", err)
				}
			}()
		}
	}

	st := store.New(src, logger,
		store.WithPublisher(pub),
		store.WithGrid(slotgrid.Generate(cfg.Hours)),
	)
	defer st.Close()

	// A failed start is not fatal: the store retries initialisation on the
	// next load and /healthz reports the state meanwhile.
	if err := st.InitializeData(ctx); err != nil {
		logger.Error("initial data load failed", "mode", cfg.Mode, "err", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, st, router.Options{
		JWTSecret:       cfg.JWTSecret,
		RequireIdentity: cfg.RequireIdentity,
		Cache:           config.LoadCacheConfig(),
		RateLimit:       config.LoadRateLimitConfig(),
		Redis:           rdb,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: otelhttp.NewHandler(e, service),
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown failed", "err", err)
	}
}

// newSource builds the data source for the configured mode.  The returned
// DB is non-nil only when local mode reads its catalog from MySQL.
func newSource(cfg config.Config, logger *slog.Logger) (source.Source, *sql.DB, error) {
	if cfg.Mode == source.ModeLibCal {
		p := cfg.Provider
		return libcal.New(libcal.Config{
			BaseURL:          p.BaseURL,
			ClientID:         p.ClientID,
			ClientSecret:     p.ClientSecret,
			ItemIDs:          p.ItemIDs,
			LocationName:     p.LocationName,
			DefaultEmail:     p.DefaultEmail,
			Timeout:          p.Timeout,
			TestReservations: p.TestReservations,
		}, logger), nil, nil
	}

	ccfg, err := config.LoadCatalogConfig()
	if err != nil {
		return nil, nil, err
	}
	if ccfg.Source == config.CatalogMySQL {
		db, err := catalog.OpenMySQL(ccfg.DBUser, ccfg.DBPass, ccfg.DBHost, ccfg.DBPort, ccfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		return sample.New(catalog.NewMySQLLoader(db, ccfg.Table), logger), db, nil
	}
	return sample.New(catalog.YAMLLoader{Path: ccfg.Path}, logger), nil, nil
}
