// Package config reads runtime configuration from environment variables.
// main loads an optional .env file first; every loader here only looks at
// the process environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/room-booking-grid/internal/slotgrid"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

// Config holds the application settings.
type Config struct {
	Env             string         // APP_ENV, e.g. "dev" or "prod"
	Port            string         // APP_PORT
	Mode            source.Mode    // BOOKING_MODE: local or libcal
	Hours           slotgrid.Hours // GRID_OPEN_HOUR, GRID_CLOSE_HOUR
	Provider        ProviderConfig
	JWTSecret       string        // JWT_SECRET; empty disables bearer identity
	TokenTTL        time.Duration // PATRON_TOKEN_TTL
	RequireIdentity bool          // REQUIRE_IDENTITY: mutations need a bearer token
	LogLevel        string        // LOG_LEVEL: debug, info, warn, error
	LogFormat       string        // LOG_FORMAT: json or text
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT
}

// ProviderConfig holds the LibCal connection settings.
type ProviderConfig struct {
	BaseURL          string
	ClientID         string
	ClientSecret     string
	ItemIDs          []string
	LocationName     string
	DefaultEmail     string
	Timeout          time.Duration
	TestReservations bool
}

// Load reads Config.  Provider credentials are required only in libcal
// mode.
func Load() (Config, error) {
	cfg := Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: envStr("APP_PORT", "8080"),
		Mode: source.Mode(strings.ToLower(envStr("BOOKING_MODE", string(source.ModeLocal)))),
		Hours: slotgrid.Hours{
			Open:  envInt("GRID_OPEN_HOUR", slotgrid.DefaultOpenHour),
			Close: envInt("GRID_CLOSE_HOUR", slotgrid.DefaultCloseHour),
		},
		Provider: ProviderConfig{
			BaseURL:          envStr("LIBCAL_BASE_URL", "https://api2.libcal.com/1.1"),
			ClientID:         envStr("LIBCAL_CLIENT_ID", ""),
			ClientSecret:     envStr("LIBCAL_CLIENT_SECRET", ""),
			ItemIDs:          envList("LIBCAL_ITEM_IDS"),
			LocationName:     envStr("LIBCAL_LOCATION_NAME", "Library"),
			DefaultEmail:     envStr("LIBCAL_DEFAULT_EMAIL", ""),
			Timeout:          envDur("PROVIDER_TIMEOUT", 15*time.Second),
			TestReservations: envBool("LIBCAL_TEST_RESERVATIONS", false),
		},
		JWTSecret:       envStr("JWT_SECRET", ""),
		TokenTTL:        envDur("PATRON_TOKEN_TTL", time.Hour),
		RequireIdentity: envBool("REQUIRE_IDENTITY", false),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LogFormat:       envStr("LOG_FORMAT", "json"),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	var errs []error
	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid TCP port (got %q)", cfg.Port))
	}
	if err := cfg.Hours.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("GRID_OPEN_HOUR/GRID_CLOSE_HOUR: %w", err))
	}
	if cfg.Provider.Timeout < 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must not be negative"))
	}
	if cfg.RequireIdentity && cfg.JWTSecret == "" {
		errs = append(errs, errors.New("REQUIRE_IDENTITY needs JWT_SECRET"))
	}

	switch cfg.Mode {
	case source.ModeLocal:
	case source.ModeLibCal:
		for _, k := range []string{"LIBCAL_CLIENT_ID", "LIBCAL_CLIENT_SECRET"} {
			if _, err := must(k); err != nil {
				errs = append(errs, err)
			}
		}
		if len(cfg.Provider.ItemIDs) == 0 {
			errs = append(errs, errors.New("LIBCAL_ITEM_IDS must list at least one space id"))
		}
	default:
		errs = append(errs, fmt.Errorf("BOOKING_MODE must be %q or %q (got %q)", source.ModeLocal, source.ModeLibCal, cfg.Mode))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}
