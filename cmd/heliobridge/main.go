// cmd/heliobridge/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/heliobridge/internal/catalog"
	"github.com/tamzrod/heliobridge/internal/config"
	"github.com/tamzrod/heliobridge/internal/coordinator"
	"github.com/tamzrod/heliobridge/internal/transport"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if len(os.Args) < 2 {
		logger.Fatal().Msg("usage: heliobridge <config.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	h := cfg.Heliotherm

	// --------------------
	// Build the pipeline: catalog -> session -> coordinator
	// --------------------

	cat, err := catalog.Build(h)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog build failed")
	}

	session := transport.New(transport.Config{
		Host:    h.Host,
		Port:    h.Port,
		SlaveID: h.UnitID,
		Timeout: time.Duration(h.TimeoutS) * time.Second,
	}, logger)
	defer session.Close()

	coord, err := coordinator.New(coordinator.Config{
		ScanInterval:     time.Duration(h.ScanIntervalS) * time.Second,
		FailureThreshold: h.FailureThreshold,
		ReadOnly:         *h.ReadOnly,
	}, cat, session, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("coordinator build failed")
	}

	unsubscribe := coord.Subscribe(logListener(logger))
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("host", h.Host).
		Int("port", h.Port).
		Bool("read_only", *h.ReadOnly).
		Int("registers", cat.Len()).
		Msg("starting heliobridge")

	coord.Run(ctx)

	logger.Info().Msg("shutting down")
}

// logListener mirrors coordinator events into the log, the simplest
// subscriber. Other consumers subscribe the same way.
func logListener(logger zerolog.Logger) coordinator.Listener {
	return func(ev coordinator.Event) {
		switch ev.Kind {
		case coordinator.EventUpdated:
			logger.Info().
				Uint64("seq", ev.Snapshot.Seq).
				Int("values", ev.Snapshot.Len()).
				Msg("snapshot updated")
		case coordinator.EventDegraded:
			logger.Warn().
				Err(ev.Err).
				Uint64("seq", ev.Snapshot.Seq).
				Msg("poll failed, serving cached data")
		case coordinator.EventOffline:
			logger.Error().Err(ev.Err).Msg("device offline")
		}
	}
}
