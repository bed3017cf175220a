package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"emberfall/server/internal/config"
	"emberfall/server/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "emberfall-server",
		Short:         "Emberfall raid-defense simulation server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
		logFormat  string
		seed       string
		maxTicks   uint64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation and the websocket debug feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			if seed != "" {
				cfg.Seed = seed
				cfg = cfg.Normalized()
			}
			return serve(cfg, maxTicks)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "log format (console|json)")
	cmd.Flags().StringVar(&seed, "seed", "", "world seed (overrides config)")
	cmd.Flags().Uint64Var(&maxTicks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	return cmd
}

func serve(cfg config.Config, maxTicks uint64) error {
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := logging.Get()

	sim, err := newSimulation(cfg, logger)
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}
	hub := newHub(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/telemetry", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sim.counters.Snapshot())
	})

	server := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("debug feed listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	dt := 1.0 / float64(cfg.TickRate)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	logger.Info().
		Int("tick_rate", cfg.TickRate).
		Int("enemies", len(sim.enemies)).
		Str("seed", cfg.Seed).
		Msg("simulation started")

	for {
		select {
		case <-ticker.C:
			sim.Step(dt)
			hub.Broadcast(sim.snapshot())
			if maxTicks > 0 && sim.tick >= maxTicks {
				logger.Info().Int64("ticks", int64(sim.tick)).Msg("tick budget reached")
				return shutdown(server)
			}
		case <-stop:
			logger.Info().Msg("interrupt received")
			return shutdown(server)
		}
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
