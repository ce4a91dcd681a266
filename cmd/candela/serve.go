// Package main is the candela brightness daemon and its command-line client.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frudas24/candela/internal/app"
	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/config"
	"github.com/frudas24/candela/internal/gamma"
	"github.com/frudas24/candela/internal/metrics"
	"github.com/frudas24/candela/internal/monitor"
	"github.com/frudas24/candela/internal/schedule"
	"github.com/frudas24/candela/internal/vcp"
)

// newServeCmd builds the daemon command.
func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the brightness daemon and its local API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := c.logger(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// serve wires the engine and blocks until ctx ends.
func serve(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	logStartup(cfg, log)

	enum, err := monitor.New(log.WithField("component", "monitor"))
	if err != nil {
		if !errors.Is(err, monitor.ErrUnsupported) {
			return err
		}
		log.WithError(err).Warn("display control unavailable; brightness changes will be no-ops")
	}

	var collector *metrics.Collector
	opts := []brightness.Option{
		brightness.WithInitialMode(cfg.DefaultMode),
		brightness.WithLogger(log.WithField("component", "controller")),
	}
	if cfg.MetricsEnabled {
		collector = metrics.New()
		opts = append(opts, brightness.WithObserver(collector))
	}

	controller, err := brightness.NewController(
		gamma.New(enum, log.WithField("component", "gamma")),
		vcp.New(enum, log.WithField("component", "vcp")),
		opts...,
	)
	if err != nil {
		return err
	}

	appInstance, err := app.New(cfg, controller, enum, collector, log)
	if err != nil {
		return err
	}
	defer appInstance.Shutdown()

	sched, err := schedule.New(cfg.Schedule, controller, log)
	if err != nil {
		return err
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
	}()

	if err := config.Watch(ctx, cfg.EnvPath(), log, appInstance.ReloadEnv); err != nil {
		log.WithError(err).Debug("env file not watched")
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           appInstance.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logStartup reports configuration checks and connection info.
func logStartup(cfg config.Config, log logrus.FieldLogger) {
	log.WithField("version", version).Info("candela starting")
	logEnvStatus(cfg, log)
	log.WithFields(logrus.Fields{
		"mode":          cfg.DefaultMode,
		"reset_on_exit": cfg.ResetOnExit,
		"metrics":       cfg.MetricsEnabled,
		"schedule":      len(cfg.Schedule),
	}).Info("engine settings")
	logListenStatus(cfg.ListenAddr, log)
}

// logEnvStatus reports whether a .env file was found and a token is set.
func logEnvStatus(cfg config.Config, log logrus.FieldLogger) {
	envPath := cfg.EnvPath()
	if fileExists(envPath) {
		log.WithField("path", envPath).Info("env check: ok")
	} else {
		log.WithField("path", envPath).Info("env check: missing")
	}
	if cfg.APIToken == "" {
		log.Warn("API_TOKEN not set; local API is open")
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string, log logrus.FieldLogger) {
	entry := log.WithField("addr", addr)
	if _, port, err := net.SplitHostPort(addr); err == nil {
		entry = entry.WithField("url", "http://"+net.JoinHostPort(hostForURL(addr), port))
	}
	entry.Info("listening")
}

// hostForURL maps unspecified listen hosts to localhost.
func hostForURL(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" || host == "0.0.0.0" || host == "::" {
		return "localhost"
	}
	return host
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
