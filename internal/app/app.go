// Package app wires the brightness controller to the HTTP and websocket surfaces.
package app

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/config"
	"github.com/frudas24/candela/internal/control"
	"github.com/frudas24/candela/internal/metrics"
	"github.com/frudas24/candela/internal/monitor"
	"github.com/frudas24/candela/internal/session"
)

// App coordinates the HTTP API, the control websocket and the brightness controller.
type App struct {
	cfg        config.Config
	controller *brightness.Controller
	enum       monitor.Enumerator
	guard      *session.Guard
	control    *control.Server
	metrics    *metrics.Collector
	log        logrus.FieldLogger
}

// New creates a new application with its dependencies wired. collector may be nil.
func New(cfg config.Config, controller *brightness.Controller, enum monitor.Enumerator, collector *metrics.Collector, log logrus.FieldLogger) (*App, error) {
	if controller == nil {
		return nil, errors.New("brightness controller is required")
	}
	if enum == nil {
		return nil, errors.New("display enumerator is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	guard := session.New(cfg.APIToken)
	a := &App{
		cfg:        cfg,
		controller: controller,
		enum:       enum,
		guard:      guard,
		metrics:    collector,
		log:        log,
	}
	a.control = control.NewServer(controller, guard, log.WithField("component", "control"))
	if collector != nil {
		collector.SetMode(controller.Mode())
	}
	return a, nil
}

// Handler returns the routed HTTP handler.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)
	return a.logRequests(mux)
}

// Shutdown restores full brightness on both strategies when configured to.
func (a *App) Shutdown() []brightness.Report {
	if !a.cfg.ResetOnExit {
		a.log.Info("leaving brightness as is on exit")
		return nil
	}
	reports := a.controller.ResetAll()
	for _, r := range reports {
		a.log.WithFields(logrus.Fields{
			"mode":    r.Mode,
			"applied": r.Applied,
			"targets": r.Targets,
		}).Info("brightness restored on exit")
	}
	return reports
}

// ReloadEnv applies values re-read from the .env file. Only API_TOKEN is live;
// a token set in the process environment is kept.
func (a *App) ReloadEnv(values map[string]string) {
	if a.cfg.TokenFromEnv {
		return
	}
	token := values["API_TOKEN"]
	if token == a.cfg.APIToken {
		return
	}
	a.cfg.APIToken = token
	a.guard.SetToken(token)
	a.log.WithField("enabled", token != "").Info("api token reloaded")
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}
