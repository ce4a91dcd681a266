// Package app wires the brightness controller to the HTTP and websocket surfaces.
package app

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/monitor"
	"github.com/frudas24/candela/internal/web"
)

// RegisterRoutes wires API, metrics, websocket and panel handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/state", a.guard.Require(http.HandlerFunc(a.handleState)))
	mux.Handle("/api/brightness", a.guard.Require(http.HandlerFunc(a.handleBrightness)))
	mux.Handle("/api/mode/toggle", a.guard.Require(http.HandlerFunc(a.handleToggle)))
	mux.Handle("/api/reset", a.guard.Require(http.HandlerFunc(a.handleReset)))
	mux.Handle("/api/displays", a.guard.Require(http.HandlerFunc(a.handleDisplays)))
	mux.Handle("/ws/control", a.Control())
	if a.cfg.MetricsEnabled && a.metrics != nil {
		mux.Handle("/metrics", a.metrics.Handler())
	}
	mux.HandleFunc("/favicon.ico", handleFavicon)
	mux.Handle("/", a.staticFileServer(a.cfg.StaticDir))
}

// BrightnessRequest is the body of POST /api/brightness.
type BrightnessRequest struct {
	Percent *int `json:"percent"`
}

// ToggleResponse is the body returned by POST /api/mode/toggle.
type ToggleResponse struct {
	State brightness.State  `json:"state"`
	Reset brightness.Report `json:"reset"`
}

// ResetRequest is the optional body of POST /api/reset.
type ResetRequest struct {
	All bool `json:"all"`
}

// handleState returns the active mode and level.
func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, a.controller.State())
}

// handleBrightness applies a level through the active strategy.
func (a *App) handleBrightness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req BrightnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Percent == nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	writeJSON(w, a.controller.SetBrightness(*req.Percent))
}

// handleToggle switches mode after resetting the outgoing strategy.
func (a *App) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report := a.controller.ToggleMode()
	writeJSON(w, ToggleResponse{State: a.controller.State(), Reset: report})
}

// handleReset restores full brightness on the active strategy, or both with {"all":true}.
func (a *App) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ResetRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	}
	if req.All {
		writeJSON(w, a.controller.ResetAll())
		return
	}
	writeJSON(w, []brightness.Report{a.controller.Reset()})
}

// handleDisplays returns a live listing of both display views.
func (a *App) handleDisplays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	listing, err := monitor.List(a.enum)
	if err != nil {
		a.log.WithError(err).Warn("display listing failed")
		http.Error(w, "failed to list displays", http.StatusInternalServerError)
		return
	}
	writeJSON(w, listing)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader records the status code.
func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests traces every request at debug level.
func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws/control" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"latency": time.Since(start),
		}).Debug("http request")
	})
}

// staticFileServer serves the control panel, preferring staticDir on disk over the embedded copy.
func (a *App) staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
		a.log.WithField("dir", staticDir).Warn("static dir not found; using embedded panel")
	}
	embedded, err := web.StaticFS()
	if err != nil {
		a.log.WithError(err).Warn("static assets unavailable")
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
