// Package client talks to a running candela daemon over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frudas24/candela/internal/app"
	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/monitor"
	"github.com/frudas24/candela/internal/session"
)

// Client calls the daemon API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// StatusError reports a non-2xx answer from the daemon.
type StatusError struct {
	Code int
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("daemon answered %d: %s", e.Code, e.Body)
}

// New returns a client for addr (host:port or a full URL).
func New(addr, token string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

// State returns the daemon's mode and level.
func (c *Client) State(ctx context.Context) (brightness.State, error) {
	var st brightness.State
	err := c.do(ctx, http.MethodGet, "/api/state", nil, &st)
	return st, err
}

// SetBrightness applies percent through the active strategy.
func (c *Client) SetBrightness(ctx context.Context, percent int) (brightness.Report, error) {
	var report brightness.Report
	err := c.do(ctx, http.MethodPost, "/api/brightness", app.BrightnessRequest{Percent: &percent}, &report)
	return report, err
}

// ToggleMode switches the daemon's mode.
func (c *Client) ToggleMode(ctx context.Context) (app.ToggleResponse, error) {
	var resp app.ToggleResponse
	err := c.do(ctx, http.MethodPost, "/api/mode/toggle", nil, &resp)
	return resp, err
}

// Reset restores full brightness on the active strategy, or both when all is set.
func (c *Client) Reset(ctx context.Context, all bool) ([]brightness.Report, error) {
	var reports []brightness.Report
	err := c.do(ctx, http.MethodPost, "/api/reset", app.ResetRequest{All: all}, &reports)
	return reports, err
}

// Displays returns the daemon's live display listing.
func (c *Client) Displays(ctx context.Context) (monitor.Listing, error) {
	var listing monitor.Listing
	err := c.do(ctx, http.MethodGet, "/api/displays", nil, &listing)
	return listing, err
}

// do sends one JSON request and decodes the JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(session.HeaderToken, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
