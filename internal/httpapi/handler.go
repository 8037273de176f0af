// Package httpapi is a thin echo front-end exposing the same
// analyze_domain contract as the CLI, grounded on the teacher's
// internal/handler (Handler.Index's form-driven scan endpoint), reworked
// here into a single JSON POST /scan route instead of the teacher's
// HTML+HTMX form handler.
package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/domainguard/domainguard/internal/history"
	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/scanner"
)

// Runner is the subset of *scanner.Coordinator the handler needs.
type Runner interface {
	AnalyzeDomain(ctx context.Context, target string, opts scanner.Options) []model.ScanResult
	GetLiveMXDomains(ctx context.Context, target string, opts scanner.Options) []model.ScanResult
}

type Handler struct {
	Scanner Runner
	History *history.Store
}

func NewHandler(s Runner, hist *history.Store) *Handler {
	return &Handler{Scanner: s, History: hist}
}

// Register wires every route onto e.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/scan", h.Scan)
	e.GET("/history/:target", h.ListHistory)
}

type scanRequest struct {
	Target      string `json:"target"`
	Whois       bool   `json:"whois"`
	ContentHash bool   `json:"content_hash"`
	MxOnly      bool   `json:"mx_only"`
}

// Scan implements POST /scan: run analyze_domain (or get_live_mx_domains
// when mx_only is set) against the submitted target and return the raw
// result list as JSON.
func (h *Handler) Scan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Target == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "target is required"})
	}

	opts := scanner.Options{
		Whois:       req.Whois,
		ContentHash: req.ContentHash,
		Ordered:     true,
	}.WithDefaults()

	ctx := c.Request().Context()

	var results []model.ScanResult
	if req.MxOnly {
		results = h.Scanner.GetLiveMXDomains(ctx, req.Target, opts)
	} else {
		results = h.Scanner.AnalyzeDomain(ctx, req.Target, opts)
	}

	if h.History != nil {
		if err := h.History.AddSnapshot(ctx, req.Target, results); err != nil {
			obs.Log.Warn("failed to persist scan history", obs.Field("target", req.Target), obs.Field("error", err.Error()))
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"target":  req.Target,
		"results": results,
	})
}

// ListHistory implements GET /history/:target: stored snapshots plus diffs
// against the immediately preceding one.
func (h *Handler) ListHistory(c echo.Context) error {
	if h.History == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history store not configured"})
	}
	target := c.Param("target")
	entries, diffs, err := h.History.GetSnapshotsWithDiffs(c.Request().Context(), target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"diffs":   diffs,
	})
}
