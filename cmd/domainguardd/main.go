// Command domainguardd is the optional HTTP daemon front-end: echo server
// exposing POST /scan, Prometheus metrics, and a cron-driven watch-list
// scheduler. Grounded on the teacher's cmd/server/main.go (echo.New,
// middleware.Logger/Recover, graceful shutdown on os.Interrupt), with the
// template-rendered HTML+HTMX surface replaced by the JSON API in
// internal/httpapi.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domainguard/domainguard/internal/config"
	"github.com/domainguard/domainguard/internal/history"
	"github.com/domainguard/domainguard/internal/httpapi"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/permute"
	"github.com/domainguard/domainguard/internal/scanner"
	"github.com/domainguard/domainguard/internal/scheduler"
)

func main() {
	obs.InitLogger()
	defer obs.Log.Sync()

	cfg := config.Load()

	coord := scanner.NewCoordinator(cfg.Resolver, cfg.RdapBootstrapURL, cfg.WhoisServersPath, permute.NewDefaultSource())
	coord.Limiter = scanner.NewRateLimiter(0)

	var hist *history.Store
	if cfg.RedisAddr != "" {
		hist = history.NewStore(cfg.RedisAddr)
	}

	watchTargets := watchListFromEnv()
	if len(watchTargets) > 0 {
		sched := scheduler.New(coord, hist, scanner.Options{Whois: true}.WithDefaults(), watchTargets)
		sched.Start()
		defer sched.Stop()
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	h := httpapi.NewHandler(coord, hist)
	h.Register(e)

	if cfg.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			obs.Log.Fatal("server failed to start", obs.Field("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		obs.Log.Error("server shutdown error", obs.Field("error", err.Error()))
	}
}

func watchListFromEnv() []string {
	raw := os.Getenv("DOMAINGUARD_WATCH_TARGETS")
	if raw == "" {
		return nil
	}
	var targets []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}
