package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/drapeline/drapeline-backend/api/responses"
	"github.com/drapeline/drapeline-backend/pkg/config"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
)

// Pinger is the health-check surface a hard dependency exposes.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Drapeline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. Any failing ping flips readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				healthy = false
				checks[name] = "down"
				if logg != nil {
					logg.Error(ctx, "health.ready dependency failed", err)
				}
				continue
			}
			checks[name] = "up"
		}

		w.Header().Set("X-Drapeline-Env", cfg.App.Env)
		if !healthy {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
