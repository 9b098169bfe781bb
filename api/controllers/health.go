package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"storefront/api/responses"
	"storefront/pkg/config"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

// Pinger is any dependency that can report connectivity.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing store and reports ready only when all
// of them answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		var combined error
		for _, p := range pingers {
			if p == nil {
				continue
			}
			combined = multierr.Append(combined, p.Ping(r.Context()))
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
