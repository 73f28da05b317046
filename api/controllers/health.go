package controllers

import (
	"net/http"

	"github.com/campusworks/storefront-checkout/api/responses"
	"github.com/campusworks/storefront-checkout/pkg/config"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/logger"
	"github.com/campusworks/storefront-checkout/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		if redisP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "redis not configured"))
			return
		}
		if err := redisP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
