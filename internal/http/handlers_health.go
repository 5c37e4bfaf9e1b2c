package httpx

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"

	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

// HealthCheck probes one dependency, such as the session store.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// healthHandler reports {"status":"ok"} when every check passes and 503 with
// the failing check otherwise. HEAD returns headers only.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := slices.Sorted(maps.Keys(checks))
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: string(apperrors.ErrCodeUnavailable),
					Err:     apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "%s unavailable", name),
				})
				return
			}
		}

		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
