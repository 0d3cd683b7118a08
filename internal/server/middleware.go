package server

import (
	"context"
	"net/http"
	"time"

	"mealbook/internal/auth"
	"mealbook/internal/metrics"
)

type contextKey string

const userIDKey contextKey = "userID"

// middlewareAuthenticate validates the bearer token and stores the
// authenticated user ID on the request context.
func (cfg *APIConfig) middlewareAuthenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.GetBearerToken(r.Header)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Missing or malformed token", err)
			return
		}

		userID, err := auth.ValidateJWT(token, cfg.JWTSecret)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid token", err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// authenticatedUserID returns the user ID placed by middlewareAuthenticate.
func authenticatedUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// middlewareMetrics records one metric row per handled request.
func (cfg *APIConfig) middlewareMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		if cfg.Metrics == nil {
			return
		}
		_ = cfg.Metrics.Record(metrics.RequestMetric{
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: recorder.status,
			LatencyMS:  time.Since(start).Milliseconds(),
		})
	})
}
