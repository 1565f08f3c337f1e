package http

import (
	"net/http"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
)

// withLogging emits one line per served request. The device_id field is
// taken straight from the header rather than the auth context, so even
// rejected requests log which device sent them.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		event := log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", lw.status).
			Int("bytes", lw.size).
			Dur("elapsed", time.Since(start))
		if query := r.URL.RawQuery; query != "" {
			event = event.Str("query", query)
		}
		if deviceID := r.Header.Get(deviceIDHeader); deviceID != "" {
			event = event.Str("device_id", deviceID)
		}
		event.Msg("request served")
	})
}
