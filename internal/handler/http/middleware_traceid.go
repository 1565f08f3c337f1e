package http

import (
	"net/http"

	"github.com/mealkeep/syncserver/internal/utils"
	"github.com/rs/zerolog"
)

const traceIDHeader = "X-Trace-ID"

// traceIDs mints time-ordered identifiers, same scheme as batch IDs, so
// a trace sorts next to the batch it produced.
var traceIDs = utils.NewUUIDGenerator()

// withTraceID tags the request logger with a trace_id and echoes it back
// in the response. Clients resend the header when retrying a queued
// batch, which links the retry to the original attempt in the logs.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = traceIDs.Generate()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}
