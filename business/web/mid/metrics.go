package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/metrics"
	"github.com/ardanlabs/powledger/foundation/web"
)

// Metrics updates the request counters and latency histograms.
func Metrics(m *metrics.Metrics) web.Middleware {

	// This is the actual middleware function to be executed.
	mw := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			m.RequestStarted()
			start := time.Now()

			// Call the next handler.
			err := handler(ctx, w, r)

			// The route label is the registered pattern, never the request path.
			status := http.StatusInternalServerError
			route := "unknown"
			if v, verr := web.GetValues(ctx); verr == nil {
				if v.StatusCode != 0 {
					status = v.StatusCode
				}
				route = v.Route
			}

			m.RequestCompleted(r.Method, route, status, time.Since(start))

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return mw
}
