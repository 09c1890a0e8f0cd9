package middleware

import (
	"net/http"

	"github.com/didip/tollbooth/v6"
)

// ThrottleMiddlewareFunc rate-limits the wrapped handler. Applied to the
// operator-triggered refresh endpoint so repeated clicks cannot stack cycles
func ThrottleMiddlewareFunc(h http.Handler) http.Handler {
	var maxRequests float64 = 1.0
	var seconds float64 = 5.0
	limiter := tollbooth.NewLimiter(maxRequests/seconds, nil)
	return tollbooth.LimitFuncHandler(
		limiter,
		func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, r)
		})
}
