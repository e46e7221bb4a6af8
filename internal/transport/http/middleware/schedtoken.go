package middleware

import (
	"crypto/subtle"
	"net/http"
)

const schedulerTokenHeader = "X-Scheduler-Token"

// SchedulerToken guards the sweep trigger with a shared secret the cron
// scheduler presents. Full authentication lives in the case-management
// shell; this endpoint only needs to keep strangers from burning sweeps.
func SchedulerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(schedulerTokenHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "invalid scheduler token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
