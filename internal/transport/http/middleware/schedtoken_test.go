package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func schedHandler(token string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	return SchedulerToken(token)(ok)
}

func TestSchedulerToken_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/sweep", nil)
	req.Header.Set("X-Scheduler-Token", "s3cret")
	rec := httptest.NewRecorder()

	schedHandler("s3cret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSchedulerToken_WrongToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/sweep", nil)
	req.Header.Set("X-Scheduler-Token", "wrong")
	rec := httptest.NewRecorder()

	schedHandler("s3cret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSchedulerToken_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/sweep", nil)
	rec := httptest.NewRecorder()

	schedHandler("s3cret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
