package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mockHandler(responseText string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(responseText))
		if err != nil {
			panic(err)
		}
	})
}

func TestLogMiddlewarePassesRequestThrough(t *testing.T) {
	responseText := "mock response"
	handler := LogMiddlewareFunc(mockHandler(responseText))

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	res, err := io.ReadAll(resp.Body)

	assert.NoError(t, err)
	assert.Equal(t, responseText, string(res))
}

func TestThrottleMiddlewareLimitsRepeatedRequests(t *testing.T) {
	handler := ThrottleMiddlewareFunc(mockHandler("ok"))

	first := httptest.NewRecorder()
	handler.ServeHTTP(
		first,
		httptest.NewRequest("POST", "http://example.com/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(
		second,
		httptest.NewRequest("POST", "http://example.com/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
