package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	called := false
	h := CORS("https://example.test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("preflight short-circuits", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("passes through", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		RequestLogger(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.True(t, called)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Ledger-Rejection-Reason")
	})
}
