package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorashop/velora/internal/telemetry/metrics"
)

func TestPanicRecovery(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	r := mux.NewRouter()
	r.HandleFunc("/boom", func(_ http.ResponseWriter, _ *http.Request) {
		panic("handler gone wrong")
	}).Methods("GET")
	r.HandleFunc("/fine", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.Use(PanicRecovery(metricsManager))

	req := httptest.NewRequest("GET", "/boom", nil)
	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(rr, req)
	})

	// the server survives and keeps serving
	req = httptest.NewRequest("GET", "/fine", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
