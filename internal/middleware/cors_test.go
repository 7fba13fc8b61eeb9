package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func corsTestRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.Use(Cors([]string{"https://www.velora.shop", "http://localhost:3000"}))
	return r
}

func TestCors_allowedOrigin(t *testing.T) {
	r := corsTestRouter()

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("Origin", "https://www.velora.shop")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://www.velora.shop", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCors_noOrigin(t *testing.T) {
	r := corsTestRouter()

	// non-browser clients send no Origin header and just pass through
	req := httptest.NewRequest("GET", "/api/products", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCors_disallowedOrigin(t *testing.T) {
	r := corsTestRouter()

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCors_curlAllowed(t *testing.T) {
	r := corsTestRouter()

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("User-Agent", "curl/8.5.0")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
