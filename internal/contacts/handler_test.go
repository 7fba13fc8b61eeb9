package contacts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorashop/velora/internal/telemetry/metrics"
)

func getTestHandlerAndRepo(t *testing.T) (*mux.Router, *repoMock, *metrics.Manager) {
	t.Helper()

	repo := newRepoMock()
	metricsManager := metrics.NewTestManager()

	r := mux.NewRouter()
	handler := NewHandler(repo, metricsManager)
	handler.SetupRoutes(r)

	return r, repo, metricsManager
}

func TestHandler_routes(t *testing.T) {
	r, _, _ := getTestHandlerAndRepo(t)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"new-contact-message":    {name: "new-contact-message", path: "/api/contacts", method: "POST"},
		"all-contact-messages":   {name: "all-contact-messages", path: "/api/admin/contacts", method: "GET"},
		"delete-contact-message": {name: "delete-contact-message", path: "/api/admin/contacts/2", method: "DELETE"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

func TestHandler_handleNewMessage_json(t *testing.T) {
	r, repo, metricsManager := getTestHandlerAndRepo(t)

	body := `{"name":"Mia","email":"mia@customer.test","subject":"sizing","message":"does the coat run small?"}`
	req := httptest.NewRequest("POST", "/api/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"message received"}`, rr.Body.String())
	require.Equal(t, 1, repo.Count())
	assert.Equal(t, "203.0.113.7", repo.Messages[1].SenderIP)
	assert.InDelta(t, 1, testutil.ToFloat64(metricsManager.CounterContactMessages), 0.01)
}

func TestHandler_handleNewMessage_unreadableSenderIP(t *testing.T) {
	r, repo, _ := getTestHandlerAndRepo(t)

	body := `{"name":"Noa","email":"noa@customer.test","message":"got a question about returns"}`
	req := httptest.NewRequest("POST", "/api/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-Ip", "not-an-ip-address")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	// sender IP is metadata only, the message still lands
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, 1, repo.Count())
	assert.Empty(t, repo.Messages[1].SenderIP)
}

func TestHandler_handleNewMessage_form(t *testing.T) {
	r, repo, _ := getTestHandlerAndRepo(t)

	form := url.Values{}
	form.Set("name", "Luka")
	form.Set("email", "luka@customer.test")
	form.Set("message", "where is my order?")

	req := httptest.NewRequest("POST", "/api/contacts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, 1, repo.Count())
	assert.Equal(t, "luka@customer.test", repo.Messages[1].Email)
}

func TestHandler_handleNewMessage_invalid(t *testing.T) {
	r, repo, metricsManager := getTestHandlerAndRepo(t)

	for name, body := range map[string]string{
		"not json":        "definitely not json",
		"missing email":   `{"name":"anon","message":"hello"}`,
		"missing message": `{"name":"anon","email":"anon@customer.test"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/contacts", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, 0, repo.Count())
		})
	}

	assert.InDelta(t, 0, testutil.ToFloat64(metricsManager.CounterContactMessages), 0.01)
}

func TestHandler_handleAll(t *testing.T) {
	r, repo, _ := getTestHandlerAndRepo(t)

	require.NoError(t, repo.Add(t.Context(), &Message{Email: "a@customer.test", Content: "first"}))
	require.NoError(t, repo.Add(t.Context(), &Message{Email: "b@customer.test", Content: "second"}))

	req := httptest.NewRequest("GET", "/api/admin/contacts", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var listed []*Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	// newest first
	assert.Equal(t, "second", listed[0].Content)
}

func TestHandler_handleDelete(t *testing.T) {
	r, repo, _ := getTestHandlerAndRepo(t)

	require.NoError(t, repo.Add(t.Context(), &Message{Email: "a@customer.test", Content: "first"}))

	req := httptest.NewRequest("DELETE", "/api/admin/contacts/1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"deleted:1"}`, rr.Body.String())
	assert.Equal(t, 0, repo.Count())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/admin/contacts/1", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
