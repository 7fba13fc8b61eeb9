package gallery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorashop/velora/internal/cache"
)

func getTestHandlerAndRepo(t *testing.T, listingCache *cache.ListingCache) (*mux.Router, *repoMock) {
	t.Helper()

	repo := newRepoMock()
	for i := 1; i <= 4; i++ {
		require.NoError(t, repo.Add(t.Context(), &Image{
			ID:        i,
			Title:     fmt.Sprintf("image %d", i),
			ImageURL:  fmt.Sprintf("https://cdn.velora.test/gallery/%d.jpg", i),
			Category:  "lookbook",
			Position:  5 - i, // reverse display order
			CreatedAt: time.Now(),
		}))
	}

	r := mux.NewRouter()
	handler := NewHandler(repo, listingCache)
	handler.SetupRoutes(r)

	return r, repo
}

func TestHandler_routes(t *testing.T) {
	r, _ := getTestHandlerAndRepo(t, nil)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"list-gallery":         {name: "list-gallery", path: "/api/gallery", method: "GET"},
		"new-gallery-image":    {name: "new-gallery-image", path: "/api/admin/gallery", method: "POST"},
		"update-gallery-image": {name: "update-gallery-image", path: "/api/admin/gallery/2", method: "PUT"},
		"delete-gallery-image": {name: "delete-gallery-image", path: "/api/admin/gallery/2", method: "DELETE"},
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

func TestHandler_handleList_displayOrder(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t, nil)

	req := httptest.NewRequest("GET", "/api/gallery", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var listed []*Image
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, repo.Count())
	// position ascending: image 4 has position 1
	assert.Equal(t, 4, listed[0].ID)
	assert.Equal(t, 1, listed[len(listed)-1].ID)
}

func TestHandler_handleAdd(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t, nil)

	body := `{"title":"new image","image_url":"https://cdn.velora.test/gallery/new.jpg","category":"campaign","position":10}`
	req := httptest.NewRequest("POST", "/api/admin/gallery", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created Image
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, 5, repo.Count())
}

func TestHandler_handleAdd_missingURL(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t, nil)

	req := httptest.NewRequest("POST", "/api/admin/gallery", strings.NewReader(`{"title":"no url"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 4, repo.Count())
}

func TestHandler_handleUpdate(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t, nil)

	req := httptest.NewRequest(
		"PUT", "/api/admin/gallery/2",
		strings.NewReader(`{"title":"retitled","image_url":"https://cdn.velora.test/gallery/2-v2.jpg","position":1}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"updated:2"}`, rr.Body.String())
	assert.Equal(t, "retitled", repo.Images[2].Title)
	assert.Equal(t, 1, repo.Images[2].Position)
}

func TestHandler_handleDelete(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t, nil)

	req := httptest.NewRequest("DELETE", "/api/admin/gallery/3", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"deleted:3"}`, rr.Body.String())
	assert.Equal(t, 3, repo.Count())

	// deleting again
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/admin/gallery/3", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_listCacheInvalidation(t *testing.T) {
	listingCache := cache.NewListingCache(time.Minute)
	r, repo := getTestHandlerAndRepo(t, listingCache)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/gallery", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	firstBody := rr.Body.String()

	require.NoError(t, repo.Delete(t.Context(), 1))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/gallery", nil))
	assert.Equal(t, firstBody, rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/admin/gallery/2", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/gallery", nil))
	assert.NotEqual(t, firstBody, rr.Body.String())
}
