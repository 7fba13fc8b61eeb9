package category

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestHandlerAndRepo(t *testing.T) (*mux.Router, *repoMock) {
	t.Helper()

	repo := newRepoMock()
	require.NoError(t, repo.Add(t.Context(), &Category{Name: "apparel", Slug: "apparel", Kind: KindProduct}))
	require.NoError(t, repo.Add(t.Context(), &Category{Name: "accessories", Slug: "accessories", Kind: KindProduct}))
	require.NoError(t, repo.Add(t.Context(), &Category{Name: "news", Slug: "news", Kind: KindPost}))
	require.NoError(t, repo.Add(t.Context(), &Category{Name: "lookbook", Slug: "lookbook", Kind: KindGallery}))

	r := mux.NewRouter()
	handler := NewHandler(repo)
	handler.SetupRoutes(r)

	return r, repo
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"product", "post", "gallery"} {
		kind, err := ParseKind(valid)
		require.NoError(t, err)
		assert.NotEmpty(t, kind.Table())
	}

	for _, invalid := range []string{"", "products", "bogus", "Product"} {
		_, err := ParseKind(invalid)
		assert.ErrorIs(t, err, ErrUnknownKind, invalid)
	}
}

func TestHandler_routes(t *testing.T) {
	r, _ := getTestHandlerAndRepo(t)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"list-categories": {name: "list-categories", path: "/api/categories/product", method: "GET"},
		"new-category":    {name: "new-category", path: "/api/admin/categories/post", method: "POST"},
		"update-category": {name: "update-category", path: "/api/admin/categories/gallery/2", method: "PUT"},
		"delete-category": {name: "delete-category", path: "/api/admin/categories/product/2", method: "DELETE"},
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

func TestHandler_handleList_perKind(t *testing.T) {
	r, _ := getTestHandlerAndRepo(t)

	req := httptest.NewRequest("GET", "/api/categories/product", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var listed []*Category
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	// name ascending
	assert.Equal(t, "accessories", listed[0].Name)
	assert.Equal(t, "apparel", listed[1].Name)

	// post categories are a separate listing
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/categories/post", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "news", listed[0].Name)
}

func TestHandler_handleList_unknownKind(t *testing.T) {
	r, _ := getTestHandlerAndRepo(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/categories/bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_handleAdd(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t)

	req := httptest.NewRequest(
		"POST", "/api/admin/categories/gallery",
		strings.NewReader(`{"name":"campaign","slug":"campaign"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created Category
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, KindGallery, created.Kind)
	assert.Equal(t, 5, repo.CountAll())

	// missing name
	req = httptest.NewRequest("POST", "/api/admin/categories/gallery", strings.NewReader(`{"slug":"empty"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 5, repo.CountAll())
}

func TestHandler_handleUpdate(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t)

	req := httptest.NewRequest(
		"PUT", "/api/admin/categories/product/1",
		strings.NewReader(`{"name":"clothing","slug":"clothing"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"updated:1"}`, rr.Body.String())
	assert.Equal(t, "clothing", repo.Categories[kindAndID{KindProduct, 1}].Name)

	// same id under a different kind is not found
	req = httptest.NewRequest(
		"PUT", "/api/admin/categories/gallery/1",
		strings.NewReader(`{"name":"clothing"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_handleDelete(t *testing.T) {
	r, repo := getTestHandlerAndRepo(t)

	req := httptest.NewRequest("DELETE", "/api/admin/categories/post/3", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"deleted:3"}`, rr.Body.String())
	assert.Equal(t, 3, repo.CountAll())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/admin/categories/post/3", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
