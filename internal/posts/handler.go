package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/velorashop/velora/internal/cache"
	"github.com/velorashop/velora/pkg"
)

const listingCacheKey = "posts-listing"

type PostsPageResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}

type postsRepo interface {
	Add(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Post, error)
	All(ctx context.Context) ([]*Post, error)
	AllPublished(ctx context.Context) ([]*Post, error)
	PublishedCount(ctx context.Context) (int, error)
	GetPage(ctx context.Context, page, size int) ([]*Post, error)
}

type Handler struct {
	repo         postsRepo
	listingCache *cache.ListingCache
}

func NewHandler(repo postsRepo, listingCache *cache.ListingCache) *Handler {
	return &Handler{
		repo:         repo,
		listingCache: listingCache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	// public site
	router.HandleFunc("/api/posts", handler.handleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/api/posts/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("posts-page")
	router.HandleFunc("/api/posts/{id}", handler.handleGet).Methods("GET").Name("get-post")
	// admin dashboard
	router.HandleFunc("/api/admin/posts", handler.handleAll).Methods("GET", "OPTIONS").Name("all-posts")
	router.HandleFunc("/api/admin/posts", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/api/admin/posts/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/api/admin/posts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if handler.listingCache != nil {
		if payload, err := handler.listingCache.Get(listingCacheKey); err == nil {
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
			return
		}
	}

	published, err := handler.repo.AllPublished(r.Context())
	if err != nil {
		log.Errorf("get published posts error: %s", err)
		pkg.WriteAPIError(w, "failed to get posts", http.StatusInternalServerError)
		return
	}
	if published == nil {
		published = []*Post{}
	}

	postsJson, err := json.Marshal(published)
	if err != nil {
		log.Errorf("marshal posts error: %s", err)
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if handler.listingCache != nil {
		handler.listingCache.Set(listingCacheKey, postsJson)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsJson)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		pkg.WriteAPIError(w, "invalid parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		pkg.WriteAPIError(w, "invalid parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 || size < 1 {
		pkg.WriteAPIError(w, "page and size have to be non-zero values", http.StatusBadRequest)
		return
	}

	postsPage, err := handler.repo.GetPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get posts page error: %s", err)
		pkg.WriteAPIError(w, "failed to get posts", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.PublishedCount(r.Context())
	if err != nil {
		log.Errorf("get posts count error: %s", err)
		pkg.WriteAPIError(w, "failed to get posts", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(PostsPageResponse{
		Posts: postsPage,
		Total: total,
	})
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteAPIError(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("get post %d: %s", id, err)
		pkg.WriteAPIError(w, "failed to get post", http.StatusInternalServerError)
		return
	}

	postJson, err := json.Marshal(post)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postJson)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allPosts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all posts error: %s", err)
		pkg.WriteAPIError(w, "failed to get posts", http.StatusInternalServerError)
		return
	}
	if allPosts == nil {
		allPosts = []*Post{}
	}

	postsJson, err := json.Marshal(allPosts)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var newPost Post
	if err := json.NewDecoder(r.Body).Decode(&newPost); err != nil {
		log.Errorf("new post, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if newPost.Title == "" {
		pkg.WriteAPIError(w, "post title is required", http.StatusBadRequest)
		return
	}
	if newPost.Content == "" {
		pkg.WriteAPIError(w, "post content is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Add(r.Context(), &newPost); err != nil {
		log.Errorf("add new post failed: %s", err)
		pkg.WriteAPIError(w, "add post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new post %d: [%s] added", newPost.ID, newPost.Title)
	handler.invalidateListing()

	postJson, err := json.Marshal(newPost)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, postJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var updated Post
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update post, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated.ID = id

	if updated.Title == "" || updated.Content == "" {
		pkg.WriteAPIError(w, "post title and content are required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteAPIError(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("update post %d failed: %s", id, err)
		pkg.WriteAPIError(w, "update post failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()
	pkg.WriteAPIMessage(w, fmt.Sprintf("updated:%d", id), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteAPIError(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete post %d: %s", id, err)
		pkg.WriteAPIError(w, "delete post failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()
	pkg.WriteAPIMessage(w, fmt.Sprintf("deleted:%d", id), http.StatusOK)
}

func (handler *Handler) invalidateListing() {
	if handler.listingCache != nil {
		handler.listingCache.Invalidate(listingCacheKey)
	}
}

func idFromRequest(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("id empty")
	}
	return strconv.Atoi(idStr)
}
