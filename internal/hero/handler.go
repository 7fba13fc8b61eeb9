package hero

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

const listingCacheKey = "hero-listing"

type heroRepo interface {
	Add(ctx context.Context, slide *Slide) error
	Update(ctx context.Context, slide *Slide) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Slide, error)
	All(ctx context.Context) ([]*Slide, error)
	AllActive(ctx context.Context) ([]*Slide, error)
}

type Handler struct {
	repo         heroRepo
	listingCache *cache.ListingCache
}

func NewHandler(repo heroRepo, listingCache *cache.ListingCache) *Handler {
	return &Handler{
		repo:         repo,
		listingCache: listingCache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/hero", handler.handleList).Methods("GET").Name("list-hero")
	router.HandleFunc("/api/admin/hero", handler.handleAll).Methods("GET", "OPTIONS").Name("all-hero")
	router.HandleFunc("/api/admin/hero", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-hero-slide")
	router.HandleFunc("/api/admin/hero/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-hero-slide")
	router.HandleFunc("/api/admin/hero/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-hero-slide")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if handler.listingCache != nil {
		if payload, err := handler.listingCache.Get(listingCacheKey); err == nil {
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
			return
		}
	}

	slides, err := handler.repo.AllActive(r.Context())
	if err != nil {
		log.Errorf("get hero slides error: %s", err)
		pkg.WriteAPIError(w, "failed to get hero slides", http.StatusInternalServerError)
		return
	}
	if slides == nil {
		slides = []*Slide{}
	}

	slidesJson, err := json.Marshal(slides)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if handler.listingCache != nil {
		handler.listingCache.Set(listingCacheKey, slidesJson)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, slidesJson)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	slides, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all hero slides error: %s", err)
		pkg.WriteAPIError(w, "failed to get hero slides", http.StatusInternalServerError)
		return
	}
	if slides == nil {
		slides = []*Slide{}
	}

	slidesJson, err := json.Marshal(slides)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, slidesJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var newSlide Slide
	if err := json.NewDecoder(r.Body).Decode(&newSlide); err != nil {
		log.Errorf("new hero slide, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if newSlide.ImageURL == "" {
		pkg.WriteAPIError(w, "image url is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Add(r.Context(), &newSlide); err != nil {
		log.Errorf("add hero slide failed: %s", err)
		pkg.WriteAPIError(w, "add hero slide failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()

	slideJson, err := json.Marshal(newSlide)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, slideJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid hero slide id", http.StatusBadRequest)
		return
	}

	var updated Slide
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update hero slide, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated.ID = id

	if updated.ImageURL == "" {
		pkg.WriteAPIError(w, "image url is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, ErrSlideNotFound) {
			pkg.WriteAPIError(w, "hero slide not found", http.StatusNotFound)
			return
		}
		log.Errorf("update hero slide %d failed: %s", id, err)
		pkg.WriteAPIError(w, "update hero slide failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()
	pkg.WriteAPIMessage(w, fmt.Sprintf("updated:%d", id), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid hero slide id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrSlideNotFound) {
			pkg.WriteAPIError(w, "hero slide not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete hero slide %d: %s", id, err)
		pkg.WriteAPIError(w, "delete hero slide failed", http.StatusInternalServerError)
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
