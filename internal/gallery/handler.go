package gallery

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

const listingCacheKey = "gallery-listing"

type galleryRepo interface {
	Add(ctx context.Context, image *Image) error
	Update(ctx context.Context, image *Image) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Image, error)
	All(ctx context.Context) ([]*Image, error)
}

type Handler struct {
	repo         galleryRepo
	listingCache *cache.ListingCache
}

func NewHandler(repo galleryRepo, listingCache *cache.ListingCache) *Handler {
	return &Handler{
		repo:         repo,
		listingCache: listingCache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/gallery", handler.handleList).Methods("GET").Name("list-gallery")
	router.HandleFunc("/api/admin/gallery", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-gallery-image")
	router.HandleFunc("/api/admin/gallery/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-gallery-image")
	router.HandleFunc("/api/admin/gallery/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-gallery-image")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if handler.listingCache != nil {
		if payload, err := handler.listingCache.Get(listingCacheKey); err == nil {
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
			return
		}
	}

	images, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get gallery images error: %s", err)
		pkg.WriteAPIError(w, "failed to get gallery", http.StatusInternalServerError)
		return
	}
	if images == nil {
		images = []*Image{}
	}

	imagesJson, err := json.Marshal(images)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if handler.listingCache != nil {
		handler.listingCache.Set(listingCacheKey, imagesJson)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, imagesJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var newImage Image
	if err := json.NewDecoder(r.Body).Decode(&newImage); err != nil {
		log.Errorf("new gallery image, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if newImage.ImageURL == "" {
		pkg.WriteAPIError(w, "image url is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Add(r.Context(), &newImage); err != nil {
		log.Errorf("add gallery image failed: %s", err)
		pkg.WriteAPIError(w, "add gallery image failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()

	imageJson, err := json.Marshal(newImage)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, imageJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid gallery image id", http.StatusBadRequest)
		return
	}

	var updated Image
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update gallery image, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated.ID = id

	if updated.ImageURL == "" {
		pkg.WriteAPIError(w, "image url is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			pkg.WriteAPIError(w, "gallery image not found", http.StatusNotFound)
			return
		}
		log.Errorf("update gallery image %d failed: %s", id, err)
		pkg.WriteAPIError(w, "update gallery image failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()
	pkg.WriteAPIMessage(w, fmt.Sprintf("updated:%d", id), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid gallery image id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			pkg.WriteAPIError(w, "gallery image not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete gallery image %d: %s", id, err)
		pkg.WriteAPIError(w, "delete gallery image failed", http.StatusInternalServerError)
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
