package products

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

const listingCacheKey = "products-listing"

type productsRepo interface {
	Add(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Product, error)
	All(ctx context.Context) ([]*Product, error)
}

type Handler struct {
	repo         productsRepo
	listingCache *cache.ListingCache
}

func NewHandler(repo productsRepo, listingCache *cache.ListingCache) *Handler {
	return &Handler{
		repo:         repo,
		listingCache: listingCache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	// public storefront
	router.HandleFunc("/api/products", handler.handleList).Methods("GET").Name("list-products")
	router.HandleFunc("/api/products/{id}", handler.handleGet).Methods("GET").Name("get-product")
	// admin dashboard
	router.HandleFunc("/api/admin/products", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-product")
	router.HandleFunc("/api/admin/products/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-product")
	router.HandleFunc("/api/admin/products/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-product")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if handler.listingCache != nil {
		if payload, err := handler.listingCache.Get(listingCacheKey); err == nil {
			pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
			return
		}
	}

	allProducts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all products error: %s", err)
		pkg.WriteAPIError(w, "failed to get products", http.StatusInternalServerError)
		return
	}
	if allProducts == nil {
		allProducts = []*Product{}
	}

	productsJson, err := json.Marshal(allProducts)
	if err != nil {
		log.Errorf("marshal all products error: %s", err)
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if handler.listingCache != nil {
		handler.listingCache.Set(listingCacheKey, productsJson)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, productsJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			pkg.WriteAPIError(w, "product not found", http.StatusNotFound)
			return
		}
		log.Errorf("get product %d: %s", id, err)
		pkg.WriteAPIError(w, "failed to get product", http.StatusInternalServerError)
		return
	}

	productJson, err := json.Marshal(product)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, productJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var newProduct Product
	if err := json.NewDecoder(r.Body).Decode(&newProduct); err != nil {
		log.Errorf("new product, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if newProduct.Name == "" {
		pkg.WriteAPIError(w, "product name is required", http.StatusBadRequest)
		return
	}
	if newProduct.PriceCents < 0 {
		pkg.WriteAPIError(w, "product price cannot be negative", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Add(r.Context(), &newProduct); err != nil {
		log.Errorf("add new product failed: %s", err)
		pkg.WriteAPIError(w, "add product failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new product %d: [%s] added", newProduct.ID, newProduct.Name)
	handler.invalidateListing()

	productJson, err := json.Marshal(newProduct)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, productJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var updated Product
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update product, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated.ID = id

	if updated.Name == "" {
		pkg.WriteAPIError(w, "product name is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			pkg.WriteAPIError(w, "product not found", http.StatusNotFound)
			return
		}
		log.Errorf("update product %d failed: %s", id, err)
		pkg.WriteAPIError(w, "update product failed", http.StatusInternalServerError)
		return
	}

	handler.invalidateListing()
	pkg.WriteAPIMessage(w, fmt.Sprintf("updated:%d", id), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			pkg.WriteAPIError(w, "product not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete product %d: %s", id, err)
		pkg.WriteAPIError(w, "delete product failed", http.StatusInternalServerError)
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
