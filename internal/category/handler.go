package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/velorashop/velora/pkg"
)

type categoriesRepo interface {
	Add(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, kind Kind, id int) error
	All(ctx context.Context, kind Kind) ([]*Category, error)
}

// Handler serves the category listings of all kinds through one route set,
// the {kind} path variable picks the backing table.
type Handler struct {
	repo categoriesRepo
}

func NewHandler(repo categoriesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories/{kind}", handler.handleList).Methods("GET").Name("list-categories")
	router.HandleFunc("/api/admin/categories/{kind}", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-category")
	router.HandleFunc("/api/admin/categories/{kind}/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-category")
	router.HandleFunc("/api/admin/categories/{kind}/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-category")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "unknown category kind", http.StatusBadRequest)
		return
	}

	categories, err := handler.repo.All(r.Context(), kind)
	if err != nil {
		log.Errorf("get %s categories error: %s", kind, err)
		pkg.WriteAPIError(w, "failed to get categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []*Category{}
	}

	categoriesJson, err := json.Marshal(categories)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, categoriesJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "unknown category kind", http.StatusBadRequest)
		return
	}

	var newCategory Category
	if err := json.NewDecoder(r.Body).Decode(&newCategory); err != nil {
		log.Errorf("new category, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	newCategory.Kind = kind

	if newCategory.Name == "" {
		pkg.WriteAPIError(w, "category name is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Add(r.Context(), &newCategory); err != nil {
		log.Errorf("add %s category failed: %s", kind, err)
		pkg.WriteAPIError(w, "add category failed", http.StatusInternalServerError)
		return
	}

	categoryJson, err := json.Marshal(newCategory)
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, categoryJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "unknown category kind", http.StatusBadRequest)
		return
	}
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var updated Category
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Errorf("update category, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated.Kind = kind
	updated.ID = id

	if updated.Name == "" {
		pkg.WriteAPIError(w, "category name is required", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), &updated); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			pkg.WriteAPIError(w, "category not found", http.StatusNotFound)
			return
		}
		log.Errorf("update %s category %d failed: %s", kind, id, err)
		pkg.WriteAPIError(w, "update category failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIMessage(w, fmt.Sprintf("updated:%d", id), http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "unknown category kind", http.StatusBadRequest)
		return
	}
	id, err := idFromRequest(r)
	if err != nil {
		pkg.WriteAPIError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), kind, id); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			pkg.WriteAPIError(w, "category not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete %s category %d: %s", kind, id, err)
		pkg.WriteAPIError(w, "delete category failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteAPIMessage(w, fmt.Sprintf("deleted:%d", id), http.StatusOK)
}

func kindFromRequest(r *http.Request) (Kind, error) {
	return ParseKind(mux.Vars(r)["kind"])
}

func idFromRequest(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("id empty")
	}
	return strconv.Atoi(idStr)
}
