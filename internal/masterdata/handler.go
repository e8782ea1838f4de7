// Package masterdata exposes CRUD endpoints for categories, products, kits
// and menu types.
package masterdata

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/merenda-app/merenda/internal/masterdata/categories"
	"github.com/merenda-app/merenda/internal/masterdata/kits"
	"github.com/merenda-app/merenda/internal/masterdata/menutypes"
	"github.com/merenda-app/merenda/internal/masterdata/products"
	mdshared "github.com/merenda-app/merenda/internal/masterdata/shared"
	"github.com/merenda-app/merenda/internal/platform/httpx"
	"github.com/merenda-app/merenda/internal/rbac"
	"github.com/merenda-app/merenda/internal/shared"
)

// Handler manages master data endpoints.
type Handler struct {
	logger    *slog.Logger
	categSvc  *categories.Service
	prodSvc   *products.Service
	kitSvc    *kits.Service
	typeSvc   *menutypes.Service
	guard     rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, categSvc *categories.Service, prodSvc *products.Service, kitSvc *kits.Service, typeSvc *menutypes.Service, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		categSvc:  categSvc,
		prodSvc:   prodSvc,
		kitSvc:    kitSvc,
		typeSvc:   typeSvc,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermMasterdataView))
		r.Get("/categories", h.listCategories)
		r.Get("/categories/{id}", h.showCategory)
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.showProduct)
		r.Get("/kits", h.listKits)
		r.Get("/menu-types", h.listMenuTypes)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermMasterdataEdit))
		r.Post("/categories", h.createCategory)
		r.Put("/categories/{id}", h.updateCategory)
		r.Delete("/categories/{id}", h.deleteCategory)
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/kits", h.createKit)
		r.Put("/kits/{id}", h.updateKit)
		r.Delete("/kits/{id}", h.deleteKit)
		r.Post("/menu-types", h.createMenuType)
		r.Put("/menu-types/{id}", h.updateMenuType)
	})
	// Menu type deletion is admin-only.
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermMenuTypesDelete))
		r.Delete("/menu-types/{id}", h.deleteMenuType)
	})
}

func listFiltersFromQuery(r *http.Request) mdshared.ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = mdshared.DefaultPage
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = mdshared.DefaultLimit
	}
	filters := mdshared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.CategoryID = &id
		}
	}
	if raw := r.URL.Query().Get("is_default"); raw != "" {
		isDefault := raw == "true"
		filters.IsDefault = &isDefault
	}
	return filters
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, mdshared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", what+" not found")
	case errors.Is(err, mdshared.ErrInvalidID):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid "+what+" ID")
	case errors.Is(err, menutypes.ErrInUse):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error(what+" operation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	}
}

// Categories

type categoryForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, total, err := h.categSvc.List(r.Context(), listFiltersFromQuery(r))
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": cats, "total": total})
}

func (h *Handler) showCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cat, err := h.categSvc.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "category")
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	cat, err := h.categSvc.Create(r.Context(), categories.Category{Name: form.Name, Description: form.Description})
	if err != nil {
		h.respondServiceError(w, err, "category")
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.categSvc.Update(r.Context(), id, categories.Category{Name: form.Name, Description: form.Description}); err != nil {
		h.respondServiceError(w, err, "category")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.categSvc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "category")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Products

type productForm struct {
	Name       string  `json:"name" validate:"required"`
	CategoryID *int64  `json:"category_id"`
	Unit       string  `json:"unit" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	list, total, err := h.prodSvc.List(r.Context(), listFiltersFromQuery(r))
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": list, "total": total})
}

func (h *Handler) showProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.prodSvc.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "product")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.prodSvc.Create(r.Context(), products.Product{
		Name:       form.Name,
		CategoryID: form.CategoryID,
		Unit:       form.Unit,
		Price:      form.Price,
	})
	if err != nil {
		h.respondServiceError(w, err, "product")
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	err := h.prodSvc.Update(r.Context(), id, products.Product{
		Name:       form.Name,
		CategoryID: form.CategoryID,
		Unit:       form.Unit,
		Price:      form.Price,
	})
	if err != nil {
		h.respondServiceError(w, err, "product")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.prodSvc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "product")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Kits

type kitForm struct {
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	IsDefault bool    `json:"is_default"`
}

func (h *Handler) listKits(w http.ResponseWriter, r *http.Request) {
	list, total, err := h.kitSvc.List(r.Context(), listFiltersFromQuery(r))
	if err != nil {
		h.logger.Error("list kits", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"kits": list, "total": total})
}

func (h *Handler) createKit(w http.ResponseWriter, r *http.Request) {
	var form kitForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	kit, err := h.kitSvc.Create(r.Context(), kits.Kit{Name: form.Name, Price: form.Price, IsDefault: form.IsDefault})
	if err != nil {
		h.respondServiceError(w, err, "kit")
		return
	}
	httpx.JSON(w, http.StatusCreated, kit)
}

func (h *Handler) updateKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form kitForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.kitSvc.Update(r.Context(), id, kits.Kit{Name: form.Name, Price: form.Price, IsDefault: form.IsDefault}); err != nil {
		h.respondServiceError(w, err, "kit")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.kitSvc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "kit")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Menu types

type menuTypeForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) listMenuTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.typeSvc.List(r.Context())
	if err != nil {
		h.logger.Error("list menu types", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"menu_types": types})
}

func (h *Handler) createMenuType(w http.ResponseWriter, r *http.Request) {
	var form menuTypeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	mt, err := h.typeSvc.Create(r.Context(), menutypes.MenuType{Name: form.Name, Description: form.Description})
	if err != nil {
		h.respondServiceError(w, err, "menu type")
		return
	}
	httpx.JSON(w, http.StatusCreated, mt)
}

func (h *Handler) updateMenuType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form menuTypeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.typeSvc.Update(r.Context(), id, menutypes.MenuType{Name: form.Name, Description: form.Description}); err != nil {
		h.respondServiceError(w, err, "menu type")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteMenuType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.typeSvc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "menu type")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
