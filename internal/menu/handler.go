package menu

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/merenda-app/merenda/internal/platform/httpx"
	"github.com/merenda-app/merenda/internal/rbac"
	"github.com/merenda-app/merenda/internal/shared"
)

// Handler exposes menu planning over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a menu Handler.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers menu routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermMenusView))
		r.Get("/", h.listMonth)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermMenusEdit))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/ingredients", h.addIngredient)
		r.Delete("/{id}/ingredients/{lineID}", h.removeIngredient)
		r.Post("/{id}/kits/{kitID}/toggle", h.toggleKit)
		r.Post("/{id}/duplicate", h.duplicate)
		r.Post("/duplicate-type", h.duplicateType)
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLineNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrProductNotFound), errors.Is(err, ErrKitNotFound),
		errors.Is(err, ErrNoSourceMenus), errors.Is(err, ErrSameTypeTarget):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		h.logger.Error("menu operation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func (h *Handler) menuID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid menu ID")
		return 0, false
	}
	return id, true
}

func actorID(r *http.Request) int64 {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0
	}
	id, _ := strconv.ParseInt(sess.User(), 10, 64)
	return id
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

// listMonth returns the menus of ?year=&month= (optional ?type_id=) plus a
// date-indexed calendar and the weekday grid for rendering.
func (h *Handler) listMonth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		year = now.Year()
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		monthNum = int(now.Month())
	}
	var typeID *int64
	if raw := r.URL.Query().Get("type_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid type_id")
			return
		}
		typeID = &id
	}

	menus, err := h.service.MonthMenus(r.Context(), year, time.Month(monthNum), typeID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	weekdays := Weekdays(year, time.Month(monthNum))
	days := make([]string, 0, len(weekdays))
	for _, d := range weekdays {
		days = append(days, d.Format("2006-01-02"))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"month":    monthNum,
		"menus":    menus,
		"calendar": BuildCalendar(menus),
		"weekdays": days,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	m, err := h.service.GetMenu(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

type menuForm struct {
	MenuDate    string `json:"menu_date" validate:"required"`
	MenuTypeID  *int64 `json:"menu_type_id"`
	Description string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form menuForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := parseDate(form.MenuDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "menu_date must be YYYY-MM-DD")
		return
	}

	created, err := h.service.CreateMenu(r.Context(), CreateInput{
		Date:        date,
		MenuTypeID:  form.MenuTypeID,
		Description: form.Description,
		ActorID:     actorID(r),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

type updateForm struct {
	Description string `json:"description"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.UpdateMenu(r.Context(), id, form.Description, actorID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteMenu(r.Context(), id, actorID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type ingredientForm struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	PerCapita float64 `json:"per_capita" validate:"required,gt=0"`
}

func (h *Handler) addIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	var form ingredientForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ing, total, err := h.service.AddIngredient(r.Context(), id, form.ProductID, form.PerCapita, actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"ingredient": ing, "total_cost": total})
}

func (h *Handler) removeIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	lineID, err := strconv.ParseInt(chi.URLParam(r, "lineID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid line ID")
		return
	}
	total, err := h.service.RemoveIngredient(r.Context(), id, lineID, actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"total_cost": total})
}

func (h *Handler) toggleKit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	kitID, err := strconv.ParseInt(chi.URLParam(r, "kitID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid kit ID")
		return
	}
	attached, total, err := h.service.ToggleKit(r.Context(), id, kitID, actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"attached": attached, "total_cost": total})
}

type duplicateForm struct {
	TargetDate   string `json:"target_date" validate:"required"`
	TargetTypeID *int64 `json:"target_type_id"`
}

func (h *Handler) duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.menuID(w, r)
	if !ok {
		return
	}
	var form duplicateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := parseDate(form.TargetDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "target_date must be YYYY-MM-DD")
		return
	}
	copied, err := h.service.DuplicateMenu(r.Context(), id, date, form.TargetTypeID, actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, copied)
}

type duplicateTypeForm struct {
	SourceTypeID int64  `json:"source_type_id" validate:"required,gt=0"`
	TargetTypeID int64  `json:"target_type_id" validate:"required,gt=0"`
	Month        string `json:"month" validate:"required"`
}

func (h *Handler) duplicateType(w http.ResponseWriter, r *http.Request) {
	var form duplicateTypeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ref, err := time.Parse("2006-01", form.Month)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month must be YYYY-MM")
		return
	}
	result, err := h.service.DuplicateMenuType(r.Context(), form.SourceTypeID, form.TargetTypeID, ref.Year(), ref.Month(), actorID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
