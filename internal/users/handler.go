package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/merenda-app/merenda/internal/platform/httpx"
	"github.com/merenda-app/merenda/internal/rbac"
	"github.com/merenda-app/merenda/internal/shared"
)

// Handler exposes user management endpoints. All routes are mounted behind
// the users.manage policy guard.
type Handler struct {
	logger  *slog.Logger
	service *Service
	audit   *shared.AuditLogger
	guard   rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, audit: audit, guard: guard}
}

// MountRoutes registers user management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.guard.Require(shared.PermUsersManage))
	r.Get("/", h.list)
	r.Post("/{id}/roles/{role}", h.assignRole)
	r.Delete("/{id}/roles/{role}", h.removeRole)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.parseRoleParams(w, r)
	if !ok {
		return
	}
	if err := h.service.AssignRole(r.Context(), userID, role); err != nil {
		if errors.Is(err, rbac.ErrAlreadyAssigned) {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		h.logger.Error("assign role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.recordAudit(r, shared.AuditRoleAssign, userID, role)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

func (h *Handler) removeRole(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.parseRoleParams(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveRole(r.Context(), userID, role); err != nil {
		h.logger.Error("remove role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.recordAudit(r, shared.AuditRoleRemove, userID, role)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) parseRoleParams(w http.ResponseWriter, r *http.Request) (int64, rbac.Role, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user ID")
		return 0, "", false
	}
	role := rbac.Role(chi.URLParam(r, "role"))
	if !role.IsValid() {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid role")
		return 0, "", false
	}
	return userID, role, true
}

func (h *Handler) recordAudit(r *http.Request, action string, userID int64, role rbac.Role) {
	sess := shared.SessionFromContext(r.Context())
	var actorID int64
	if sess != nil {
		actorID, _ = strconv.ParseInt(sess.User(), 10, 64)
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(userID, 10),
		Meta:     map[string]any{"role": string(role)},
	}); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}
