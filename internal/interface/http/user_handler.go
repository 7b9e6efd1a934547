package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "user-registry/internal/application"
	"user-registry/internal/domain/valueobject"
	"user-registry/pkg/response"
	"user-registry/pkg/validation"
)

// UserHandler exposes the user lifecycle over HTTP. Route constraints of
// the form /users/{id:int} vs /users/{email} are re-expressed as a single
// :key parameter dispatched by shape inside the handler.
type UserHandler struct {
	Svc    userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// GetAll lists non-deleted users.
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.Svc.GetAll(c.Request.Context(), false)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to list users", err.Error())
		return
	}
	if len(users) == 0 {
		response.Error[any](c, http.StatusNotFound, "user(s) not found", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "users", nil)
}

// GetOnlyDeleted lists soft-deleted users.
func (h *UserHandler) GetOnlyDeleted(c *gin.Context) {
	users, err := h.Svc.GetOnlyDeleted(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "failed to list users", err.Error())
		return
	}
	if len(users) == 0 {
		response.Error[any](c, http.StatusNotFound, "user(s) not found", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "deleted users", nil)
}

// GetByKey dispatches on the path parameter: an integer looks up by id
// (including deleted), a boolean lists with that deletion filter, and
// anything else is treated as an email address.
func (h *UserHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")

	if id, err := strconv.Atoi(key); err == nil {
		u, err := h.Svc.GetByID(c.Request.Context(), id, true)
		if err != nil {
			h.notFoundOrError(c, err)
			return
		}
		response.Success(c, http.StatusOK, u, "user", nil)
		return
	}

	if b, ok := parseBoolParam(key); ok {
		users, err := h.Svc.GetAll(c.Request.Context(), b)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "failed to list users", err.Error())
			return
		}
		if len(users) == 0 {
			response.Error[any](c, http.StatusNotFound, "user(s) not found", nil)
			return
		}
		response.Success(c, http.StatusOK, users, "users", nil)
		return
	}

	u, err := h.Svc.GetByEmail(c.Request.Context(), key)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

// Search queries the user search index.
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "search failed", err.Error())
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// Create registers a user and returns the wire shape with the assigned
// id. An email conflict answers 404, matching the legacy API contract.
func (h *UserHandler) Create(c *gin.Context) {
	var dto userapp.UserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	id, err := h.Svc.Add(c.Request.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrEmailAlreadyRegistered):
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, valueobject.ErrInvalidEmail):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error[any](c, http.StatusBadRequest, "add error", err.Error())
		}
		return
	}

	dto.ID = id
	response.Success(c, http.StatusCreated, dto, "user created", nil)
}

// Update replaces full name and email; unchanged values are a silent
// no-op.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	var dto userapp.UserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if id != dto.ID {
		response.Error[any](c, http.StatusBadRequest, "path id does not match body id", nil)
		return
	}

	if err := h.Svc.Update(c.Request.Context(), dto); err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, userapp.ErrEmailAlreadyRegistered):
			response.Error[any](c, http.StatusConflict, err.Error(), nil)
		default:
			response.Error[any](c, http.StatusBadRequest, "update error", err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete soft-deletes by id or by email, depending on the key shape.
func (h *UserHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	ctx := c.Request.Context()

	var dto userapp.UserDTO
	if id, err := strconv.Atoi(key); err == nil {
		dto.ID = id
	} else {
		u, err := h.Svc.GetByEmail(ctx, key)
		if err != nil {
			h.notFoundOrError(c, err)
			return
		}
		dto = *u
	}

	if err := h.Svc.Delete(ctx, dto); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore re-activates a soft-deleted user.
func (h *UserHandler) Restore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	if err := h.Svc.Restore(c.Request.Context(), userapp.UserDTO{ID: id}); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) notFoundOrError(c *gin.Context, err error) {
	if errors.Is(err, userapp.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Error[any](c, http.StatusBadRequest, "request failed", err.Error())
}

func parseBoolParam(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
