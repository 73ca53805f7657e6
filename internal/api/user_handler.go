package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"multizone/internal/dto/req"
	"multizone/internal/dto/resp"
	"multizone/internal/model"
	"multizone/internal/repository"

	"github.com/gin-gonic/gin"
)

// UserProvider is what the user handlers need from the service layer.
type UserProvider interface {
	Create(ctx context.Context, email, name string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Delete(ctx context.Context, id uint) error
	Seed(ctx context.Context) resp.SeedReport
}

type UserHandler struct {
	service UserProvider
}

func NewUserHandler(service UserProvider) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var r req.CreateUserRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and name are required"})
		return
	}

	user, err := h.service.Create(c.Request.Context(), r.Email, r.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp.MessageResponse{Message: "User deleted successfully"})
}

// SeedUsers is best-effort: partial success is a normal outcome. Only a run
// where every insertion failed reports as a server error.
func (h *UserHandler) SeedUsers(c *gin.Context) {
	report := h.service.Seed(c.Request.Context())

	status := http.StatusOK
	if report.ErrorCount > 0 && report.Created == 0 && report.Skipped == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, report)
}
