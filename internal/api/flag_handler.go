package api

import (
	"context"
	"errors"
	"net/http"

	"multizone/internal/dto/req"
	"multizone/internal/dto/resp"
	"multizone/internal/model"
	"multizone/internal/repository"

	"github.com/gin-gonic/gin"
)

// FlagProvider is what the flag handlers need from the service layer. The
// cache read/write policy lives behind this interface, not in the handlers.
type FlagProvider interface {
	Create(ctx context.Context, key, name, description string) (*model.FeatureFlag, error)
	List(ctx context.Context) ([]model.FeatureFlag, error)
	Get(ctx context.Context, key string) (*model.FeatureFlag, error)
	Update(ctx context.Context, key string, fields map[string]any) (*model.FeatureFlag, error)
	Delete(ctx context.Context, key string) error
}

type FlagHandler struct {
	service FlagProvider
}

func NewFlagHandler(service FlagProvider) *FlagHandler {
	return &FlagHandler{service: service}
}

func (h *FlagHandler) ListFlags(c *gin.Context) {
	flags, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flags)
}

func (h *FlagHandler) GetFlag(c *gin.Context) {
	flag, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feature flag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flag)
}

func (h *FlagHandler) CreateFlag(c *gin.Context) {
	var r req.CreateFlagRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key and name are required"})
		return
	}

	flag, err := h.service.Create(c.Request.Context(), r.Key, r.Name, r.Description)
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
	c.JSON(http.StatusCreated, flag)
}

// UpdateFlag accepts an arbitrary subset of mutable fields and applies only
// those present.
func (h *FlagHandler) UpdateFlag(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	flag, err := h.service.Update(c.Request.Context(), c.Param("key"), fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feature flag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flag)
}

func (h *FlagHandler) DeleteFlag(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feature flag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp.MessageResponse{Message: "Feature flag deleted successfully"})
}
