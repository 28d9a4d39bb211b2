package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/repository/mongodb"
	"github.com/mamadbah2/feedplanner/internal/service/planner"
)

// IngredientCatalog manages catalog records.
type IngredientCatalog interface {
	Ingredients(ctx context.Context) ([]models.Ingredient, error)
	SaveIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error)
	DeleteIngredient(ctx context.Context, name string) error
}

// IngredientHandler exposes the ingredient catalog.
type IngredientHandler struct {
	catalog IngredientCatalog
	logger  *zap.Logger
}

// NewIngredientHandler constructs the HTTP handler adapter.
func NewIngredientHandler(catalog IngredientCatalog, logger *zap.Logger) *IngredientHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngredientHandler{catalog: catalog, logger: logger}
}

// List returns every catalog ingredient.
func (h *IngredientHandler) List(c *gin.Context) {
	items, err := h.catalog.Ingredients(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing ingredients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ingredients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": items})
}

// Upsert creates or updates an ingredient by name.
func (h *IngredientHandler) Upsert(c *gin.Context) {
	var ing models.Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		h.logger.Warn("invalid ingredient payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.catalog.SaveIngredient(c.Request.Context(), ing)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidIngredient) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed saving ingredient", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save ingredient"})
		return
	}

	c.JSON(http.StatusOK, saved)
}

// Delete removes an ingredient by name.
func (h *IngredientHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.catalog.DeleteIngredient(c.Request.Context(), name); err != nil {
		if errors.Is(err, mongodb.ErrIngredientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed deleting ingredient", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ingredient"})
		return
	}

	c.Status(http.StatusNoContent)
}
