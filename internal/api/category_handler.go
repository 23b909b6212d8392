package api

import (
	"fmt"
	"net/http"

	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CategoryHandler 分类接口
type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *logrus.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	list, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cat, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetCategory", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// CreateCategory POST /categorias，名称重复返回 409
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "CreateCategory", err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "UpdateCategory", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteCategory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": fmt.Sprintf("Categoría con ID %d eliminada correctamente", id)})
}
