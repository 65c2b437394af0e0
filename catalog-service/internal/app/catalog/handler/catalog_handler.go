package handler

import (
	"net/http"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler обрабатывает HTTP запросы для категорий, камней и позиций
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	binder         *Binder
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService service.CatalogServiceInterface, binder *Binder) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		binder:         binder,
	}
}

// === CATEGORIES HANDLERS ===

// CreateCategory обрабатывает POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := h.binder.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.CategoryResponse{Category: *category})
}

// GetCategory обрабатывает GET /categories/:slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.CategoryResponse{Category: *category})
}

// ListCategories обрабатывает GET /categories (с кешированием)
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// === STONES HANDLERS ===

// CreateStone обрабатывает POST /stones
func (h *CatalogHandler) CreateStone(c *gin.Context) {
	var req entity.CreateStoneRequest
	if err := h.binder.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	stone, err := h.catalogService.CreateStone(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.StoneResponse{Stone: *stone})
}

// GetStone обрабатывает GET /stones/:slug
func (h *CatalogHandler) GetStone(c *gin.Context) {
	stone, err := h.catalogService.GetStone(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.StoneResponse{Stone: *stone})
}

// ListStones обрабатывает GET /stones?species=&shape=&categoryId=&q=&page=&limit=
func (h *CatalogHandler) ListStones(c *gin.Context) {
	var query entity.ListStonesQuery
	if err := h.binder.BindQuery(c, &query); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.catalogService.ListStones(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// === ITEMS HANDLERS ===

// CreateItem обрабатывает POST /items
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req entity.CreateItemRequest
	if err := h.binder.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.ItemResponse{Item: *item})
}

// GetItem обрабатывает GET /items/:code
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ItemResponse{Item: *item})
}

// ListItems обрабатывает GET /items?type=&species=&shape=&availability=&page=&limit=
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var query entity.ListItemsQuery
	if err := h.binder.BindQuery(c, &query); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.catalogService.ListItems(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
