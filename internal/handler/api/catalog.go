package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	cmds commands.CatalogCommands
	q    queries.CatalogQueries
}

func NewCatalogHandler(cmds commands.CatalogCommands, q queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{cmds: cmds, q: q}
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrProductNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := queries.ProductFilter{Page: 1}
	if v := c.Query("page"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil && iv > 0 {
			filter.Page = iv
		}
	}
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid category id", nil)
			return
		}
		filter.CategoryID = &id
	}
	filter.Query = c.Query("q")

	views, err := h.q.ListProducts(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list products", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": resdto.FromProductList(views)})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	views, err := h.q.ListCategories(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list categories", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": resdto.FromCategoryList(views)})
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req reqdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.cmds.CreateProduct(c.Request.Context(), req.ToParams())
	if err != nil {
		h.abortCatalogError(c, err, "Create product failed")
		return
	}

	view, err := h.q.GetProduct(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromProductView(view))
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.UpdateProductRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	if err := h.cmds.UpdateProduct(c.Request.Context(), id, req.ToParams()); err != nil {
		h.abortCatalogError(c, err, "Update product failed")
		return
	}

	view, err := h.q.GetProduct(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load product", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.DeleteProduct(c.Request.Context(), id); err != nil {
		h.abortCatalogError(c, err, "Delete product failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req reqdto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.cmds.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.abortCatalogError(c, err, "Create category failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.CategoryRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	if err := h.cmds.UpdateCategory(c.Request.Context(), id, req.Name); err != nil {
		h.abortCatalogError(c, err, "Update category failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.DeleteCategory(c.Request.Context(), id); err != nil {
		h.abortCatalogError(c, err, "Delete category failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) abortCatalogError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, errs.ErrProductNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
	case errors.Is(err, errs.ErrCategoryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Category not found", nil)
	case errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msg, nil)
	}
}
