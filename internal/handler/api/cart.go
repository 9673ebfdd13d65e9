package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cmds commands.CartCommands
	q    queries.OrderQueries
}

func NewCartHandler(cmds commands.CartCommands, q queries.OrderQueries) *CartHandler {
	return &CartHandler{cmds: cmds, q: q}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	view, err := h.q.GetCart(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load cart", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.cmds.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		h.abortCartError(c, err, "Add item failed")
		return
	}
	h.respondCart(c, userID)
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product id", nil)
		return
	}
	var req reqdto.SetCartQuantityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	if err := h.cmds.SetQuantity(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		h.abortCartError(c, err, "Set quantity failed")
		return
	}
	h.respondCart(c, userID)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product id", nil)
		return
	}

	if err := h.cmds.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		h.abortCartError(c, err, "Remove item failed")
		return
	}
	h.respondCart(c, userID)
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	if err := h.cmds.ClearCart(c.Request.Context(), userID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Clear cart failed", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) respondCart(c *gin.Context, userID uuid.UUID) {
	view, err := h.q.GetCart(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load cart", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

func (h *CartHandler) abortCartError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, errs.ErrProductNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
	case errors.Is(err, errs.ErrCartLineMissing):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Cart line not found", nil)
	case errors.Is(err, errs.ErrInvalidQuantity):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quantity", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msg, nil)
	}
}
