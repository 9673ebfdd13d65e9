package api

import (
	"errors"
	"net/http"

	"storefront/internal/domain/order"
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

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	view, err := h.cmds.Checkout(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrEmptyCart):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart is empty", nil)
		case errors.Is(err, errs.ErrInsufficientStock):
			httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient stock", nil)
		case errors.Is(err, errs.ErrCartLineMissing):
			httperr.AbortWithError(c, http.StatusConflict, err, "Cart references a removed product", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Checkout failed", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromOrderView(view))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	view, err := h.q.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load order", nil)
		return
	}
	if view.UserID != userID && !middleware.IsAdmin(c) {
		// Hidden, not forbidden: the response must not leak that the
		// order exists.
		httperr.AbortWithError(c, http.StatusNotFound, nil, "Order not found", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	views, err := h.q.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list orders", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": resdto.FromOrderSummaries(views)})
}

// Transition drives the status machine. Shipping and delivery are admin
// operations; cancellation is open to the order's owner as well.
func (h *OrderHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.TransitionOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	to, err := order.ParseStatus(req.Status)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown status", nil)
		return
	}

	isAdmin := middleware.IsAdmin(c)
	if to != order.StatusCancelled && !isAdmin {
		httperr.AbortWithError(c, http.StatusForbidden, nil, "Admin role required", nil)
		return
	}
	if !isAdmin {
		current, loadErr := h.q.GetOrder(c.Request.Context(), id)
		if loadErr != nil {
			if errors.Is(loadErr, errs.ErrOrderNotFound) {
				httperr.AbortWithError(c, http.StatusNotFound, loadErr, "Order not found", nil)
				return
			}
			httperr.AbortWithError(c, http.StatusInternalServerError, loadErr, "Failed to load order", nil)
			return
		}
		if current.UserID != userID {
			httperr.AbortWithError(c, http.StatusNotFound, nil, "Order not found", nil)
			return
		}
	}

	view, err := h.cmds.Transition(c.Request.Context(), id, to, userID.String())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errors.Is(err, errs.ErrInvalidTransition):
			httperr.AbortWithError(c, http.StatusConflict, err, "Invalid status transition", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Transition failed", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}
