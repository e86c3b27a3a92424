package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/propellur/moca-patient-portal/internal/metrics"
	"github.com/propellur/moca-patient-portal/internal/middleware"
	"github.com/propellur/moca-patient-portal/internal/order"
	"github.com/propellur/moca-patient-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Service  order.Service
	Counters *metrics.Orders
}

func NewOrderHandler(s order.Service, counters *metrics.Orders) *OrderHandler {
	return &OrderHandler{Service: s, Counters: counters}
}

// GET /orders/mine — patient view, newest first
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)

	orders, err := h.Service.GetByOwner(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GET /orders/:orderId — owner or admin
func (h *OrderHandler) GetDetail(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)
	isAdmin := c.GetString(middleware.RoleKey) == utils.RoleAdmin

	o, err := h.Service.GetDetail(c.Request.Context(), c.Param("orderId"), email, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, order.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view another patient's order"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, o)
}

// GET /admin/orders — admin view, unfiltered
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.Service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// POST /admin/orders/:orderId/processing
func (h *OrderHandler) AdvanceToProcessing(c *gin.Context) {
	h.advance(c, h.Service.AdvanceToProcessing)
}

// POST /admin/orders/:orderId/ship
func (h *OrderHandler) AdvanceToShipped(c *gin.Context) {
	h.advance(c, h.Service.AdvanceToShipped)
}

func (h *OrderHandler) advance(
	c *gin.Context,
	transition func(ctx context.Context, id string) (*order.Order, error),
) {
	o, err := transition(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, order.ErrIllegalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, o)
}

// GET /admin/metrics
func (h *OrderHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Counters.Snapshot())
}
