package handler

import (
	"errors"
	"net/http"

	"github.com/propellur/moca-patient-portal/internal/cart"
	"github.com/propellur/moca-patient-portal/internal/middleware"
	"github.com/propellur/moca-patient-portal/internal/prescription"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	Service cart.Service
}

func NewCartHandler(s cart.Service) *CartHandler {
	return &CartHandler{Service: s}
}

// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)

	lines, err := h.Service.Get(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lines":       lines,
		"total_cents": cart.Total(lines),
	})
}

// POST /cart/items
func (h *CartHandler) Add(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := c.GetString(middleware.EmailKey)

	line, err := h.Service.Add(c.Request.Context(), email, req.PrescriptionID)
	if err != nil {
		switch {
		case errors.Is(err, prescription.ErrPrescriptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, prescription.ErrNotOrderable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, line)
}

// DELETE /cart/items/:prescriptionId
func (h *CartHandler) Remove(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)
	prescriptionID := c.Param("prescriptionId")

	err := h.Service.Remove(c.Request.Context(), email, prescriptionID)
	if err != nil {
		if errors.Is(err, cart.ErrCartLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart line removed"})
}

// DELETE /cart — logout and manual clears destroy the shopping session
func (h *CartHandler) Clear(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)

	if err := h.Service.Clear(c.Request.Context(), email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// POST /checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)

	o, err := h.Service.Checkout(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, cart.ErrCartEmpty) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, o)
}
