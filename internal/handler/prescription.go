package handler

import (
	"net/http"

	"github.com/propellur/moca-patient-portal/internal/middleware"
	"github.com/propellur/moca-patient-portal/internal/prescription"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	Service prescription.Service
}

func NewPrescriptionHandler(s prescription.Service) *PrescriptionHandler {
	return &PrescriptionHandler{Service: s}
}

// GET /prescriptions — patient's own catalog
func (h *PrescriptionHandler) List(c *gin.Context) {
	email := c.GetString(middleware.EmailKey)

	items, err := h.Service.ListForPatient(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}
