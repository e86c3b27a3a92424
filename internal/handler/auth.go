package handler

import (
	"net/http"

	"github.com/propellur/moca-patient-portal/internal/user"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service user.Service
}

func NewAuthHandler(s user.Service) *AuthHandler {
	return &AuthHandler{Service: s}
}

// POST /auth/code — no token required
//
// The prototype has no mail channel: the code is returned in the response
// body, standing in for out-of-band delivery.
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.Service.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// POST /auth/verify — no token required
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, p, err := h.Service.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		if err == user.ErrInvalidCode {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "patient": p})
}

// POST /admin/login — no token required
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, a, err := h.Service.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "admin": gin.H{"email": a.Email}})
}
