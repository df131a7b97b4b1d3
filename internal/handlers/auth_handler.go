package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barbersaas/internal/config"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/middleware"
	ucBarber "github.com/BruksfildServices01/barbersaas/internal/usecase/barber"
)

const tokenTTL = 12 * time.Hour

type AuthHandler struct {
	auth   *ucBarber.Authenticate
	config *config.Config
}

func NewAuthHandler(auth *ucBarber.Authenticate, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, config: cfg}
}

// --------- Requests ---------

type BarberLoginRequest struct {
	BarberID string `json:"barber_id" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) BarberLogin(c *gin.Context) {
	var req BarberLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe barbeiro e PIN.")
		return
	}

	barber, err := h.auth.Execute(c.Request.Context(), req.BarberID, req.Pin)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_credentials") {
			httperr.Unauthorized(c, "invalid_credentials", "Barbeiro ou PIN inválidos.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	token, err := h.generateToken(barber.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barber": barber,
		"token":  token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(barberID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  barberID,
		"role": middleware.RoleBarber,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
