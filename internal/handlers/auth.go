package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/middleware"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/service"
)

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type usuarioResponse struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Nombre       string     `json:"nombre"`
	Rol          string     `json:"rol"`
	UltimoAcceso *time.Time `json:"ultimoAcceso,omitempty"`
}

func toUsuarioResponse(u models.Usuario) usuarioResponse {
	return usuarioResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Nombre:       u.Nombre,
		Rol:          string(u.Rol),
		UltimoAcceso: u.UltimoAcceso,
	}
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login y password son obligatorios"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.SessionCookieName,
		result.Token,
		int(time.Until(result.ExpiresAt).Seconds()),
		"/",
		"",
		h.cfg.Production(),
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"usuario":   toUsuarioResponse(result.Usuario),
		"expiresAt": result.ExpiresAt,
	})
}

// Logout is idempotent: an absent or unknown cookie still clears it and
// reports success.
func (h HandlerSet) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.respondError(c, err)
			return
		}
	}

	middleware.ClearSessionCookie(c, h.cfg.Production())
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	usuario, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no autenticado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuario": toUsuarioResponse(usuario)})
}
