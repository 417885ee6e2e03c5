package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/service"
)

// SessionCookieName is part of the public contract with the frontend.
const SessionCookieName = "session_token"

const (
	ContextUser   = "current_user"
	ContextSesion = "current_sesion"
)

// ClearSessionCookie expires the cookie on the client.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// Auth resolves the session cookie against the session store and loads the
// current user into the request context. Expired sessions are swept lazily by
// the validation itself.
func Auth(auth *service.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no autenticado"})
			return
		}

		usuario, sesion, err := auth.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSesionInvalida) {
				ClearSessionCookie(c, secureCookies)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sesión inválida o expirada"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
			return
		}

		c.Set(ContextUser, usuario)
		c.Set(ContextSesion, sesion)

		c.Next()
	}
}
