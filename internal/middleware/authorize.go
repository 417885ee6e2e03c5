package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/models"
)

func RequireRoles(roles ...models.Rol) gin.HandlerFunc {
	roleSet := make(map[models.Rol]struct{}, len(roles))
	for _, rol := range roles {
		roleSet[rol] = struct{}{}
	}

	return func(c *gin.Context) {
		userVal, exists := c.Get(ContextUser)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no autenticado"})
			return
		}
		usuario, ok := userVal.(models.Usuario)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no autenticado"})
			return
		}

		if _, ok := roleSet[usuario.Rol]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acceso denegado"})
			return
		}

		c.Next()
	}
}
