package middlewares

import (
	"net/http"
	"strings"

	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token tidak ditemukan"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token tidak valid"})
			c.Abort()
			return
		}

		uid, _ := claims["user_id"].(float64)
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)
		c.Set("user_id", uint(uid))
		c.Set("name", name)
		c.Set("role", role)
		c.Next()
	}
}

// RequireRole: satu gerbang kapabilitas untuk semua route, diparameterkan
// dengan daftar role yang boleh lewat. Pasang setelah AuthMiddleware.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		roleStr, _ := role.(string)
		for _, a := range allowed {
			if models.Role(roleStr) == a {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Role tidak diizinkan"})
		c.Abort()
	}
}
