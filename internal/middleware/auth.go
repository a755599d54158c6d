package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userEmailKey = "userEmail"

// RequireUser resolves the caller's identity from the X-User-Email header.
// There is no token scheme: the header is the whole identity contract.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			c.Abort()
			return
		}

		c.Set(userEmailKey, email)
		c.Next()
	}
}

func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(userEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}
