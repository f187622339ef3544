package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// deviceIDKey is the context key carrying the authenticated device id
const deviceIDKey = "device_id"

// DeviceAuth validates the bearer token devices present on ingest
// endpoints. Tokens are HMAC-signed JWTs whose subject is the device id.
func DeviceAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "missing bearer token",
			})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "invalid token",
			})
			return
		}

		if sub, err := token.Claims.GetSubject(); err == nil {
			c.Set(deviceIDKey, sub)
		}
		c.Next()
	}
}

// DeviceID returns the authenticated device id for the request, if any
func DeviceID(c *gin.Context) string {
	return c.GetString(deviceIDKey)
}
