package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"nostressia/internal/models"
)

// UserLookup resolves tokens whose subject is an email address.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthMiddleware validates an HS256 bearer token and sets "user_id" (uint) on
// the context. The identity is read from "user_id", then "sub", then "id";
// a non-numeric identity is treated as an email and resolved through users
// when users is non-nil.
func AuthMiddleware(secret string, users UserLookup) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required", "Missing authorization token")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthorized(c, "Invalid authorization header format", "Use format: Bearer {token}")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token", err.Error())
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			abortUnauthorized(c, "Invalid token claims", "Token validation failed")
			return
		}

		userID, err := resolveUserID(c.Request.Context(), claims, users)
		if err != nil {
			abortUnauthorized(c, "Invalid token claims", err.Error())
			return
		}

		c.Set("user_id", userID)
		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		c.Next()
	}
}

func resolveUserID(ctx context.Context, claims jwt.MapClaims, users UserLookup) (uint, error) {
	var raw interface{}
	for _, k := range []string{"user_id", "sub", "id"} {
		if v, ok := claims[k]; ok && v != nil {
			raw = v
			break
		}
	}

	switch v := raw.(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, fmt.Errorf("invalid user id %v", v)
		}
		return uint(v), nil
	case string:
		if id, err := strconv.ParseUint(v, 10, 32); err == nil && id > 0 {
			return uint(id), nil
		}
		if users == nil || !strings.Contains(v, "@") {
			return 0, fmt.Errorf("unsupported subject %q", v)
		}
		user, err := users.GetUserByEmail(ctx, v)
		if err != nil {
			return 0, errors.New("unknown subject")
		}
		return user.ID, nil
	}
	return 0, errors.New("token carries no user identity")
}

func abortUnauthorized(c *gin.Context, message, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
		"error":   detail,
	})
}

// AdminKeyMiddleware guards the model registry endpoints with a shared
// X-Admin-Key. An empty key rejects every request.
func AdminKeyMiddleware(adminKey string) gin.HandlerFunc {
	expected := []byte(adminKey)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("X-Admin-Key"))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Admin key required",
				"error":   "Missing or invalid X-Admin-Key header",
			})
			return
		}
		c.Next()
	}
}
