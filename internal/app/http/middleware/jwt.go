package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/domain/access"
	"saas-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const PrincipalKey = "principal"

var errNoToken = errors.New("authorization header missing")

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(config.JWT_SECRET) == 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			return
		}

		user, err := principalFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		setPrincipal(c, user)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is sent and falls back
// to Anonymous otherwise. Used on routes open to everyone.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := principalFromHeader(c.GetHeader("Authorization"))
		if err != nil || len(config.JWT_SECRET) == 0 {
			c.Set(PrincipalKey, access.Principal(access.Anonymous{}))
			c.Next()
			return
		}
		setPrincipal(c, user)
		c.Next()
	}
}

// RequireAdmin checks the token's admin claim and then re-reads is_admin from
// the database, so a demoted user loses access right away rather than when
// the token expires. A user promoted after login still needs a fresh token.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if err := access.RequireAdmin(p); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		claimed, _ := access.UserOf(p)

		var current users.User
		err := database.DB.WithContext(c.Request.Context()).
			Select("id", "email", "is_admin").
			First(&current, claimed.ID).Error
		if err != nil || !current.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		setPrincipal(c, access.AuthenticatedUser{ID: current.ID, Email: current.Email, IsAdmin: true})
		c.Next()
	}
}

// PrincipalFrom returns the caller resolved by the auth middlewares, or
// Anonymous when none ran.
func PrincipalFrom(c *gin.Context) access.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(access.Principal); ok && p != nil {
			return p
		}
	}
	return access.Anonymous{}
}

func setPrincipal(c *gin.Context, u access.AuthenticatedUser) {
	c.Set(PrincipalKey, access.Principal(u))
	c.Set("user_id", u.ID)
	c.Set("email", u.Email)
	c.Set("is_admin", u.IsAdmin)
}

func principalFromHeader(authHeader string) (access.AuthenticatedUser, error) {
	if authHeader == "" {
		return access.AuthenticatedUser{}, errNoToken
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return access.AuthenticatedUser{}, errors.New("bearer token malformed")
	}

	token, err := jwt.Parse(strings.TrimSpace(tokenString), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWT_SECRET), nil
	})
	if err != nil || !token.Valid {
		return access.AuthenticatedUser{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.AuthenticatedUser{}, errors.New("invalid token claims")
	}

	var user access.AuthenticatedUser
	if userID, ok := claims["user_id"].(float64); ok {
		user.ID = uint(userID)
	}
	if user.ID == 0 {
		return access.AuthenticatedUser{}, errors.New("invalid token claims")
	}
	user.Email, _ = claims["email"].(string)
	user.IsAdmin, _ = claims["is_admin"].(bool)
	return user, nil
}
