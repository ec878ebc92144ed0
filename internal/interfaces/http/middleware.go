package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

const actorKey = "actor"

// TokenClaims is the JWT payload the identity provider issues. The
// service only consumes it; it never issues or refreshes tokens.
type TokenClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and puts the resulting
// Actor into the request context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authorization header is required",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid authorization header format",
			})
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		claims, ok := token.Claims.(*TokenClaims)
		if !ok || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid token claims",
			})
			return
		}

		roles := make([]workflow.Role, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			if role, ok := workflow.ParseRole(r); ok {
				roles = append(roles, role)
			}
		}

		c.Set(actorKey, workflow.Actor{
			ID:    claims.UserID,
			Name:  claims.Name,
			Roles: workflow.NewRoleSet(roles...),
		})
		c.Next()
	}
}

// RequireAnyRole aborts with 403 unless the actor holds one of the roles
func RequireAnyRole(roles ...workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		for _, role := range roles {
			if actor.Is(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "insufficient role",
		})
	}
}

func actorFrom(c *gin.Context) workflow.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(workflow.Actor); ok {
			return actor
		}
	}
	return workflow.Actor{Roles: workflow.NewRoleSet()}
}
