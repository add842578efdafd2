package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/subtrackr/subtrackr/pkg/config"
	"github.com/subtrackr/subtrackr/pkg/response"
	"github.com/subtrackr/subtrackr/pkg/types"
)

const IdentityKey = "identity"

type tokenClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	jwt.StandardClaims
}

// AuthMiddleware validates the bearer token from the identity provider and
// stores the resolved Identity in the context. The subject claim is the
// owner ID every table is scoped by.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}

		claims := &tokenClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}

		id := types.Identity{
			OwnerID:   claims.Subject,
			Email:     claims.Email,
			FirstName: claims.FirstName,
		}
		c.Set(IdentityKey, id)
		ctx := context.WithValue(c.Request.Context(), "owner_id", id.OwnerID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetIdentity returns the caller identity placed by AuthMiddleware.
func GetIdentity(c *gin.Context) (types.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return types.Identity{}, false
	}
	id, ok := v.(types.Identity)
	return id, ok
}
