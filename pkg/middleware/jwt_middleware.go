package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"immoportal/internal/models/db_models"
	"immoportal/internal/services"
	"immoportal/pkg/utils"
)

const (
	ctxUserID    = "user_id"
	ctxClaims    = "claims"
	ctxPrincipal = "principal"
)

// RevocationChecker reports token ids revoked by sign-out.
type RevocationChecker interface {
	IsRevoked(tokenID string) bool
}

func JWTAuthMiddleware(tokens *utils.TokenIssuer, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		if revoked != nil && revoked.IsRevoked(claims.ID) {
			utils.RespondError(c, http.StatusUnauthorized, "Token is signed out")
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// ResolvePrincipal loads the caller's role from the profile table. It never
// rejects; a caller without a profile continues with an empty role.
func ResolvePrincipal(gate services.AccessGateInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolvePrincipal(c, gate)
		c.Next()
	}
}

// RequireRoles resolves the caller and aborts with 403 unless the role is allowed.
func RequireRoles(gate services.AccessGateInterface, allowed ...db_models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := resolvePrincipal(c, gate)
		if err := gate.Require(p, allowed...); err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func resolvePrincipal(c *gin.Context, gate services.AccessGateInterface) services.Principal {
	if v, ok := c.Get(ctxPrincipal); ok {
		if p, ok := v.(services.Principal); ok {
			return p
		}
	}
	p := services.Principal{}
	if id, ok := c.Get(ctxUserID); ok {
		if userID, ok := id.(uuid.UUID); ok {
			p = gate.Resolve(c.Request.Context(), userID)
		}
	}
	c.Set(ctxPrincipal, p)
	return p
}

// PrincipalFrom returns the principal set by ResolvePrincipal or RequireRoles.
// The zero Principal fails every role check.
func PrincipalFrom(c *gin.Context) services.Principal {
	if v, ok := c.Get(ctxPrincipal); ok {
		if p, ok := v.(services.Principal); ok {
			return p
		}
	}
	return services.Principal{}
}

func ClaimsFrom(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}
