package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextKey under which the authenticated user is stored in gin.Context.
const userKey = "auth.user"

// RequireRole returns middleware that verifies the bearer token and enforces
// that the caller's role is one of allowed. Missing/invalid tokens yield 401;
// an unsupported or unpermitted role yields 403.
func RequireRole(verifier *Verifier, allowed ...Role) gin.HandlerFunc {
	allowedSet := make(map[Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Missing Authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, http.StatusUnauthorized, "MALFORMED_HEADER", "Authorization header must be a Bearer token")
			return
		}

		user, err := verifier.Verify(parts[1])
		if err != nil {
			if errors.Is(err, ErrUnsupportedRole) {
				abortWithError(c, http.StatusForbidden, "UNSUPPORTED_ROLE", "Unsupported role")
				return
			}
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired access token")
			return
		}

		if !allowedSet[user.Role] {
			abortWithError(c, http.StatusForbidden, "INSUFFICIENT_ROLE", "Insufficient role permissions")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller placed by RequireRole.
func CurrentUser(c *gin.Context) *User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*User); ok {
			return u
		}
	}
	return nil
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
