package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentora/internal/auth"
	"rentora/internal/domain"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"

	claimsContextKey = "session_claims"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// sessionMiddleware reads the session token from the request, verifies it and
// mirrors its claims into the request context. A valid token is re-issued
// with a fresh expiry on every request (sliding expiration). Invalid or
// expired tokens are treated as no session at all; rejection is left to the
// guard and the API middleware.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.Next()
		return
	}

	claims, err := h.issuer.Verify(token)
	if err != nil {
		c.Next()
		return
	}

	if refreshed, err := h.issuer.Issue(claims); err == nil {
		setSessionCookie(c, refreshed, int(h.issuer.TTL().Seconds()))
	}

	c.Set(claimsContextKey, claims)
	c.Next()
}

// guardMiddleware consults the route policy and turns its verdict into a
// redirect. It never errors; unmatched paths pass through untouched.
func (h *Handler) guardMiddleware(c *gin.Context) {
	var claims *auth.Claims
	if got, ok := sessionClaims(c); ok {
		claims = &got
	}

	verdict := h.policy.Evaluate(c.Request.URL.Path, claims)
	if verdict.Action == auth.ActionRedirect {
		c.Redirect(http.StatusFound, verdict.Location)
		c.Abort()
		return
	}

	c.Next()
}

// requireSession rejects API requests without a valid session.
func requireSession(c *gin.Context) {
	if _, ok := sessionClaims(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.Next()
}

// requireRole rejects API requests whose session carries a different role.
func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

func sessionClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
