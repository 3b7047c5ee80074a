package middleware

import (
	"fmt"
	"strings"

	"pdf-chat-platform/internal/config"
	"pdf-chat-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// EmbedAuthMiddleware validates the signed embed token the chat widget sends
// and pins the request to the token's org. When no EMBED_SECRET is
// configured the service runs in open mode and requests pass through with
// whatever orgUrl the body carries.
type EmbedAuthMiddleware struct {
	secret []byte
}

func NewEmbedAuthMiddleware(cfg *config.Config) *EmbedAuthMiddleware {
	return &EmbedAuthMiddleware{secret: []byte(cfg.EmbedSecret)}
}

// RequireEmbedToken parses the Bearer token and stores its org_url claim in
// the request context.
func (m *EmbedAuthMiddleware) RequireEmbedToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.RespondWithUnauthorized(c, "Embed token required")
			c.Abort()
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			utils.RespondWithUnauthorized(c, "Invalid embed token")
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if orgURL, ok := claims["org_url"].(string); ok && orgURL != "" {
				c.Set("org_url", orgURL)
			}
		}

		c.Next()
	}
}

// GetOrgURL returns the org the embed token bound this request to, or "".
func GetOrgURL(c *gin.Context) string {
	if v, exists := c.Get("org_url"); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
