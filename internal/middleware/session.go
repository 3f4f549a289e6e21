package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
	"github.com/admission-analytics/admin-api/pkg/response"
)

// ContextUserKey is the gin context key storing session claims.
const ContextUserKey = "currentUser"

type sessionValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// BridgeConfig drives the per-request routing decision for page navigation.
type BridgeConfig struct {
	CookieName  string
	LoginPath   string
	LandingPath string
}

// staticPrefixes are asset paths that never carry a session decision.
var staticPrefixes = []string{
	"/_astro/",
	"/assets/",
	"/fonts/",
	"/images/",
	"/favicon",
	"/robots.txt",
}

// openPrefixes bypass the session check entirely. API routes enforce their
// own cookie auth via RequireSession.
var openPrefixes = []string{
	"/api/",
	"/_actions/",
	"/auth/login",
	"/auth/logout",
	"/health",
	"/ready",
	"/metrics",
	"/docs",
}

// SessionBridge decides, once per request, whether a page navigation passes
// through, bounces to login, or bounces away from login. It holds no state
// beyond the session cookie itself.
func SessionBridge(auth sessionValidator, cfg BridgeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if hasAnyPrefix(path, staticPrefixes) || hasAnyPrefix(path, openPrefixes) {
			c.Next()
			return
		}

		claims := resolveSession(c, auth, cfg.CookieName)

		if claims == nil {
			if path == "/" {
				c.Redirect(http.StatusFound, cfg.LoginPath)
				c.Abort()
				return
			}
			target := cfg.LoginPath + "?redirect=" + url.QueryEscape(path)
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		if path == "/" || strings.HasPrefix(path, cfg.LoginPath) {
			c.Redirect(http.StatusFound, cfg.LandingPath)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequireSession protects API routes by requiring a valid session cookie. A
// Bearer token is accepted as a fallback for non-browser clients.
func RequireSession(auth sessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookie, err := c.Cookie(cookieName); err == nil {
			token = cookie
		} else if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// OptionalSession attaches claims when a valid session cookie is present but
// never blocks. Signout uses it so a stale cookie can still be cleared.
func OptionalSession(auth sessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := resolveSession(c, auth, cookieName); claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}
}

// CurrentUser extracts the session claims attached by RequireSession.
func CurrentUser(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func resolveSession(c *gin.Context, auth sessionValidator, cookieName string) *models.SessionClaims {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie == "" {
		return nil
	}
	claims, err := auth.ValidateToken(cookie)
	if err != nil {
		return nil
	}
	return claims
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
