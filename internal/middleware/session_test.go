package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/admission-analytics/admin-api/internal/models"
	appErrors "github.com/admission-analytics/admin-api/pkg/errors"
)

type validatorStub struct {
	claims *models.SessionClaims
}

func (v *validatorStub) ValidateToken(token string) (*models.SessionClaims, error) {
	if v.claims == nil || token != "valid-token" {
		return nil, appErrors.ErrUnauthorized
	}
	return v.claims, nil
}

func newBridgeRouter(auth sessionValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionBridge(auth, BridgeConfig{
		CookieName:  "aa_session",
		LoginPath:   "/auth/login",
		LandingPath: "/dashboard",
	}))
	r.NoRoute(func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func bridgeRequest(t *testing.T, r *gin.Engine, method, path string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if withSession {
		req.AddCookie(&http.Cookie{Name: "aa_session", Value: "valid-token"})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionBridgeOpenAndStaticPassthrough(t *testing.T) {
	r := newBridgeRouter(&validatorStub{})

	for _, path := range []string{"/api/logs", "/_actions/run", "/auth/login", "/auth/logout", "/_astro/app.css", "/favicon.ico", "/health"} {
		w := bridgeRequest(t, r, http.MethodGet, path, false)
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestSessionBridgeOptionsAndHeadPassthrough(t *testing.T) {
	r := newBridgeRouter(&validatorStub{})

	for _, method := range []string{http.MethodOptions, http.MethodHead} {
		w := bridgeRequest(t, r, method, "/dashboard", false)
		require.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestSessionBridgeUnauthenticatedRootRedirectsToLogin(t *testing.T) {
	r := newBridgeRouter(&validatorStub{})

	w := bridgeRequest(t, r, http.MethodGet, "/", false)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestSessionBridgeUnauthenticatedCarriesRedirectParam(t *testing.T) {
	r := newBridgeRouter(&validatorStub{})

	w := bridgeRequest(t, r, http.MethodGet, "/dashboard/logs", false)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login?redirect=%2Fdashboard%2Flogs", w.Header().Get("Location"))
}

func TestSessionBridgeAuthenticatedRootRedirectsToLanding(t *testing.T) {
	auth := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Role: models.RoleAdmin}}
	r := newBridgeRouter(auth)

	w := bridgeRequest(t, r, http.MethodGet, "/", true)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSessionBridgeAuthenticatedLoginRedirectsAway(t *testing.T) {
	auth := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Role: models.RoleAdmin}}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionBridge(auth, BridgeConfig{
		CookieName:  "aa_session",
		LoginPath:   "/login",
		LandingPath: "/dashboard",
	}))
	r.NoRoute(func(c *gin.Context) { c.Status(http.StatusOK) })

	w := bridgeRequest(t, r, http.MethodGet, "/login", true)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSessionBridgeAuthenticatedPagePassesThrough(t *testing.T) {
	auth := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Role: models.RoleAdmin}}
	r := newBridgeRouter(auth)

	w := bridgeRequest(t, r, http.MethodGet, "/dashboard/logs", true)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSessionBridgeExpiredCookieTreatedAsAnonymous(t *testing.T) {
	r := newBridgeRouter(&validatorStub{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "aa_session", Value: "stale-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login?redirect=%2Fdashboard", w.Header().Get("Location"))
}

func TestRequireSessionCookieAndBearer(t *testing.T) {
	auth := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Email: "ana@example.com", Role: models.RoleAdmin}}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/protected", RequireSession(auth, "aa_session"), func(c *gin.Context) {
		claims := CurrentUser(c)
		require.NotNil(t, claims)
		c.String(http.StatusOK, claims.UserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(&http.Cookie{Name: "aa_session", Value: "valid-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACAllowsRoleAndSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	attach := func(claims *models.SessionClaims) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ContextUserKey, claims)
			c.Next()
		}
	}
	admin := &models.SessionClaims{UserID: "admin-id", Role: models.RoleAdmin}
	plain := &models.SessionClaims{UserID: "user-id", Role: models.RoleUser}

	r.GET("/admin/:id", attach(admin), RBAC("admin", "SELF"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/self/:id", attach(plain), RBAC("admin", "SELF"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/whoever", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/self/user-id", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/self/other-id", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
