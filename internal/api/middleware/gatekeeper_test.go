package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestResolveGate(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		role   string
		authed bool
		want   GateDecision
	}{
		{"anonymous public root", "/", "", false, GateDecision{GateAllow, ""}},
		{"anonymous sign-in", "/sign-in", "", false, GateDecision{GateAllow, ""}},
		{"anonymous sign-up nested", "/sign-up/verify", "", false, GateDecision{GateAllow, ""}},
		{"anonymous webhook", "/webhook/register", "", false, GateDecision{GateAllow, ""}},
		{"anonymous protected page", "/dashboard", "", false, GateDecision{GateRedirect, "/sign-in"}},
		{"anonymous admin page", "/admin/dashboard", "", false, GateDecision{GateRedirect, "/sign-in"}},
		{"user on dashboard", "/dashboard", "user", true, GateDecision{GateAllow, ""}},
		{"user on admin area", "/admin/dashboard", "user", true, GateDecision{GateRedirect, "/dashboard"}},
		{"admin on dashboard", "/dashboard", "admin", true, GateDecision{GateRedirect, "/admin/dashboard"}},
		{"admin on admin area", "/admin/dashboard", "admin", true, GateDecision{GateAllow, ""}},
		{"authed user on sign-in", "/sign-in", "user", true, GateDecision{GateRedirect, "/dashboard"}},
		{"authed admin on root", "/", "admin", true, GateDecision{GateRedirect, "/admin/dashboard"}},
		{"authed user on webhook path", "/webhook/register", "user", true, GateDecision{GateAllow, ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveGate(tc.path, tc.role, tc.authed))
		})
	}
}

func TestGatekeeperMiddleware_RedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/dashboard", Gatekeeper(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "/sign-in", w.Header().Get("Location"))
}

func TestGatekeeperMiddleware_AllowsOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/dashboard", func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("role", "user")
	}, Gatekeeper(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
