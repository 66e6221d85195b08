package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Edge routing policy for the page surface: unauthenticated callers are sent
// to sign-in, authenticated callers land on the area for their role, and the
// sign-in/up pages bounce anyone who already holds a session. The webhook
// endpoint stays public; it is authenticated by signature instead.

type GateAction int

const (
	GateAllow GateAction = iota
	GateRedirect
)

type GateDecision struct {
	Action GateAction
	Target string // redirect target when Action == GateRedirect
}

var publicPaths = []string{
	"/",
	"/webhook/register",
	"/sign-in",
	"/sign-up",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

func isDashboardPath(path string) bool {
	return path == "/dashboard" || strings.HasPrefix(path, "/dashboard/")
}

func landingFor(role string) string {
	if role == "admin" {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

// ResolveGate is a pure function of (path, role, authenticated); it holds the
// whole redirect policy so it can be tested without a request in flight.
func ResolveGate(path, role string, authed bool) GateDecision {
	if !authed {
		if isPublicPath(path) {
			return GateDecision{Action: GateAllow}
		}
		return GateDecision{Action: GateRedirect, Target: "/sign-in"}
	}

	if role == "admin" && isDashboardPath(path) {
		return GateDecision{Action: GateRedirect, Target: "/admin/dashboard"}
	}
	if role != "admin" && isAdminPath(path) {
		return GateDecision{Action: GateRedirect, Target: "/dashboard"}
	}
	if isPublicPath(path) && path != "/webhook/register" {
		return GateDecision{Action: GateRedirect, Target: landingFor(role)}
	}
	return GateDecision{Action: GateAllow}
}

// Gatekeeper applies ResolveGate to the page-route group. It expects an
// optional-auth middleware to have run first.
func Gatekeeper() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, authed := c.Get("user_id")
		role := c.GetString("role")

		d := ResolveGate(c.Request.URL.Path, role, authed)
		if d.Action == GateRedirect {
			c.Redirect(http.StatusTemporaryRedirect, d.Target)
			c.Abort()
			return
		}
		c.Next()
	}
}
