package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yoockh/taskbox/internal/api/handlers"
	"github.com/yoockh/taskbox/internal/api/middleware"
)

type Deps struct {
	Todo         *handlers.TodoHandler
	Subscription *handlers.SubscriptionHandler
	Webhook      *handlers.WebhookHandler
	Admin        *handlers.AdminHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Webhook is public; svix signature is its authentication
	r.POST("/webhook/register", d.Webhook.Register)

	// Protected routes (Clerk session token)
	auth := r.Group("/")
	auth.Use(middleware.ClerkAuth())

	auth.GET("/todos", d.Todo.List)
	auth.POST("/todos", d.Todo.Create)
	auth.PUT("/todos/:id", d.Todo.Update)
	auth.DELETE("/todos/:id", d.Todo.Delete)

	auth.GET("/subscription", d.Subscription.Status)
	auth.POST("/subscription", d.Subscription.Activate)

	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", d.Admin.ListUsers)

	// Page surface behind the gatekeeper redirect policy
	pages := r.Group("/")
	pages.Use(middleware.ClerkAuthOptional(), middleware.Gatekeeper())

	pages.GET("/", landing("home"))
	pages.GET("/sign-in", landing("sign-in"))
	pages.GET("/sign-up", landing("sign-up"))
	pages.GET("/dashboard", landing("dashboard"))
	pages.GET("/admin/dashboard", landing("admin-dashboard"))
}

func landing(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"page": page})
	}
}
