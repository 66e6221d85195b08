package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yoockh/taskbox/config"
	"github.com/yoockh/taskbox/internal/api/handlers"
	"github.com/yoockh/taskbox/internal/api/middleware"
	"github.com/yoockh/taskbox/internal/api/routes"
	"github.com/yoockh/taskbox/internal/cache"
	"github.com/yoockh/taskbox/internal/logger"
	"github.com/yoockh/taskbox/internal/metrics"
	pgrepo "github.com/yoockh/taskbox/internal/repositories/postgres"
	"github.com/yoockh/taskbox/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.AutoMigrate(config.PostgresDB); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	log.Info("Redis connected")

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// Repositories
	users := pgrepo.NewUserRepo(config.PostgresDB)
	todos := pgrepo.NewTodoRepo(config.PostgresDB)
	events := pgrepo.NewWebhookEventRepo(config.PostgresDB)

	// Services
	c := cache.NewRedisCache(config.RedisClient)
	subSvc := services.NewSubscriptionService(users, todos, c)
	todoSvc := services.NewTodoService(users, todos, subSvc)
	provSvc := services.NewProvisioningService(users, events)
	userSvc := services.NewUserService(users)

	// Start Gin server
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Metrics())

	routes.RegisterRoutes(r, routes.Deps{
		Todo:         handlers.NewTodoHandler(todoSvc),
		Subscription: handlers.NewSubscriptionHandler(subSvc),
		Webhook:      handlers.NewWebhookHandler(provSvc, log),
		Admin:        handlers.NewAdminHandler(userSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
