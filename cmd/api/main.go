package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/handler"
	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/middleware"
	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/realtime"
	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/repository"
	"github.com/campus-hub/scolarite/student-docs-service/internal/config"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	outboxEmails := repository.NewOutboxEmailStore(db)

	// Real-time channels: local SSE hub + Redis broadcast
	hub := realtime.NewHub()
	channels := realtime.NewFanoutPublisher(hub, realtime.NewRedisPublisher(redisClient))

	// Services
	dispatcher := services.NewMultiChannelDispatcher(channels, outboxEmails)
	notifier := services.NewNotificationFanout(userRepo, notificationRepo)
	requestService := services.NewRequestService(requestRepo, catalogRepo, userRepo, notifier, dispatcher)
	authService := services.NewAuthService(userRepo, notifier, dispatcher, cfg.JWTPrivateKey)
	userService := services.NewUserService(userRepo, dispatcher)
	catalogService := services.NewCatalogService(catalogRepo)
	notificationService := services.NewNotificationReader(notificationRepo)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)

	authHandler := handler.NewAuthHandler(authService)
	requestHandler := handler.NewRequestHandler(requestService)
	userHandler := handler.NewUserHandler(userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	dashboardHandler := handler.NewDashboardHandler(statsRepo)
	eventsHandler := handler.NewEventsHandler(hub)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	staff := []domain.Role{domain.RoleAdmin, domain.RoleStaff}
	admin := []domain.Role{domain.RoleAdmin}
	anyone := []domain.Role{}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", promhttp.Handler())

	// Public endpoints
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)

	// Document requests
	mux.HandleFunc("POST /requests", authMiddleware.RequireRole(anyone, requestHandler.Create))
	mux.HandleFunc("GET /requests", authMiddleware.RequireRole(anyone, requestHandler.List))
	mux.HandleFunc("GET /requests/{id}", authMiddleware.RequireRole(anyone, requestHandler.Get))
	mux.HandleFunc("PATCH /requests/{id}", authMiddleware.RequireRole(anyone, requestHandler.UpdateOwner))
	mux.HandleFunc("PATCH /requests/{id}/review", authMiddleware.RequireRole(staff, requestHandler.UpdateStaff))
	mux.HandleFunc("DELETE /requests/{id}", authMiddleware.RequireRole(staff, requestHandler.Delete))

	// Users
	mux.HandleFunc("GET /me", authMiddleware.RequireRole(anyone, userHandler.Me))
	mux.HandleFunc("GET /users", authMiddleware.RequireRole(staff, userHandler.List))
	mux.HandleFunc("GET /users/{id}", authMiddleware.RequireRole(staff, userHandler.Get))
	mux.HandleFunc("PATCH /users/{id}", authMiddleware.RequireRole(admin, userHandler.Update))
	mux.HandleFunc("DELETE /users/{id}", authMiddleware.RequireRole(admin, userHandler.Delete))

	// Catalog
	mux.HandleFunc("GET /categories", authMiddleware.RequireRole(anyone, catalogHandler.ListCategories))
	mux.HandleFunc("GET /categories/{id}", authMiddleware.RequireRole(anyone, catalogHandler.GetCategory))
	mux.HandleFunc("POST /categories", authMiddleware.RequireRole(admin, catalogHandler.CreateCategory))
	mux.HandleFunc("PUT /categories/{id}", authMiddleware.RequireRole(admin, catalogHandler.UpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", authMiddleware.RequireRole(admin, catalogHandler.DeleteCategory))
	mux.HandleFunc("GET /levels", catalogHandler.ListLevels)
	mux.HandleFunc("POST /levels", authMiddleware.RequireRole(admin, catalogHandler.CreateLevel))
	mux.HandleFunc("PUT /levels/{id}", authMiddleware.RequireRole(admin, catalogHandler.UpdateLevel))
	mux.HandleFunc("DELETE /levels/{id}", authMiddleware.RequireRole(admin, catalogHandler.DeleteLevel))
	mux.HandleFunc("GET /years", catalogHandler.ListYears)

	// Notifications and real-time stream
	mux.HandleFunc("GET /notifications", authMiddleware.RequireRole(anyone, notificationHandler.List))
	mux.HandleFunc("POST /notifications/seen", authMiddleware.RequireRole(anyone, notificationHandler.MarkSeen))
	mux.HandleFunc("GET /events", authMiddleware.RequireRole(anyone, eventsHandler.Stream))

	// Dashboard
	mux.HandleFunc("GET /dashboard", authMiddleware.RequireRole(staff, dashboardHandler.Stats))

	corsHandler := middleware.CORSMiddleware([]string{"*"})(mux)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
