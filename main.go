package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger-service/internal/auth"
	"messenger-service/internal/db"
	"messenger-service/internal/handlers"
	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
	"messenger-service/internal/rabbitmq"
	"messenger-service/internal/repositories"
	"messenger-service/internal/service"
	"messenger-service/internal/telemetry"
	"messenger-service/internal/ws"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, os.Getenv("OTLP_ENDPOINT"), "messenger-service")
	if err != nil {
		log.WithError(err).Fatal("failed to set up tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	database, err := db.Connect()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to db")
	}

	tokens, err := auth.NewTokenService(getEnv("JWT_SECRET", "dev-secret-change-me!!"), time.Hour)
	if err != nil {
		log.WithError(err).Fatal("failed to build token service")
	}

	amqpURL := os.Getenv("AMQP_URL")
	exchange := getEnv("AMQP_EXCHANGE", "messenger.events")
	auditPublisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer auditPublisher.Close()
	log.WithField("mode", rabbitmq.PublisherMode(auditPublisher)).Info("audit publisher ready")

	emitter := telemetry.NewAuditEmitter(auditPublisher, "audit.messenger", "messenger-service", getEnv("ENVIRONMENT", "dev"))

	if wsPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange); err == nil {
		observability.SetPublisher(wsPublisher)
		defer wsPublisher.Close()
	} else {
		log.WithError(err).Info("ws event publishing disabled")
	}

	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	relationshipRepo := repositories.NewRelationshipRepo(database)
	mediaRepo := repositories.NewMediaRepo(database)

	hub := ws.NewHub()
	messageService := service.NewMessageService(messageRepo, hub)
	relationshipService := service.NewRelationshipService(userRepo, relationshipRepo, hub)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, emitter)
	contactHandler := handlers.NewContactHandler(relationshipService, userRepo)
	friendHandler := handlers.NewFriendHandler(relationshipService, emitter)
	messageHandler := handlers.NewMessageHandler(messageService)
	mediaHandler := handlers.NewMediaHandler(mediaRepo, getEnv("UPLOAD_DIR", "uploads"))
	wsHandler := ws.NewHandler(hub, tokens, messageService, relationshipService)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("messenger-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokens)
	authLimiter := middleware.NewRateLimiter(10.0/60.0, 10)
	apiLimiter := middleware.NewRateLimiter(100.0/60.0, 100)

	router.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
	router.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)

	api := router.Group("/", apiLimiter.Middleware(), authMiddleware)
	api.GET("/contacts", contactHandler.ListContacts)
	api.GET("/contacts/search", contactHandler.SearchUsers)
	api.GET("/contacts/:contact_id", contactHandler.GetContact)

	api.POST("/friends/request", friendHandler.SendRequest)
	api.POST("/friends/accept", friendHandler.AcceptRequest)
	api.POST("/friends/decline", friendHandler.DeclineRequest)
	api.GET("/friends/requests", friendHandler.ListRequests)

	api.POST("/messages/send", messageHandler.Send)
	api.GET("/messages/:user_id", messageHandler.History)

	api.POST("/media/upload", mediaHandler.Upload)
	router.Static("/uploads", getEnv("UPLOAD_DIR", "uploads"))

	router.GET("/ws", wsHandler.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, emitter, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
