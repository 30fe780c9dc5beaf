package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"quiz-engine-service/internal/auth"
	"quiz-engine-service/internal/config"
	"quiz-engine-service/internal/db"
	"quiz-engine-service/internal/event"
	"quiz-engine-service/internal/handlers"
	"quiz-engine-service/internal/repository"
	"quiz-engine-service/internal/service"
	"quiz-engine-service/internal/session"
	"quiz-engine-service/pkg/discovery"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	db.InitMongo(cfg.MongoDB)
	defer db.Disconnect(context.Background())
	database := db.Client.Database(cfg.MongoDB.Database)

	// RabbitMQ event publisher; optional when no broker is configured.
	var publisher *event.Publisher
	if cfg.RabbitMQ.URI != "" {
		var err error
		publisher, err = event.NewPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Redis holds in-flight attempt sessions.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var sessions service.AttemptSessionStore
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable, attempt sessions disabled: %v", err)
	} else {
		sessions = session.NewStore(redisClient, cfg.Quiz.SessionTTL)
	}

	quizRepo := repository.NewQuizRepository(database)
	enrollmentRepo := repository.NewEnrollmentRepository(database)
	userRepo := repository.NewUserRepository(database)

	if err := enrollmentRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create enrollment indexes: %v", err)
	}

	quizService := service.NewQuizService(quizRepo, enrollmentRepo, userRepo, sessions, publisher, cfg.Quiz.DefaultQuestionCount)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, publisher)
	userService := service.NewUserService(userRepo)

	quizHandler := handlers.NewQuizHandler(quizService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	userHandler := handlers.NewUserHandler(userService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "X-User-Role", "accept", "origin", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupRoutes(r, cfg, quizHandler, enrollmentHandler, userHandler)

	if cfg.Consul.Enabled {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Fatalf("Service discovery init failed: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Service registration failed: %v", err)
		}
		defer registry.Deregister()
	}

	if err := r.Run(cfg.Server.Host + ":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func setupRoutes(
	r *gin.Engine,
	cfg *config.Config,
	quizHandler *handlers.QuizHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	userHandler *handlers.UserHandler,
) {
	api := r.Group("/api")
	api.Use(auth.RequireUser(cfg.Auth.JWTSecret))

	quizzes := api.Group("/quizzes")
	{
		quizzes.GET("/lesson/:lessonId", quizHandler.GetQuizByLesson)
		quizzes.GET("/:quizId", quizHandler.GetQuiz)
		quizzes.POST("/:quizId/start", quizHandler.StartAttempt)
		quizzes.POST("/:quizId/submit", quizHandler.SubmitAttempt)
		quizzes.GET("/:quizId/results", quizHandler.GetResults)

		// Authoring endpoints; lifecycle stays with instructors.
		instructor := quizzes.Group("")
		instructor.Use(auth.RequireRole("instructor", "admin", "superadmin"))
		{
			instructor.POST("", quizHandler.CreateQuiz)
			instructor.PATCH("/:quizId", quizHandler.UpdateQuiz)
		}
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.POST("", enrollmentHandler.Enroll)
		enrollments.GET("/:courseId", enrollmentHandler.GetEnrollment)
	}

	api.GET("/users/me/gamification", userHandler.GetGamification)
}
