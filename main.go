package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"quiz-platform/internal/auth"
	"quiz-platform/internal/config"
	"quiz-platform/internal/db"
	"quiz-platform/internal/event"
	"quiz-platform/internal/handlers"
	"quiz-platform/internal/models"
	"quiz-platform/internal/service"
	"quiz-platform/internal/session"
	"quiz-platform/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close(context.Background())

	// RabbitMQ event publisher
	var publisher *event.Publisher
	if cfg.RabbitURI != "" && cfg.RabbitExchange != "" {
		publisher, err = event.NewPublisher(cfg.RabbitURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, lifecycle events will not be published")
	}

	// Services over the one shared store
	catalogService := service.NewCatalogService(st)
	userService := service.NewUserService(st)
	progressService := service.NewProgressService(st)
	reportService := service.NewReportService(st)
	sessionManager := session.NewManager(st)

	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret)
	quizHandler := handlers.NewQuizHandler(catalogService)
	userHandler := handlers.NewUserHandler(userService)
	sessionHandler := handlers.NewSessionHandler(sessionManager)
	reportHandler := handlers.NewReportHandler(reportService, progressService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   "quiz-platform",
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", auth.Middleware(cfg.JWTSecret))

	// Admin routes
	admin := authed.Group("/admin", auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/quizzes", quizHandler.ListQuizzes)
		admin.POST("/quizzes", func(c *gin.Context) {
			quizHandler.CreateQuiz(c)
			publisher.Publish("quiz.created", gin.H{
				"user_id":   auth.UserIDFrom(c),
				"timestamp": time.Now(),
			})
		})
		admin.POST("/quizzes/:name/questions", func(c *gin.Context) {
			quizHandler.AddQuestion(c)
			publisher.Publish("question.added", gin.H{
				"quiz_name": c.Param("name"),
				"timestamp": time.Now(),
			})
		})
		admin.PUT("/quizzes/:name/questions/:questionID", quizHandler.UpdateQuestion)
		admin.DELETE("/quizzes/:name/questions/:questionID", quizHandler.DeleteQuestion)
		admin.DELETE("/quizzes/:name", func(c *gin.Context) {
			quizHandler.DeleteQuiz(c)
			publisher.Publish("quiz.deleted", gin.H{
				"quiz_name": c.Param("name"),
				"timestamp": time.Now(),
			})
		})

		admin.POST("/users", func(c *gin.Context) {
			userHandler.CreateStudent(c)
			publisher.Publish("user.created", gin.H{
				"created_by": auth.UserIDFrom(c),
				"timestamp":  time.Now(),
			})
		})
		admin.GET("/users", userHandler.ListUsers)

		admin.GET("/performance", reportHandler.Performance)
		admin.GET("/performance/attempted.csv", reportHandler.AttemptedCSV)
		admin.GET("/performance/not-attempted.csv", reportHandler.NotAttemptedCSV)
	}

	// Student routes
	student := authed.Group("", auth.RequireRole(models.RoleStudent))
	{
		student.GET("/quizzes", quizHandler.ListQuizNames)

		student.POST("/session", func(c *gin.Context) {
			sessionHandler.Start(c)
			publisher.Publish("quiz.session.started", gin.H{
				"user_id":   auth.UserIDFrom(c),
				"timestamp": time.Now(),
			})
		})
		student.GET("/session", sessionHandler.Current)
		student.POST("/session/answer", sessionHandler.SubmitAnswer)
		student.POST("/session/next", func(c *gin.Context) {
			sessionHandler.Advance(c)
			userID := auth.UserIDFrom(c)
			if sess, ok := sessionManager.Get(userID); ok && sess.Completed() {
				publisher.Publish("quiz.session.completed", gin.H{
					"user_id":   userID,
					"quiz_name": sess.QuizName,
					"score":     sess.Score,
					"total":     len(sess.Questions),
					"timestamp": time.Now(),
				})
			}
		})
		student.DELETE("/session", sessionHandler.Abandon)

		student.GET("/me/scores", reportHandler.MyScores)
	}

	log.Printf("Listening on %s (store driver: %s)", cfg.HTTPAddr, cfg.StoreDriver)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

// openStore picks the persistence driver: file-backed JSON documents by
// default, MongoDB when STORE_DRIVER=mongo.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, err := db.ConnectMongo(cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewMongoStore(ctx, client, cfg.MongoDB)
	default:
		return store.NewFileStore(cfg.DataDir)
	}
}
