package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/auth"
	"github.com/hnclone/backend/internal/database"
	"github.com/hnclone/backend/internal/handlers"
	"github.com/hnclone/backend/internal/middleware"
)

type Server struct {
	db        *database.Database
	handler   *handlers.Handler
	jwtSecret []byte
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET is not set")
	}

	tokens := auth.NewTokenService(database.New().GetDB(), secret)

	// Create unified handler
	handler := handlers.NewHandler(db, tokens)

	// Create server instance
	newServer := &Server{
		db:        db,
		handler:   handler,
		jwtSecret: secret,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, database.New().Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)
		api.POST("/auth/refresh", s.handler.Auth.Refresh)
		api.POST("/auth/logout", s.handler.Auth.Logout)

		// Submission routes (public reads)
		api.GET("/submissions", s.handler.Submission.List)
		api.GET("/submissions/new", s.handler.Submission.List)
		api.GET("/submissions/past", s.handler.Submission.Past)
		api.GET("/submissions/ask", s.handler.Submission.ByKind("ask"))
		api.GET("/submissions/show", s.handler.Submission.ByKind("show"))
		api.GET("/submissions/job", s.handler.Submission.ByKind("job"))
		api.GET("/submissions/day/back", s.handler.Submission.Since(24*time.Hour))
		api.GET("/submissions/month/back", s.handler.Submission.Since(30*24*time.Hour))
		api.GET("/submissions/year/back", s.handler.Submission.Since(365*24*time.Hour))
		api.GET("/submissions/:id", s.handler.Submission.Get)
		api.GET("/submissions/:id/owner", s.handler.Submission.Owner)
		api.GET("/submissions/:id/comments", s.handler.Comment.ListForSubmission)

		// Comment routes (public reads)
		api.GET("/comments", s.handler.Comment.All)
		api.GET("/comments/:id/parent", s.handler.Comment.Parent)
		api.GET("/comments/:id/context", s.handler.Comment.Context)
		api.GET("/comments/:id/submission", s.handler.Comment.Submission)
		api.GET("/comments/:id/owner", s.handler.Comment.Owner)
		api.GET("/comments/:id/previous", s.handler.Comment.Previous)
		api.GET("/comments/:id/next", s.handler.Comment.Next)
		api.GET("/comments/:id/children", s.handler.Comment.Children)

		// User routes (public reads)
		api.GET("/users/:username", s.handler.User.Profile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(s.jwtSecret))
		{
			protected.GET("/users/me", s.handler.User.Me)
			protected.PUT("/users/about", s.handler.User.UpdateAbout)
			protected.PUT("/users/password", s.handler.User.ChangePassword)

			// Submission protected routes
			protected.POST("/submissions", s.handler.Submission.Create)
			protected.POST("/submissions/:id/vote", s.handler.Submission.Vote)
			protected.POST("/submissions/:id/unvote", s.handler.Submission.Unvote)
			protected.DELETE("/submissions/:id", s.handler.Submission.DeleteOwn)
			protected.POST("/submissions/:id/comments", s.handler.Comment.CreateOnSubmission)
			protected.POST("/submissions/:id/favorite", s.handler.User.FavoriteSubmission)
			protected.DELETE("/submissions/:id/favorite", s.handler.User.UnfavoriteSubmission)

			// Comment protected routes
			protected.POST("/comments/:id/reply", s.handler.Comment.Reply)
			protected.POST("/comments/:id/vote", s.handler.Comment.Vote)
			protected.POST("/comments/:id/unvote", s.handler.Comment.Unvote)
			protected.POST("/comments/:id/favorite", s.handler.User.FavoriteComment)
			protected.DELETE("/comments/:id/favorite", s.handler.User.UnfavoriteComment)

			// Karma votes on other users
			protected.POST("/users/:username/vote", s.handler.User.Vote)
			protected.PUT("/users/:username/unvote", s.handler.User.Unvote)

			// Search
			protected.GET("/search", s.handler.Search.All)

			// Admin routes (role required)
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/users/:id/block", s.handler.Admin.BlockUser)
				admin.POST("/users/:id/unblock", s.handler.Admin.UnblockUser)
				admin.DELETE("/submissions/:id", s.handler.Admin.DeleteSubmission)
				admin.DELETE("/comments/:id", s.handler.Admin.DeleteComment)
				admin.GET("/users", s.handler.Admin.ListUsers)
				admin.GET("/users/find/:username", s.handler.Admin.FindUser)
			}
		}
	}

	return r
}
