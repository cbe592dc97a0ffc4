package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/auth"
	"github.com/hnclone/backend/internal/database"
	"github.com/hnclone/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	Auth       *AuthHandler
	Submission *SubmissionHandler
	Comment    *CommentHandler
	User       *UserHandler
	Admin      *AdminHandler
	Search     *SearchHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *database.Database, tokens *auth.TokenService) *Handler {
	// Get the GORM DB instance from the service
	dbService := database.New()
	gormDB := dbService.GetDB()

	comments := services.NewCommentService(gormDB)
	submissions := services.NewSubmissionService(gormDB, comments)
	users := services.NewUserService(gormDB)
	search := services.NewSearchService(gormDB, comments)

	return &Handler{
		Auth:       NewAuthHandler(users, tokens),
		Submission: NewSubmissionHandler(submissions),
		Comment:    NewCommentHandler(comments, submissions),
		User:       NewUserHandler(users, submissions),
		Admin:      NewAdminHandler(users, submissions, comments),
		Search:     NewSearchHandler(search),
	}
}

// respondError translates the typed service errors into HTTP responses.
// Conflicts map to 400 rather than 409 because that is what the web client
// already handles for double votes and taken usernames.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		authErr       *services.AuthError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": conflictErr.Message})
	case errors.As(err, &authErr):
		status := http.StatusUnauthorized
		if authErr.Forbidden {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": authErr.Message})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
