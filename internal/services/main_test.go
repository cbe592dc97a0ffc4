package services

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hnclone/backend/internal/database"
	"github.com/hnclone/backend/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("hnclone_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %v", err)
	}
	os.Exit(code)
}

// resetTables empties every table so each test starts from a clean store.
func resetTables(t *testing.T) {
	t.Helper()
	err := testDB.Exec(
		"TRUNCATE users, submissions, comments, votes, user_votes, favorites, refresh_tokens RESTART IDENTITY CASCADE",
	).Error
	require.NoError(t, err)
}

func newUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := NewUserService(testDB).Register(username, "password123", "")
	require.NoError(t, err)
	return user
}

func newSubmission(t *testing.T, authorID int, title string) *models.Submission {
	t.Helper()
	comments := NewCommentService(testDB)
	sub, err := NewSubmissionService(testDB, comments).Create(authorID, title, "", "", "")
	require.NoError(t, err)
	return sub
}
