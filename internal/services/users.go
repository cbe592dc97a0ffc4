package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hnclone/backend/internal/models"
)

// Blocking types accepted by Block.
const (
	BlockTemporary = "temporary"
	BlockPermanent = "permanent"
)

// Temporary blocks last a week.
const blockDuration = 7 * 24 * time.Hour

// UserService owns identity and the karma ledger: registration, the login
// gate, per-user vote-once bookkeeping, block state transitions, and the
// favorites sets.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a bcrypt-hashed password. Usernames are unique
// under normalization: "Alice" and "alice" collide.
func (s *UserService) Register(username, password, role string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Message: "Username and password are required."}
	}
	if role == "" {
		role = models.RoleGuest
	}
	if role != models.RoleGuest && role != models.RoleAdmin {
		return nil, &ValidationError{Message: "Unknown role."}
	}

	normalized := models.NormalizeUsername(username)
	var existing models.User
	if err := s.db.Where("username_lc = ?", normalized).First(&existing).Error; err == nil {
		return nil, &ConflictError{Message: "Username is already taken."}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:   username,
		UsernameLC: normalized,
		Password:   string(hash),
		Role:       role,
		Karma:      1,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "Username is already taken."}
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks credentials and the block gate. An expired temporary
// block is cleared lazily here; the hourly sweep catches the rest.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username_lc = ?", models.NormalizeUsername(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found, please register first."}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &AuthError{Message: "Invalid credentials."}
	}

	now := time.Now()
	switch user.BlockState(now) {
	case models.PermanentlyBlocked:
		return nil, &AuthError{Message: "User is permanently blocked.", Forbidden: true}
	case models.TemporarilyBlocked:
		return nil, &AuthError{Message: "User is temporarily blocked.", Forbidden: true}
	}

	if user.IsBlocked {
		// Temporary block expired; clear it so the flag does not linger.
		err := s.db.Model(&user).
			Updates(map[string]any{"is_blocked": false, "blocked_until": nil}).Error
		if err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (s *UserService) FindByID(id int) (*models.User, error) {
	if id == 0 {
		return nil, &ValidationError{Message: "User ID is required."}
	}
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found."}
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername looks a user up through the normalized form.
func (s *UserService) FindByUsername(username string) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{Message: "Username is required."}
	}
	var user models.User
	if err := s.db.Where("username_lc = ?", models.NormalizeUsername(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "User not found."}
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) All() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// VoteUser records voterID's karma upvote of targetID and returns the new
// karma. The user_votes row is the durable record that makes UnvoteUser
// verifiable; karma itself moves by a SQL expression, never read-modify-write.
func (s *UserService) VoteUser(targetID, voterID int) (int, error) {
	if _, err := s.FindByID(targetID); err != nil {
		return 0, err
	}

	vote := models.UserVote{VoterID: voterID, TargetID: targetID}
	if err := s.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, &ConflictError{Message: "You have already voted for this user"}
		}
		return 0, err
	}

	err := s.db.Model(&models.User{}).Where("id = ?", targetID).
		UpdateColumn("karma", gorm.Expr("karma + 1")).Error
	if err != nil {
		return 0, err
	}
	return s.karmaOf(targetID)
}

// UnvoteUser is the symmetric decrement; it fails when no vote is on record,
// so repeated unvotes cannot drive karma below what was actually voted.
func (s *UserService) UnvoteUser(targetID, voterID int) (int, error) {
	if _, err := s.FindByID(targetID); err != nil {
		return 0, err
	}

	res := s.db.Where("voter_id = ? AND target_id = ?", voterID, targetID).Delete(&models.UserVote{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, &ValidationError{Message: "You have not voted for this user"}
	}

	err := s.db.Model(&models.User{}).Where("id = ?", targetID).
		UpdateColumn("karma", gorm.Expr("karma - 1")).Error
	if err != nil {
		return 0, err
	}
	return s.karmaOf(targetID)
}

func (s *UserService) karmaOf(userID int) (int, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.Karma, nil
}

// Block sets the block state: temporary blocks expire after a week, permanent
// blocks store a NULL expiry.
func (s *UserService) Block(userID int, blockingType string) error {
	if _, err := s.FindByID(userID); err != nil {
		return err
	}

	var until *time.Time
	switch blockingType {
	case BlockTemporary:
		t := time.Now().Add(blockDuration)
		until = &t
	case BlockPermanent:
		until = nil
	default:
		return &ValidationError{Message: "Invalid blocking type."}
	}

	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{"is_blocked": true, "blocked_until": until}).Error
}

func (s *UserService) Unblock(userID int) error {
	if _, err := s.FindByID(userID); err != nil {
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{"is_blocked": false, "blocked_until": nil}).Error
}

// ClearExpiredBlocks lifts every temporary block whose expiry has passed and
// reports how many users were unblocked. Idempotent; the scheduler runs it
// hourly and login clears individual users lazily, and the two never disagree
// because both only touch already-expired blocks.
func (s *UserService) ClearExpiredBlocks(now time.Time) (int64, error) {
	res := s.db.Model(&models.User{}).
		Where("is_blocked = ? AND blocked_until IS NOT NULL AND blocked_until <= ?", true, now).
		Updates(map[string]any{"is_blocked": false, "blocked_until": nil})
	return res.RowsAffected, res.Error
}

// ChangePassword swaps the hash after verifying the old password.
func (s *UserService) ChangePassword(userID int, oldPlain, newPlain string) error {
	if newPlain == "" {
		return &ValidationError{Message: "New password is required."}
	}
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPlain)); err != nil {
		return &AuthError{Message: "Old password is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPlain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("password", string(hash)).Error
}

// UpdateAbout replaces the profile blurb.
func (s *UserService) UpdateAbout(userID int, about string) error {
	if about == "" {
		return &ValidationError{Message: "About and user are required."}
	}
	user, err := s.FindByID(userID)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("about", about).Error
}

// FavoriteSubmission adds to the favorites set. Adding twice is a no-op.
func (s *UserService) FavoriteSubmission(userID, submissionID int) error {
	var submission models.Submission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		return &NotFoundError{Message: "Submission not found"}
	}

	fav := models.Favorite{UserID: userID, SubmissionID: &submissionID}
	if err := s.db.Create(&fav).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}

func (s *UserService) UnfavoriteSubmission(userID, submissionID int) error {
	res := s.db.Where("user_id = ? AND submission_id = ?", userID, submissionID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ValidationError{Message: "Submission not found in favorites"}
	}
	return nil
}

// FavoriteComment mirrors FavoriteSubmission for comments.
func (s *UserService) FavoriteComment(userID, commentID int) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		return &NotFoundError{Message: "Comment not found."}
	}

	fav := models.Favorite{UserID: userID, CommentID: &commentID}
	if err := s.db.Create(&fav).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}

func (s *UserService) UnfavoriteComment(userID, commentID int) error {
	res := s.db.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ValidationError{Message: "Comment not found in favorites"}
	}
	return nil
}
