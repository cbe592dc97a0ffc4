package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hnclone/backend/internal/models"
)

func TestUserRegister(t *testing.T) {
	resetTables(t)
	svc := NewUserService(testDB)

	t.Run("new users start with one karma", func(t *testing.T) {
		user, err := svc.Register("Alice", "password123", "")
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Username)
		assert.Equal(t, 1, user.Karma)
		assert.Equal(t, models.RoleGuest, user.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	})

	t.Run("usernames collide case-insensitively", func(t *testing.T) {
		_, err := svc.Register("ALICE", "password123", "")
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, "Username is already taken.", conflictErr.Message)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		_, err := svc.Register("", "password123", "")
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)

		_, err = svc.Register("bob", "", "")
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := svc.Register("carol", "password123", "superuser")
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestUserAuthenticate(t *testing.T) {
	resetTables(t)
	svc := NewUserService(testDB)

	registered, err := svc.Register("Dana", "hunter2hunter2", "")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("dana", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate("nobody", "whatever")
		var notFoundErr *NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "User not found, please register first.", notFoundErr.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("dana", "wrong")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.False(t, authErr.Forbidden)
	})

	t.Run("permanently blocked", func(t *testing.T) {
		require.NoError(t, svc.Block(registered.ID, BlockPermanent))
		_, err := svc.Authenticate("dana", "hunter2hunter2")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.True(t, authErr.Forbidden)
		assert.Equal(t, "User is permanently blocked.", authErr.Message)
		require.NoError(t, svc.Unblock(registered.ID))
	})

	t.Run("temporarily blocked", func(t *testing.T) {
		require.NoError(t, svc.Block(registered.ID, BlockTemporary))
		_, err := svc.Authenticate("dana", "hunter2hunter2")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "User is temporarily blocked.", authErr.Message)
		require.NoError(t, svc.Unblock(registered.ID))
	})

	t.Run("expired block is cleared on login", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		require.NoError(t, testDB.Model(&models.User{}).Where("id = ?", registered.ID).
			Updates(map[string]any{"is_blocked": true, "blocked_until": &past}).Error)

		user, err := svc.Authenticate("dana", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		fresh, err := svc.FindByID(registered.ID)
		require.NoError(t, err)
		assert.False(t, fresh.IsBlocked)
		assert.Nil(t, fresh.BlockedUntil)
	})
}

func TestUserKarmaVotes(t *testing.T) {
	resetTables(t)
	svc := NewUserService(testDB)

	target := newUser(t, "alice")
	voter := newUser(t, "bob")

	karma, err := svc.VoteUser(target.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, karma)

	_, err = svc.VoteUser(target.ID, voter.ID)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "You have already voted for this user", conflictErr.Message)

	karma, err = svc.UnvoteUser(target.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, karma)

	_, err = svc.UnvoteUser(target.ID, voter.ID)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	karma, err = svc.karmaOf(target.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, karma, "failed unvotes must not move karma")
}

func TestClearExpiredBlocks(t *testing.T) {
	resetTables(t)
	svc := NewUserService(testDB)

	expired := newUser(t, "expired")
	active := newUser(t, "active")
	permanent := newUser(t, "permanent")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, testDB.Model(&models.User{}).Where("id = ?", expired.ID).
		Updates(map[string]any{"is_blocked": true, "blocked_until": &past}).Error)
	require.NoError(t, svc.Block(active.ID, BlockTemporary))
	require.NoError(t, svc.Block(permanent.ID, BlockPermanent))

	n, err := svc.ClearExpiredBlocks(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	check := func(id int, want models.BlockState) {
		u, err := svc.FindByID(id)
		require.NoError(t, err)
		assert.Equal(t, want, u.BlockState(time.Now()))
	}
	check(expired.ID, models.Unblocked)
	check(active.ID, models.TemporarilyBlocked)
	check(permanent.ID, models.PermanentlyBlocked)

	// A second sweep finds nothing.
	n, err = svc.ClearExpiredBlocks(time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChangePassword(t *testing.T) {
	resetTables(t)
	svc := NewUserService(testDB)

	user, err := svc.Register("alice", "oldpassword", "")
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "wrong", "newpassword")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Old password is incorrect", authErr.Message)

	require.NoError(t, svc.ChangePassword(user.ID, "oldpassword", "newpassword"))

	_, err = svc.Authenticate("alice", "newpassword")
	assert.NoError(t, err)
	_, err = svc.Authenticate("alice", "oldpassword")
	assert.ErrorAs(t, err, &authErr)
}

func TestFavorites(t *testing.T) {
	resetTables(t)
	svc := NewUserService(testDB)
	comments := NewCommentService(testDB)

	user := newUser(t, "alice")
	sub := newSubmission(t, user.ID, "A story")
	c, err := comments.Create(user.ID, "a comment", sub.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.FavoriteSubmission(user.ID, sub.ID))
	// Favoriting again is idempotent.
	require.NoError(t, svc.FavoriteSubmission(user.ID, sub.ID))

	var n int64
	testDB.Model(&models.Favorite{}).Where("user_id = ? AND submission_id = ?", user.ID, sub.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.FavoriteComment(user.ID, c.ID))
	require.NoError(t, svc.UnfavoriteComment(user.ID, c.ID))

	err = svc.UnfavoriteComment(user.ID, c.ID)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = svc.FavoriteSubmission(user.ID, 99999)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
