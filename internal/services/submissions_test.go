package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnclone/backend/internal/models"
)

func TestSubmissionCreate(t *testing.T) {
	resetTables(t)
	comments := NewCommentService(testDB)
	svc := NewSubmissionService(testDB, comments)

	author := newUser(t, "alice")

	t.Run("kind defaults to story", func(t *testing.T) {
		sub, err := svc.Create(author.ID, "Plain story", "https://example.com", "", "")
		require.NoError(t, err)
		assert.Equal(t, models.KindStory, sub.Kind)
		assert.Equal(t, "alice", sub.Author.Username)
	})

	t.Run("explicit kinds are kept", func(t *testing.T) {
		sub, err := svc.Create(author.ID, "Ask something", "", "body", "ask")
		require.NoError(t, err)
		assert.Equal(t, models.KindAsk, sub.Kind)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		_, err := svc.Create(author.ID, "", "", "", "")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Title is required.", validationErr.Message)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := svc.Create(author.ID, "Poll", "", "", "poll")
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestSubmissionListings(t *testing.T) {
	resetTables(t)
	comments := NewCommentService(testDB)
	svc := NewSubmissionService(testDB, comments)

	author := newUser(t, "alice")

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mk := func(title, kind string, at time.Time) *models.Submission {
		sub, err := svc.Create(author.ID, title, "", "", kind)
		require.NoError(t, err)
		require.NoError(t, testDB.Model(sub).Update("created_at", at).Error)
		return sub
	}

	mk("oldest", "story", base)
	mk("ask me", "ask", base.Add(time.Hour))
	mk("show you", "show", base.Add(2*time.Hour))
	mk("newest", "story", base.Add(3*time.Hour))

	t.Run("newest first by default", func(t *testing.T) {
		items, err := svc.List(false)
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, "newest", items[0].Title)
		assert.Equal(t, "oldest", items[3].Title)
	})

	t.Run("past view is oldest first", func(t *testing.T) {
		items, err := svc.List(true)
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, "oldest", items[0].Title)
	})

	t.Run("kind filter", func(t *testing.T) {
		items, err := svc.ListByKind("ask", false)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "ask me", items[0].Title)
	})

	t.Run("since window", func(t *testing.T) {
		items, err := svc.ListSince(base.Add(90 * time.Minute))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "newest", items[0].Title)
		assert.Equal(t, "show you", items[1].Title)
	})
}

func TestSubmissionVoteRoundTrip(t *testing.T) {
	resetTables(t)
	comments := NewCommentService(testDB)
	svc := NewSubmissionService(testDB, comments)

	author := newUser(t, "alice")
	voter := newUser(t, "bob")
	sub, err := svc.Create(author.ID, "Vote on me", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.VotesCount(sub.ID))

	require.NoError(t, svc.Vote(sub.ID, voter.ID))
	assert.Equal(t, 1, svc.VotesCount(sub.ID))

	err = svc.Vote(sub.ID, voter.ID)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	require.NoError(t, svc.Unvote(sub.ID, voter.ID))
	assert.Equal(t, 0, svc.VotesCount(sub.ID))

	err = svc.Unvote(sub.ID, voter.ID)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSubmissionDeleteCascade(t *testing.T) {
	resetTables(t)
	comments := NewCommentService(testDB)
	svc := NewSubmissionService(testDB, comments)
	users := NewUserService(testDB)

	author := newUser(t, "alice")
	voter := newUser(t, "bob")

	sub, err := svc.Create(author.ID, "Doomed", "", "", "")
	require.NoError(t, err)
	survivor, err := svc.Create(author.ID, "Survivor", "", "", "")
	require.NoError(t, err)

	root, err := comments.Create(author.ID, "root", sub.ID, nil)
	require.NoError(t, err)
	reply, err := comments.Create(voter.ID, "reply", sub.ID, &root.ID)
	require.NoError(t, err)
	elsewhere, err := comments.Create(voter.ID, "elsewhere", survivor.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Vote(sub.ID, voter.ID))
	require.NoError(t, comments.Vote(reply.ID, author.ID))
	require.NoError(t, users.FavoriteSubmission(voter.ID, sub.ID))

	require.NoError(t, svc.DeleteCascade(sub.ID))

	_, err = svc.FindByID(sub.ID)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	var n int64
	testDB.Model(&models.Comment{}).Where("submission_id = ?", sub.ID).Count(&n)
	assert.Zero(t, n, "no comments may survive the cascade")
	testDB.Model(&models.Vote{}).Count(&n)
	assert.Zero(t, n, "votes on the submission and its comments must be swept")
	testDB.Model(&models.Favorite{}).Count(&n)
	assert.Zero(t, n)

	// The unrelated submission and its thread stay intact.
	_, err = svc.FindByID(survivor.ID)
	assert.NoError(t, err)
	_, err = comments.FindByID(elsewhere.ID)
	assert.NoError(t, err)
}

func TestSubmissionOwnerProfile(t *testing.T) {
	resetTables(t)
	comments := NewCommentService(testDB)
	svc := NewSubmissionService(testDB, comments)
	users := NewUserService(testDB)

	author := newUser(t, "alice")
	fan := newUser(t, "bob")

	sub, err := svc.Create(author.ID, "Show HN: my thing", "https://example.com", "", "show")
	require.NoError(t, err)
	c, err := comments.Create(author.ID, "author's own comment", sub.ID, nil)
	require.NoError(t, err)
	require.NoError(t, users.FavoriteSubmission(author.ID, sub.ID))
	require.NoError(t, users.FavoriteComment(author.ID, c.ID))
	require.NoError(t, svc.Vote(sub.ID, fan.ID))

	profile, err := svc.Owner(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, 1, profile.Karma)
	require.Len(t, profile.Submissions, 1)
	assert.Equal(t, 1, profile.Submissions[0].VotesCount)
	require.Len(t, profile.Comments, 1)
	require.Len(t, profile.FavoriteSubmissions, 1)
	require.Len(t, profile.FavoriteComments, 1)
}
