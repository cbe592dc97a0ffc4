package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countByType(results []SearchResult, typ string) int {
	n := 0
	for _, r := range results {
		if r.Type == typ {
			n++
		}
	}
	return n
}

func TestSearchAll(t *testing.T) {
	resetTables(t)
	comments := NewCommentService(testDB)
	submissions := NewSubmissionService(testDB, comments)
	svc := NewSearchService(testDB, comments)

	gopher := newUser(t, "GopherFan")
	other := newUser(t, "alice")

	sub, err := submissions.Create(gopher.ID, "Why Gophers Win", "https://example.com/gopher", "", "")
	require.NoError(t, err)
	_, err = submissions.Create(other.ID, "Unrelated news", "", "", "")
	require.NoError(t, err)
	_, err = comments.Create(other.ID, "gophers everywhere", sub.ID, nil)
	require.NoError(t, err)

	t.Run("matches across all three collections", func(t *testing.T) {
		results, err := svc.All("gopher")
		require.NoError(t, err)
		assert.Equal(t, 1, countByType(results, "user"))
		assert.Equal(t, 1, countByType(results, "submission"))
		assert.Equal(t, 1, countByType(results, "comment"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		results, err := svc.All("GOPHER")
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("regex patterns work", func(t *testing.T) {
		results, err := svc.All("^Why .* Win$")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "submission", results[0].Type)
	})

	t.Run("no matches is an empty list", func(t *testing.T) {
		results, err := svc.All("zzyzx")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("blank query rejected", func(t *testing.T) {
		_, err := svc.All("   ")
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("broken pattern rejected before the scan", func(t *testing.T) {
		_, err := svc.All("([invalid")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Invalid search pattern.", validationErr.Message)
	})
}
