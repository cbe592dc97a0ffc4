package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unblocked user", func(t *testing.T) {
		u := User{IsBlocked: false}
		assert.Equal(t, Unblocked, u.BlockState(now))
	})

	t.Run("permanent block has no deadline", func(t *testing.T) {
		u := User{IsBlocked: true, BlockedUntil: nil}
		assert.Equal(t, PermanentlyBlocked, u.BlockState(now))
	})

	t.Run("temporary block before deadline", func(t *testing.T) {
		until := now.Add(time.Hour)
		u := User{IsBlocked: true, BlockedUntil: &until}
		assert.Equal(t, TemporarilyBlocked, u.BlockState(now))
	})

	t.Run("expired temporary block reads as unblocked", func(t *testing.T) {
		until := now.Add(-time.Minute)
		u := User{IsBlocked: true, BlockedUntil: &until}
		assert.Equal(t, Unblocked, u.BlockState(now))
	})

	t.Run("deadline exactly now reads as unblocked", func(t *testing.T) {
		until := now
		u := User{IsBlocked: true, BlockedUntil: &until}
		assert.Equal(t, Unblocked, u.BlockState(now))
	})
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("Alice"))
	assert.Equal(t, "alice", NormalizeUsername("  ALICE  "))
	assert.Equal(t, "bob42", NormalizeUsername("Bob42"))
	assert.Equal(t, "", NormalizeUsername("   "))
}

func TestValidKind(t *testing.T) {
	for _, kind := range []string{KindStory, KindAsk, KindShow, KindJob} {
		assert.True(t, ValidKind(kind), kind)
	}
	assert.False(t, ValidKind("poll"))
	assert.False(t, ValidKind(""))
}
