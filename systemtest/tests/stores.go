package tests

import (
	"context"
	"testing"
	"time"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/mongodb"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both backends keep at least millisecond precision.
const storedTimePrecision = time.Millisecond

func TestAgentStore(t *testing.T, store agents.Store) {
	ctx := context.Background()

	first := &agents.Agent{LoginName: "store-first", PasswordHash: "hash", Role: agents.DefaultRole}
	firstID, err := store.Create(ctx, first)
	require.NoError(t, err)
	second := &agents.Agent{LoginName: "store-second", PasswordHash: "hash", Role: agents.DefaultRole}
	secondID, err := store.Create(ctx, second)
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	t.Run("duplicate login name", func(t *testing.T) {
		_, err := store.Create(ctx, &agents.Agent{LoginName: "store-first", PasswordHash: "other"})
		assert.ErrorIs(t, err, agents.ErrLoginNameExists)
	})

	t.Run("record login moves previous login", func(t *testing.T) {
		firstAt := time.Now().UTC().Add(-time.Minute)
		a, err := store.RecordLogin(ctx, firstID, agents.LoginRecord{At: firstAt, IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.Equal(t, 1, a.LoginTimes)
		assert.Equal(t, "10.0.0.1", a.LastLoginIP)
		require.NotNil(t, a.LastLoginTime)
		assert.WithinDuration(t, firstAt, *a.LastLoginTime, storedTimePrecision)
		assert.Nil(t, a.LastLogonTime)
		assert.Empty(t, a.LastLogonIP)

		secondAt := time.Now().UTC()
		a, err = store.RecordLogin(ctx, firstID, agents.LoginRecord{At: secondAt, IP: "10.0.0.2"})
		require.NoError(t, err)
		assert.Equal(t, 2, a.LoginTimes)
		assert.Equal(t, "10.0.0.2", a.LastLoginIP)
		assert.Equal(t, "10.0.0.1", a.LastLogonIP)
		require.NotNil(t, a.LastLogonTime)
		assert.WithinDuration(t, firstAt, *a.LastLogonTime, storedTimePrecision)
		require.NotNil(t, a.LastLoginTime)
		assert.WithinDuration(t, secondAt, *a.LastLoginTime, storedTimePrecision)

		stored, err := store.GetByID(ctx, firstID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.LoginTimes)
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, err := store.GetByID(ctx, 987654321)
		assert.ErrorIs(t, err, agents.ErrAgentNotFound)
		_, err = store.GetByLoginName(ctx, "store-nobody")
		assert.ErrorIs(t, err, agents.ErrAgentNotFound)
		_, err = store.RecordLogin(ctx, 987654321, agents.LoginRecord{At: time.Now(), IP: "10.0.0.3"})
		assert.ErrorIs(t, err, agents.ErrAgentNotFound)
		_, err = store.UpdateBalance(ctx, 987654321, 1)
		assert.ErrorIs(t, err, agents.ErrAgentNotFound)
	})

	t.Run("balance overwrite", func(t *testing.T) {
		balance, err := store.UpdateBalance(ctx, secondID, -42.5)
		require.NoError(t, err)
		assert.Equal(t, -42.5, balance)

		stored, err := store.GetByLoginName(ctx, "store-second")
		require.NoError(t, err)
		assert.Equal(t, -42.5, stored.Balance)
	})
}

func TestSessionStore(t *testing.T, store session.Store) {
	ctx := context.Background()
	now := time.Now().UTC()

	sess := &session.Session{
		ID: "store-session",
		Captchas: map[string]session.Captcha{
			"a.b$c": {Code: "1234", IssuedAt: now, ExpiresAt: now.Add(time.Minute)},
			"plain": {Code: "5678", IssuedAt: now, ExpiresAt: now.Add(time.Minute)},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Captchas, 2)
	assert.Equal(t, "1234", got.Captchas["a.b$c"].Code)
	assert.Equal(t, "5678", got.Captchas["plain"].Code)
	assert.WithinDuration(t, now.Add(time.Minute), got.Captchas["a.b$c"].ExpiresAt, storedTimePrecision)

	// Saving again replaces the stored CAPTCHA map.
	delete(sess.Captchas, "a.b$c")
	require.NoError(t, store.Save(ctx, sess))
	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Captchas, 1)
	assert.NotContains(t, got.Captchas, "a.b$c")

	expired := &session.Session{
		ID:        "store-expired",
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, store.Save(ctx, expired))
	_, err = store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = store.Get(ctx, "store-missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSequence(t *testing.T, seq *mongodb.Sequence) {
	ctx := context.Background()

	first, err := seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}
