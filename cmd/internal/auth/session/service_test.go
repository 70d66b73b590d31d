package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/cmd/security/password"
)

func testService(t *testing.T, ttl time.Duration) (*Service, *InMemoryStore) {
	t.Helper()

	pw := password.DefaultConfig()
	pw.Params.MemoryKiB = 8 * 1024
	pw.Params.Iterations = 1
	pw.Params.Parallelism = 1

	store := NewInMemoryStore()
	svc, err := NewService(store, pw, ttl)
	require.NoError(t, err)
	return svc, store
}

func TestSaveToken_PrunesExpiredKeepsLive(t *testing.T) {
	svc, store := testService(t, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.SaveToken(ctx, "u1", "token-one", now))
	require.NoError(t, svc.SaveToken(ctx, "u1", "token-two", now.Add(time.Minute)))

	// token-one expires at now+1h; saving after that prunes it.
	require.NoError(t, svc.SaveToken(ctx, "u1", "token-three", now.Add(61*time.Minute)))

	records, err := store.Records(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	later := now.Add(62 * time.Minute)
	ok, err := svc.MatchesAny(ctx, "u1", "token-one", later)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, tok := range []string{"token-two", "token-three"} {
		ok, err := svc.MatchesAny(ctx, "u1", tok, later)
		require.NoError(t, err)
		assert.True(t, ok, tok)
	}
}

func TestMatchesAny_ConcurrentSessionsAllValid(t *testing.T) {
	svc, _ := testService(t, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC()

	tokens := []string{"session-a", "session-b", "session-c"}
	for _, tok := range tokens {
		require.NoError(t, svc.SaveToken(ctx, "u1", tok, now))
	}

	for _, tok := range tokens {
		ok, err := svc.MatchesAny(ctx, "u1", tok, now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, ok, tok)
	}

	ok, err := svc.MatchesAny(ctx, "u1", "never-issued", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesAny_ExpiredRecordDoesNotMatch(t *testing.T) {
	svc, _ := testService(t, time.Minute)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.SaveToken(ctx, "u1", "short-lived", now))

	ok, err := svc.MatchesAny(ctx, "u1", "short-lived", now.Add(30*time.Second))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.MatchesAny(ctx, "u1", "short-lived", now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveToken_EndsOnlyThatSession(t *testing.T) {
	svc, _ := testService(t, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.SaveToken(ctx, "u1", "keep-me", now))
	require.NoError(t, svc.SaveToken(ctx, "u1", "drop-me", now))

	require.NoError(t, svc.RemoveToken(ctx, "u1", "drop-me"))

	ok, err := svc.MatchesAny(ctx, "u1", "drop-me", now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.MatchesAny(ctx, "u1", "keep-me", now)
	require.NoError(t, err)
	assert.True(t, ok)

	// Removing a token that matches nothing leaves the list alone.
	require.NoError(t, svc.RemoveToken(ctx, "u1", "never-issued"))
	ok, err = svc.MatchesAny(ctx, "u1", "keep-me", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemoveOtherTokens_KeepsOnlyPresenter(t *testing.T) {
	svc, store := testService(t, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.SaveToken(ctx, "u1", "mine", now))
	require.NoError(t, svc.SaveToken(ctx, "u1", "laptop", now))
	require.NoError(t, svc.SaveToken(ctx, "u1", "phone", now))

	require.NoError(t, svc.RemoveOtherTokens(ctx, "u1", "mine"))

	records, err := store.Records(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	ok, err := svc.MatchesAny(ctx, "u1", "mine", now)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, tok := range []string{"laptop", "phone"} {
		ok, err := svc.MatchesAny(ctx, "u1", tok, now)
		require.NoError(t, err)
		assert.False(t, ok, tok)
	}
}

func TestRemoveAll_ClearsEverySession(t *testing.T) {
	svc, store := testService(t, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.SaveToken(ctx, "u1", "a", now))
	require.NoError(t, svc.SaveToken(ctx, "u1", "b", now))
	require.NoError(t, svc.RemoveAll(ctx, "u1"))

	records, err := store.Records(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}
