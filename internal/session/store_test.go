package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidzcarehub/pkg"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_DefaultsForUnknownSession(t *testing.T) {
	_, client := setupRedis(t)
	store := NewRedisStore(client, time.Hour)

	prefs, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, pkg.DefaultPreferences(), prefs)
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, 30*time.Minute)
	ctx := context.Background()

	want := pkg.Preferences{Theme: pkg.ThemeDark, VoiceEnabled: false, Language: "es"}
	require.NoError(t, store.Save(ctx, "abc", want))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+"abc"))
}

func TestRedisStore_StoredShape(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", pkg.Preferences{Theme: pkg.ThemeDark, Language: "zh-Hant"}))
	raw, err := mr.Get(keyPrefix + "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","voice_enabled":false,"language":"zh-Hant"}`, raw)

	require.NoError(t, mr.Set(keyPrefix+"def", `{"theme":"light","voice_enabled":true,"language":"tl"}`))
	got, err := store.Get(ctx, "def")
	require.NoError(t, err)
	assert.Equal(t, pkg.Preferences{Theme: pkg.ThemeLight, VoiceEnabled: true, Language: "tl"}, got)
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", pkg.Preferences{Theme: pkg.ThemeDark, Language: "fr"}))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, pkg.DefaultPreferences(), got)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, time.Minute)
	require.NoError(t, mr.Set(keyPrefix+"abc", "not json"))

	_, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	prefs, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, pkg.DefaultPreferences(), prefs)

	want := pkg.Preferences{Theme: pkg.ThemeDark, VoiceEnabled: true, Language: "de"}
	require.NoError(t, store.Save(ctx, "s1", want))
	got, _ := store.Get(ctx, "s1")
	assert.Equal(t, want, got)

	// Sessions are independent.
	other, _ := store.Get(ctx, "s2")
	assert.Equal(t, pkg.DefaultPreferences(), other)

	now = now.Add(2 * time.Minute)
	expired, _ := store.Get(ctx, "s1")
	assert.Equal(t, pkg.DefaultPreferences(), expired)
}
