package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/database"
	"portfolio-content-api/internal/logging"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := OpenSQLStore(context.Background(), database.DialectSQLite,
		filepath.Join(t.TempDir(), "sessions.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlStore,
	}
}

func TestStore_Conformance(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			live := Session{ID: "live", AdminAuthenticated: true, LoginTime: base, ExpiresAt: base.Add(time.Hour)}
			stale := Session{ID: "stale", AdminAuthenticated: true, LoginTime: base, ExpiresAt: base.Add(time.Minute)}
			require.NoError(t, store.Save(ctx, live))
			require.NoError(t, store.Save(ctx, stale))
			require.NoError(t, store.Ping(ctx))

			got, err := store.Get(ctx, "live")
			require.NoError(t, err)
			assert.Equal(t, live.ID, got.ID)
			assert.True(t, got.AdminAuthenticated)
			assert.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

			_, err = store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			removed, err := store.PurgeExpired(ctx, base.Add(10*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			_, err = store.Get(ctx, "stale")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Delete(ctx, "live"))
			require.NoError(t, store.Delete(ctx, "live"))
			_, err = store.Get(ctx, "live")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestManager_LoginLookupLogout(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), time.Hour, logging.Discard())

	s, err := m.Login(ctx)
	require.NoError(t, err)
	assert.True(t, s.AdminAuthenticated)
	assert.NotEmpty(t, s.ID)

	found, err := m.Lookup(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	require.NoError(t, m.Logout(ctx, s.ID))
	_, err = m.Lookup(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_LookupExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, time.Minute, logging.Discard())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s, err := m.Login(ctx)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Lookup(ctx, s.ID)

	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound, "expired session is removed on lookup")
}

func TestManager_LookupEmptyID(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, logging.Discard())

	_, err := m.Lookup(context.Background(), "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_RunPurgerStopsOnCancel(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- m.RunPurger(ctx, 5*time.Millisecond) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("purger did not stop")
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret")
	s := Session{ID: "abc", LoginTime: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}

	token, err := codec.Issue(s)
	require.NoError(t, err)

	id, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestTokenCodec_Rejects(t *testing.T) {
	codec := NewTokenCodec("secret")
	valid := Session{ID: "abc", LoginTime: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}

	forged, err := NewTokenCodec("other").Issue(valid)
	require.NoError(t, err)

	expired, err := codec.Issue(Session{ID: "abc", LoginTime: time.Now().Add(-2 * time.Hour), ExpiresAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"forged":   forged,
		"expired":  expired,
		"none alg": noneAlg,
		"garbage":  "not.a.token",
		"empty":    "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPasswordVerifier(t *testing.T) {
	plain, err := NewPasswordVerifier("hunter2", "")
	require.NoError(t, err)
	assert.True(t, plain.Verify("hunter2"))
	assert.False(t, plain.Verify("hunter3"))
	assert.False(t, plain.Verify(""))

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed, err := NewPasswordVerifier("ignored", string(hash))
	require.NoError(t, err)
	assert.True(t, hashed.Verify("s3cret"))
	assert.False(t, hashed.Verify("ignored"))

	_, err = NewPasswordVerifier("", "not-a-bcrypt-hash")
	assert.Error(t, err)
	_, err = NewPasswordVerifier("", "")
	assert.Error(t, err)
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), &config.Config{SessionStore: config.SessionStoreMemory}, logging.Discard())

	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}
