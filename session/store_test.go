package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory, *diag.ChannelSink) {
	t.Helper()

	st := storage.NewMemory()
	sink := diag.NewChannelSink(8)
	return NewStore(st, Config{Sink: sink}), st, sink
}

func tokenWithExp(t *testing.T, exp time.Time) string {
	t.Helper()

	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestLoginWithUserPersistsAndInitRestores(t *testing.T) {
	ctx := context.Background()
	store, backing, _ := newTestStore(t)

	if err := store.SetToken(ctx, tokenWithExp(t, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := store.LoginWithUser(ctx, User{Username: "a", ID: "1"}); err != nil {
		t.Fatalf("LoginWithUser failed: %v", err)
	}

	// Simulated reload: a fresh store over the same backing storage.
	reloaded := NewStore(backing, Config{})
	if err := reloaded.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	snap := reloaded.Snapshot()
	if !snap.LoggedIn {
		t.Fatalf("expected logged-in session after reload")
	}
	if snap.Username != "a" || snap.UserID != "1" {
		t.Fatalf("expected username=a userId=1, got %q %q", snap.Username, snap.UserID)
	}
}

func TestLoginWithUsernameLeavesUserIDUntouched(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	if err := store.LoginWithUser(ctx, User{Username: "old", ID: "7"}); err != nil {
		t.Fatalf("LoginWithUser failed: %v", err)
	}
	if err := store.LoginWithUsername(ctx, "fresh"); err != nil {
		t.Fatalf("LoginWithUsername failed: %v", err)
	}

	snap := store.Snapshot()
	if snap.Username != "fresh" {
		t.Fatalf("expected username fresh, got %q", snap.Username)
	}
	if snap.UserID != "7" {
		t.Fatalf("expected userId untouched, got %q", snap.UserID)
	}
}

func TestLogoutThenInitYieldsLoggedOut(t *testing.T) {
	ctx := context.Background()
	store, backing, _ := newTestStore(t)

	if err := store.SetToken(ctx, "a.b.c"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := store.LoginWithUser(ctx, User{Username: "a", ID: "1"}); err != nil {
		t.Fatalf("LoginWithUser failed: %v", err)
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	// Idempotent: logging out an already logged-out session is harmless.
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if snap := store.Snapshot(); snap.LoggedIn || snap.Username != "" || snap.UserID != "" {
		t.Fatalf("expected empty session, got %+v", snap)
	}

	if _, err := backing.Get(ctx, storage.UserKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected user entry deleted, got %v", err)
	}
	if _, err := backing.Get(ctx, storage.TokenKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected token entry deleted, got %v", err)
	}
}

func TestInitWithoutTokenEntryStaysLoggedOut(t *testing.T) {
	ctx := context.Background()
	store, backing, _ := newTestStore(t)

	user, _ := json.Marshal(map[string]any{"isLoggedIn": true, "username": "a", "userId": 1})
	if err := backing.Set(ctx, storage.UserKey, string(user)); err != nil {
		t.Fatalf("seed user entry failed: %v", err)
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if store.LoggedIn() {
		t.Fatalf("user entry without token must not restore a session")
	}
}

func TestInitCorruptUserBlobForcesLogout(t *testing.T) {
	ctx := context.Background()
	store, backing, sink := newTestStore(t)

	if err := backing.Set(ctx, storage.UserKey, "{not json"); err != nil {
		t.Fatalf("seed user entry failed: %v", err)
	}
	if err := backing.Set(ctx, storage.TokenKey, "a.b.c"); err != nil {
		t.Fatalf("seed token entry failed: %v", err)
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init must not propagate corruption, got %v", err)
	}
	if store.LoggedIn() {
		t.Fatalf("corrupt blob must degrade to logged out")
	}

	select {
	case event := <-sink.Events():
		if event.Kind != diag.EventUserBlobCorrupt {
			t.Fatalf("expected %s event, got %s", diag.EventUserBlobCorrupt, event.Kind)
		}
	default:
		t.Fatalf("expected a diagnostic event")
	}

	if _, err := backing.Get(ctx, storage.TokenKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("forced logout must clear the token entry, got %v", err)
	}
}

func TestInitAcceptsLegacyUserIDShapes(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		blob string
		want string
	}{
		{"number", `{"isLoggedIn":true,"username":"a","userId":42}`, "42"},
		{"string", `{"isLoggedIn":true,"username":"a","userId":"42"}`, "42"},
		{"null", `{"isLoggedIn":true,"username":"a","userId":null}`, ""},
		{"absent", `{"isLoggedIn":true,"username":"a"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backing := storage.NewMemory()
			if err := backing.Set(ctx, storage.UserKey, tc.blob); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
			if err := backing.Set(ctx, storage.TokenKey, "a.b.c"); err != nil {
				t.Fatalf("seed failed: %v", err)
			}

			store := NewStore(backing, Config{})
			if err := store.Init(ctx); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if got := store.Snapshot().UserID; got != tc.want {
				t.Fatalf("expected userId %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTokenExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("no token stored", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		if !store.TokenExpired(ctx) {
			t.Fatalf("absent token must read as expired")
		}
	})

	t.Run("valid token", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		if err := store.SetToken(ctx, tokenWithExp(t, time.Now().Add(time.Hour))); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
		if store.TokenExpired(ctx) {
			t.Fatalf("future exp must not read as expired")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		if err := store.SetToken(ctx, tokenWithExp(t, time.Now().Add(-time.Minute))); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
		if !store.TokenExpired(ctx) {
			t.Fatalf("past exp must read as expired")
		}
	})

	t.Run("garbage token emits event", func(t *testing.T) {
		store, _, sink := newTestStore(t)
		if err := store.SetToken(ctx, "garbage"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
		if !store.TokenExpired(ctx) {
			t.Fatalf("undecodable token must read as expired")
		}
		select {
		case event := <-sink.Events():
			if event.Kind != diag.EventTokenDecodeFailed {
				t.Fatalf("expected %s event, got %s", diag.EventTokenDecodeFailed, event.Kind)
			}
		default:
			t.Fatalf("expected a diagnostic event")
		}
	})
}
