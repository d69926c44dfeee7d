package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header failed: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims failed: %v", err)
	}

	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		"unsigned"
}

func TestExpiredMalformedTokensReadAsExpired(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"one segment", "justonesegment"},
		{"two segments", "a.b"},
		{"bad base64 payload", "eyJhbGciOiJIUzI1NiJ9.!!!not-base64!!!.sig"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expired, err := Expired(tc.tok, now)
			if !expired {
				t.Fatalf("expected expired=true for %q", tc.tok)
			}
			if err == nil {
				t.Fatalf("expected diagnostic error for %q", tc.tok)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestExpiredRespectsExpClaim(t *testing.T) {
	now := time.Now()

	past := makeToken(t, map[string]any{"exp": now.Add(-time.Second).Unix()})
	expired, err := Expired(past, now)
	if err != nil {
		t.Fatalf("Expired failed: %v", err)
	}
	if !expired {
		t.Fatalf("expected past exp to be expired")
	}

	future := makeToken(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
	expired, err = Expired(future, now)
	if err != nil {
		t.Fatalf("Expired failed: %v", err)
	}
	if expired {
		t.Fatalf("expected future exp to be valid")
	}
}

func TestExpiredWithoutExpClaimIsNotExpired(t *testing.T) {
	tok := makeToken(t, map[string]any{"sub": "42", "username": "alice"})

	expired, err := Expired(tok, time.Now())
	if err != nil {
		t.Fatalf("Expired failed: %v", err)
	}
	if expired {
		t.Fatalf("token without exp must not read as expired")
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok := makeToken(t, map[string]any{"exp": exp.Unix()})

	got, ok, err := ExpiresAt(tok)
	if err != nil {
		t.Fatalf("ExpiresAt failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected exp claim present")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}

	_, ok, err = ExpiresAt(makeToken(t, map[string]any{"sub": "1"}))
	if err != nil {
		t.Fatalf("ExpiresAt failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no exp claim")
	}
}
