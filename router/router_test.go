package router

import (
	"context"
	"errors"
	"testing"
)

func testRoutes() []Route {
	return []Route{
		{Path: "/", Name: "home"},
		{Path: "/login", Name: "login"},
		{Path: "/about", Name: "about"},
		{Path: "/orders", Name: "orders", RequiresAuth: true},
	}
}

func TestPushMovesCurrent(t *testing.T) {
	r := New(testRoutes()...)

	if got := r.Current().Path; got != "/" {
		t.Fatalf("expected initial location /, got %q", got)
	}

	if err := r.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if got := r.Current().Path; got != "/about" {
		t.Fatalf("expected /about, got %q", got)
	}
}

func TestPushUnknownRoute(t *testing.T) {
	r := New(testRoutes()...)

	err := r.Push(context.Background(), "/missing")
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
	if got := r.Current().Path; got != "/" {
		t.Fatalf("failed navigation must not move location, got %q", got)
	}
}

func TestPushToCurrentLocationIsNoOp(t *testing.T) {
	r := New(testRoutes()...)

	hookRuns := 0
	r.BeforeEach(func(_ context.Context, _, _ Route) Decision {
		hookRuns++
		return Allow()
	})

	if err := r.Push(context.Background(), "/"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if hookRuns != 0 {
		t.Fatalf("re-navigating to the current route must not run hooks, ran %d", hookRuns)
	}
}

func TestHooksRunInOrderFirstDenialWins(t *testing.T) {
	r := New(testRoutes()...)

	var order []string
	r.BeforeEach(func(_ context.Context, _, _ Route) Decision {
		order = append(order, "first")
		return Allow()
	})
	r.BeforeEach(func(_ context.Context, to, _ Route) Decision {
		order = append(order, "second")
		if to.Path == "/about" {
			return Redirect("/login")
		}
		return Allow()
	})
	r.BeforeEach(func(_ context.Context, _, _ Route) Decision {
		order = append(order, "third")
		return Allow()
	})

	if err := r.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if got := r.Current().Path; got != "/login" {
		t.Fatalf("expected redirect to /login, got %q", got)
	}

	// First pass stops at the denying hook, then the retargeted
	// navigation runs the full chain.
	want := []string{"first", "second", "first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected hook order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected hook order %v, got %v", want, order)
		}
	}
}

func TestRedirectLoopDetected(t *testing.T) {
	r := New(testRoutes()...)

	r.BeforeEach(func(_ context.Context, to, _ Route) Decision {
		if to.Path == "/about" {
			return Redirect("/orders")
		}
		return Redirect("/about")
	})

	err := r.Push(context.Background(), "/about")
	if !errors.Is(err, ErrRedirectLoop) {
		t.Fatalf("expected ErrRedirectLoop, got %v", err)
	}
}
