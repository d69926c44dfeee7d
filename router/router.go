package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRouteNotFound is returned by Push for a path outside the route table.
var ErrRouteNotFound = errors.New("route not found")

// ErrRedirectLoop is returned when guards keep redirecting each other.
var ErrRedirectLoop = errors.New("navigation redirect loop")

// maxRedirects bounds how many guard redirects one Push may follow.
const maxRedirects = 8

// Route is one entry of the route table. RequiresAuth marks routes that only
// a logged-in session may enter.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
}

// Decision is a hook's verdict on a pending navigation.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow lets the navigation proceed.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Redirect aborts the navigation and retargets it at path.
func Redirect(path string) Decision {
	return Decision{RedirectTo: path}
}

// Hook runs before each route transition. to is the route being entered,
// from the current location.
type Hook func(ctx context.Context, to, from Route) Decision

// Router holds the route table, the current location, and the hook chain.
// Safe for concurrent use.
type Router struct {
	mu      sync.RWMutex
	routes  map[string]Route
	hooks   []Hook
	current Route
}

// New creates a [Router]. The first route becomes the initial location.
func New(routes ...Route) *Router {
	r := &Router{
		routes: make(map[string]Route, len(routes)),
	}
	for _, route := range routes {
		r.routes[route.Path] = route
	}
	if len(routes) > 0 {
		r.current = routes[0]
	}
	return r
}

// BeforeEach appends a hook to the chain. Hooks run in registration order;
// the first non-allow decision wins.
func (r *Router) BeforeEach(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Current returns the current location.
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Push navigates to path, running the hook chain first. Navigating to the
// current location is a no-op, which makes repeated redirects to the login
// route harmless. A hook redirect restarts the transition at the new target.
func (r *Router) Push(ctx context.Context, path string) error {
	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return fmt.Errorf("%w: at %q", ErrRedirectLoop, path)
		}

		r.mu.RLock()
		to, ok := r.routes[path]
		from := r.current
		hooks := r.hooks
		r.mu.RUnlock()

		if !ok {
			return fmt.Errorf("%w: %q", ErrRouteNotFound, path)
		}
		if to.Path == from.Path {
			return nil
		}

		redirected := false
		for _, hook := range hooks {
			decision := hook(ctx, to, from)
			if decision.Allowed {
				continue
			}
			if decision.RedirectTo == "" || decision.RedirectTo == to.Path {
				// Denied outright with nowhere to go; stay put.
				return nil
			}
			path = decision.RedirectTo
			redirected = true
			break
		}
		if redirected {
			continue
		}

		r.mu.Lock()
		r.current = to
		r.mu.Unlock()
		return nil
	}
}
