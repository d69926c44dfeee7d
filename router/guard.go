package router

import (
	"context"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/session"
)

// LoginPrompt is the message surfaced when an unauthenticated navigation is
// turned away.
const LoginPrompt = "please log in first"

// AuthGuard returns a [Hook] that keeps logged-out or expired sessions away
// from routes flagged RequiresAuth. On rejection it forces a defensive
// logout, so a half-stale session (user blob present, token expired) cannot
// linger, then redirects to loginPath. Routes without the flag always pass.
func AuthGuard(store *session.Store, notifier diag.Notifier, loginPath string) Hook {
	if notifier == nil {
		notifier = diag.NoOpNotifier{}
	}

	return func(ctx context.Context, to, _ Route) Decision {
		if !to.RequiresAuth {
			return Allow()
		}
		if store.LoggedIn() && !store.TokenExpired(ctx) {
			return Allow()
		}

		notifier.Warn(LoginPrompt)
		// Logout is idempotent; a storage failure here still leaves the
		// in-memory session cleared, which is all the guard needs.
		_ = store.Logout(ctx)
		return Redirect(loginPath)
	}
}
