package mallclient

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/freshmall/mallclient/session"
)

// authTransport decorates every outgoing request: the JSON content type, a
// request ID, and the bearer token when one is stored. A missing token is not
// an error at this layer; the request goes out unauthenticated and the server
// decides.
type authTransport struct {
	base    http.RoundTripper
	store   *session.Store
	metrics *Metrics
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	clone.Header.Set("Content-Type", "application/json;charset=utf-8")

	rid := requestIDFromContext(req.Context())
	if rid == "" {
		rid = uuid.NewString()
	}
	clone.Header.Set("X-Request-ID", rid)

	// A storage failure reads as "no token"; the server will answer 401
	// and the response side handles it from there.
	tok, err := t.store.Token(req.Context())
	if err == nil && tok != "" {
		clone.Header.Set("Authorization", "Bearer "+tok)
		t.metrics.Inc(MetricRequestAuthorized)
	} else {
		t.metrics.Inc(MetricRequestAnonymous)
	}

	return t.base.RoundTrip(clone)
}
