package mallclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/router"
	"github.com/freshmall/mallclient/session"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 * 1024 * 1024

// Client is the storefront API client. Build one through [Builder]; the zero
// value is not usable.
type Client struct {
	cfg      Config
	http     *http.Client
	session  *session.Store
	router   *router.Router
	notifier diag.Notifier
	events   *diag.Dispatcher
	metrics  *Metrics

	monitorMu sync.Mutex
	monitor   *Monitor
}

// Session exposes the session store, the single source of truth for
// authentication state.
func (c *Client) Session() *session.Store {
	return c.session
}

// Router exposes the navigation router, or nil when none was wired.
func (c *Client) Router() *router.Router {
	return c.router
}

// MetricsSnapshot copies the client's counters.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// EventsDropped reports diagnostic events discarded under backpressure.
func (c *Client) EventsDropped() uint64 {
	return c.events.Dropped()
}

// Init rehydrates the session from storage. Call it once at startup, before
// the first navigation. Corrupt persisted state degrades to logged-out and
// is not an error.
func (c *Client) Init(ctx context.Context) error {
	return c.session.Init(ctx)
}

// StartMonitor launches the background expiry monitor. At most one monitor
// runs per client; a second call while one is active returns
// [ErrMonitorRunning].
func (c *Client) StartMonitor() (*Monitor, error) {
	c.monitorMu.Lock()
	defer c.monitorMu.Unlock()

	if c.monitor != nil && c.monitor.State() == MonitorActive {
		return nil, ErrMonitorRunning
	}

	c.monitor = newMonitor(monitorDeps{
		interval:  c.cfg.Monitor.Interval,
		store:     c.session,
		router:    c.router,
		notifier:  c.notifier,
		events:    c.events,
		metrics:   c.metrics,
		loginPath: c.cfg.Routes.LoginPath,
	})
	return c.monitor, nil
}

// Close stops the monitor, if any, and drains the event dispatcher.
func (c *Client) Close() {
	c.monitorMu.Lock()
	if c.monitor != nil {
		c.monitor.Stop()
	}
	c.monitorMu.Unlock()

	c.events.Close()
}

// do issues one API request and decodes a 2xx JSON body into out. Any other
// outcome returns an [*APIError]; the 401 session-expiry branch additionally
// clears the session and schedules the redirect to login.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.cfg.HTTP.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// No response at all: connectivity problem, generic message.
		return &APIError{Status: 0, Message: MsgRequestFailed}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if readErr != nil {
			return &APIError{Status: resp.StatusCode, Message: MsgRequestFailed}
		}
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decode response body: %w", err)
			}
		}
		return nil
	}

	msg, authExpired := classify(resp.StatusCode, data, path == c.cfg.HTTP.LoginPath)
	if authExpired {
		c.handleAuthExpired(ctx)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// handleAuthExpired is the session-expiry branch of 401 classification:
// warn, clear the session through the store, and schedule the navigation to
// login unless the user is already there.
func (c *Client) handleAuthExpired(ctx context.Context) {
	c.metrics.Inc(MetricAuthExpired)
	c.notifier.Warn(MsgSessionExpired)

	if err := c.session.Logout(ctx); err != nil {
		c.events.Emit(ctx, diag.Event{
			Timestamp: time.Now(),
			Kind:      diag.EventForcedLogout,
			Error:     err.Error(),
		})
	} else {
		c.events.Emit(ctx, diag.Event{
			Timestamp: time.Now(),
			Kind:      diag.EventForcedLogout,
			Detail:    "server declared session invalid",
		})
	}

	if c.router == nil {
		return
	}
	loginPath := c.cfg.Routes.LoginPath
	if c.router.Current().Path == loginPath {
		return
	}

	c.events.Emit(ctx, diag.Event{
		Timestamp: time.Now(),
		Kind:      diag.EventRedirectScheduled,
		Path:      loginPath,
	})

	// The delay lets the warning render before the location changes. The
	// timer is not cancelled on purpose: by the time it fires the user may
	// have navigated to login on their own, and Push treats re-navigating
	// to the current route as a no-op.
	time.AfterFunc(c.cfg.Routes.RedirectDelay, func() {
		_ = c.router.Push(context.Background(), loginPath)
	})
}
