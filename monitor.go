package mallclient

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/router"
	"github.com/freshmall/mallclient/session"
)

// Monitor states. Transitions only move forward: Active to Expiring when a
// tick finds the session expired, then Stopped once the logout and redirect
// are done. Stop from outside jumps straight to Stopped.
const (
	// MonitorActive means the ticker is running and checks are happening.
	MonitorActive int32 = iota
	// MonitorExpiring means expiry was detected and teardown is in flight.
	MonitorExpiring
	// MonitorStopped means the monitor will never fire again.
	MonitorStopped
)

type monitorDeps struct {
	interval  time.Duration
	store     *session.Store
	router    *router.Router
	notifier  diag.Notifier
	events    *diag.Dispatcher
	metrics   *Metrics
	loginPath string
}

// Monitor periodically checks whether a logged-in session's token has
// expired and, the first time it has, logs out, redirects to login, and
// stops itself. One-shot on purpose: once the user is logged out there is
// nothing left to poll, and a timer firing into a logged-out state would
// only produce redirect storms.
type Monitor struct {
	deps     monitorDeps
	state    atomic.Int32
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newMonitor(deps monitorDeps) *Monitor {
	m := &Monitor{
		deps: deps,
		done: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.run()

	return m
}

// State returns the current monitor state.
func (m *Monitor) State() int32 {
	return m.state.Load()
}

// Stop cancels the monitor before (or after) it ever fires. Idempotent and
// safe to call concurrently with a tick.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		m.state.Store(MonitorStopped)
		close(m.done)
		m.wg.Wait()
	})
}

// ForceTick runs one check immediately, bypassing the timer. Used by tests
// and by hosts that want a check on resume-from-suspend. A tick after the
// monitor has stopped has no effect.
func (m *Monitor) ForceTick(ctx context.Context) {
	m.tick(ctx)
}

func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.deps.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.tick(context.Background()) {
				return
			}
		case <-m.done:
			return
		}
	}
}

// tick runs one expiry check. It returns true when the monitor is finished,
// either because it fired or because the check body failed. Failures never
// leave a zombie timer: any panic is recovered, surfaced, and stops the
// monitor.
func (m *Monitor) tick(ctx context.Context) (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			m.state.Store(MonitorStopped)
			m.deps.notifier.Error("session check failed")
			m.deps.events.Emit(ctx, diag.Event{
				Timestamp: time.Now(),
				Kind:      diag.EventMonitorPanic,
				Error:     fmt.Sprint(r),
			})
			stopped = true
		}
	}()

	if m.state.Load() != MonitorActive {
		return true
	}

	m.deps.metrics.Inc(MetricMonitorTick)

	if !m.deps.store.LoggedIn() {
		return false
	}
	if !m.deps.store.TokenExpired(ctx) {
		return false
	}

	// First expired check wins; a concurrent ForceTick loses the swap and
	// backs off.
	if !m.state.CompareAndSwap(MonitorActive, MonitorExpiring) {
		return true
	}

	m.deps.notifier.Warn(MsgSessionExpired)
	m.deps.metrics.Inc(MetricMonitorLogout)

	if err := m.deps.store.Logout(ctx); err != nil {
		m.deps.events.Emit(ctx, diag.Event{
			Timestamp: time.Now(),
			Kind:      diag.EventForcedLogout,
			Error:     err.Error(),
		})
	}
	if m.deps.router != nil {
		_ = m.deps.router.Push(ctx, m.deps.loginPath)
	}

	m.state.Store(MonitorStopped)
	m.deps.events.Emit(ctx, diag.Event{
		Timestamp: time.Now(),
		Kind:      diag.EventMonitorStopped,
		Detail:    "token expired",
	})
	return true
}
