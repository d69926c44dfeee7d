package mallclient

import (
	"context"
	"net/http"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/router"
	"github.com/freshmall/mallclient/session"
	"github.com/freshmall/mallclient/storage"
)

// Builder assembles a [Client]. Construction is allocation-only; no I/O
// happens until the client is used.
type Builder struct {
	config   Config
	storage  storage.Storage
	router   *router.Router
	notifier diag.Notifier
	sink     diag.Sink
	base     http.RoundTripper

	built bool
}

// New creates a [Builder] with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. Zero fields keep their defaults.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStorage sets the durable session storage. Defaults to [storage.Memory].
func (b *Builder) WithStorage(st storage.Storage) *Builder {
	b.storage = st
	return b
}

// WithRouter wires a navigation router. Build registers the auth guard on it;
// without a router, 401 handling still clears the session but cannot
// redirect.
func (b *Builder) WithRouter(r *router.Router) *Builder {
	b.router = r
	return b
}

// WithNotifier sets the user-visible message sink. Defaults to silence.
func (b *Builder) WithNotifier(n diag.Notifier) *Builder {
	b.notifier = n
	return b
}

// WithEventSink sets the diagnostic event sink. Events are delivered
// asynchronously through a buffered dispatcher.
func (b *Builder) WithEventSink(s diag.Sink) *Builder {
	b.sink = s
	return b
}

// WithTransport replaces the underlying [http.RoundTripper], e.g. for tests
// or an instrumented transport. The auth header injection wraps it either
// way.
func (b *Builder) WithTransport(rt http.RoundTripper) *Builder {
	b.base = rt
	return b
}

// Build validates the configuration and assembles the [Client].
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}

	cfg := b.config
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	st := b.storage
	if st == nil {
		st = storage.NewMemory()
	}
	notifier := b.notifier
	if notifier == nil {
		notifier = diag.NoOpNotifier{}
	}

	events := diag.NewDispatcher(diag.DispatcherConfig{
		BufferSize: cfg.Notify.BufferSize,
		DropIfFull: cfg.Notify.DropIfFull,
	}, b.sink)

	metrics := NewMetrics(cfg.Metrics)

	store := session.NewStore(st, session.Config{
		UserKey:  cfg.Session.UserKey,
		TokenKey: cfg.Session.TokenKey,
		Sink:     events,
	})

	base := b.base
	if base == nil {
		base = http.DefaultTransport
	}

	client := &Client{
		cfg:      cfg,
		session:  store,
		router:   b.router,
		notifier: notifier,
		events:   events,
		metrics:  metrics,
		http: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &authTransport{
				base:    base,
				store:   store,
				metrics: metrics,
			},
		},
	}

	if b.router != nil {
		guard := router.AuthGuard(store, notifier, cfg.Routes.LoginPath)
		b.router.BeforeEach(func(ctx context.Context, to, from router.Route) router.Decision {
			decision := guard(ctx, to, from)
			if !decision.Allowed {
				metrics.Inc(MetricGuardRedirect)
			}
			return decision
		})
	}

	b.built = true
	return client, nil
}
