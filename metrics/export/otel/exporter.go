package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	mallclient "github.com/freshmall/mallclient"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() mallclient.MetricsSnapshot
}

type counterDef struct {
	id   mallclient.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{mallclient.MetricLoginSuccess, "mallclient_login_success_total", "Successful logins."},
	{mallclient.MetricLoginFailure, "mallclient_login_failure_total", "Rejected logins."},
	{mallclient.MetricRegisterSuccess, "mallclient_register_success_total", "Successful registrations."},
	{mallclient.MetricRegisterFailure, "mallclient_register_failure_total", "Rejected registrations."},
	{mallclient.MetricRequestAuthorized, "mallclient_request_authorized_total", "Requests sent with a bearer token."},
	{mallclient.MetricRequestAnonymous, "mallclient_request_anonymous_total", "Requests sent without a token."},
	{mallclient.MetricAuthExpired, "mallclient_auth_expired_total", "401 responses classified as session expiry."},
	{mallclient.MetricGuardRedirect, "mallclient_guard_redirect_total", "Navigations turned away by the auth guard."},
	{mallclient.MetricMonitorTick, "mallclient_monitor_tick_total", "Background expiry checks."},
	{mallclient.MetricMonitorLogout, "mallclient_monitor_logout_total", "Logouts forced by the expiry monitor."},
}

type observedCounter struct {
	id         mallclient.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter mirrors the client's counters into OTel instruments.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
}

// NewExporter registers observable counters on meter, fed from the client's
// metrics snapshot.
func NewExporter(meter metric.Meter, client *mallclient.Client) (*Exporter, error) {
	return NewExporterFromSource(meter, client)
}

// NewExporterFromSource is like [NewExporter] but accepts any snapshot
// source, which keeps tests off a full client.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs))
	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.id, instrument: ins})
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
