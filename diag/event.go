package diag

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Diagnostic event kinds emitted by the session subsystem.
const (
	// EventTokenDecodeFailed marks a bearer token that could not be decoded.
	EventTokenDecodeFailed = "token_decode_failed"
	// EventUserBlobCorrupt marks a persisted user entry that failed to parse.
	EventUserBlobCorrupt = "user_blob_corrupt"
	// EventForcedLogout marks a logout triggered by the client itself
	// (expired token, server-declared auth failure) rather than the user.
	EventForcedLogout = "forced_logout"
	// EventRedirectScheduled marks a delayed navigation to the login route.
	EventRedirectScheduled = "redirect_scheduled"
	// EventMonitorStopped marks the background expiry monitor tearing down.
	EventMonitorStopped = "monitor_stopped"
	// EventMonitorPanic marks a recovered panic inside a monitor tick.
	EventMonitorPanic = "monitor_panic"
)

// Event is a single diagnostic record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Sink receives diagnostic events. Implementations must be safe for
// concurrent use and must not block longer than ctx allows.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements [Sink].
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink forwards events to a buffered channel, for hosts that want to
// consume them on their own goroutine.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink creates a [ChannelSink] with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

// Emit implements [Sink].
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per event to an [io.Writer].
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a [JSONWriterSink] on w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit implements [Sink].
func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
