package diag

import (
	"fmt"
	"io"
	"sync"
)

// Notifier surfaces short user-visible messages. The host application decides
// how to render them; the client only decides when to speak.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// NoOpNotifier silences all messages.
type NoOpNotifier struct{}

// Info implements [Notifier].
func (NoOpNotifier) Info(string) {}

// Warn implements [Notifier].
func (NoOpNotifier) Warn(string) {}

// Error implements [Notifier].
func (NoOpNotifier) Error(string) {}

// WriterNotifier writes "level: message" lines to an [io.Writer].
type WriterNotifier struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewWriterNotifier creates a [WriterNotifier] on w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{writer: w}
}

// Info implements [Notifier].
func (n *WriterNotifier) Info(msg string) { n.write("info", msg) }

// Warn implements [Notifier].
func (n *WriterNotifier) Warn(msg string) { n.write("warn", msg) }

// Error implements [Notifier].
func (n *WriterNotifier) Error(msg string) { n.write("error", msg) }

func (n *WriterNotifier) write(level, msg string) {
	if n == nil || n.writer == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.writer, "%s: %s\n", level, msg)
}
