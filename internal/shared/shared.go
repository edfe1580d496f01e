// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// Clock abstracts the current instant for components whose behavior depends
// on time (rate gating, cache expiry, token lifetimes), so tests can
// substitute a fake implementation.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production [Clock] backed by package time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FormatDuration renders a duration in milliseconds as M:SS for display.
func FormatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// VisibilityString maps a playlist's public flag to a display label.
func VisibilityString(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}
