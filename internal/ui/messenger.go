package ui

import (
	"fmt"
	"io"
	"sync"
)

// Level is the severity of a user notification.
type Level int

// Notification levels.
const (
	LevelInfo Level = iota + 1
	LevelWarning
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Notify(level Level, msg string)
}

// Messenger writes styled notifications, one per line.
type Messenger struct {
	mu     sync.Mutex
	out    io.Writer
	styles *Styles
}

// NewMessenger creates a Messenger writing to out.
func NewMessenger(out io.Writer, noColor bool) *Messenger {
	return &Messenger{out: out, styles: NewStyles(noColor)}
}

// Notify implements Notifier.
func (m *Messenger) Notify(level Level, msg string) {
	var prefix string
	switch level {
	case LevelWarning:
		prefix = m.styles.Warning.Render("!")
	case LevelError:
		prefix = m.styles.Error.Render("✗")
	default:
		prefix = m.styles.Success.Render("✓")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = fmt.Fprintf(m.out, "%s %s\n", prefix, msg)
}
