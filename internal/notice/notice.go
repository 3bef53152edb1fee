// Package notice holds short-lived operator messages.
//
// A Board shows at most one notice at a time. Posting replaces whatever
// was showing, and a notice disappears on its own once its time-to-live
// has passed. Time comes from an injected clock so expiry is testable.
package notice

import "time"

// DefaultTTL is how long a notice stays visible when none is configured.
const DefaultTTL = 3 * time.Second

// Level classifies a notice.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "ok"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a message with an expiry time.
type Notice struct {
	Level   Level
	Text    string
	Expires time.Time
}

// Board holds the current notice.
type Board struct {
	ttl     time.Duration
	now     func() time.Time
	current *Notice
}

// NewBoard creates a board. A non-positive ttl uses DefaultTTL; a nil now
// uses time.Now.
func NewBoard(ttl time.Duration, now func() time.Time) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Board{ttl: ttl, now: now}
}

// Post replaces the current notice.
func (b *Board) Post(level Level, text string) {
	b.current = &Notice{
		Level:   level,
		Text:    text,
		Expires: b.now().Add(b.ttl),
	}
}

// Current returns the showing notice, or false once it has expired.
func (b *Board) Current() (Notice, bool) {
	if b.current == nil {
		return Notice{}, false
	}
	if !b.now().Before(b.current.Expires) {
		b.current = nil
		return Notice{}, false
	}
	return *b.current, true
}
