package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Level marks how a notification is rendered.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

// Notification is a single message for the bar.
type Notification struct {
	Subject   string
	Message   string
	Level     Level
	Timestamp time.Time
}

// Bar manages a FIFO queue of notification entries.
type Bar struct {
	items    []Notification
	maxStore int
}

// NewBar creates a notification bar with the given buffer size.
func NewBar(maxStore int) *Bar {
	return &Bar{
		items:    make([]Notification, 0, maxStore),
		maxStore: maxStore,
	}
}

// Push adds a notification, trimming oldest if at capacity.
func (b *Bar) Push(n Notification) {
	b.items = append(b.items, n)
	if len(b.items) > b.maxStore {
		b.items = b.items[len(b.items)-b.maxStore:]
	}
}

// Visible returns the most recent notifications (max 2).
func (b *Bar) Visible() []Notification {
	if len(b.items) <= 2 {
		return b.items
	}
	return b.items[len(b.items)-2:]
}

// ClearSubject removes all notifications about subject.
func (b *Bar) ClearSubject(subject string) {
	filtered := b.items[:0]
	for _, n := range b.items {
		if n.Subject != subject {
			filtered = append(filtered, n)
		}
	}
	b.items = filtered
}

// Expire drops notifications older than maxAge. Warnings are kept.
func (b *Bar) Expire(now time.Time, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	filtered := b.items[:0]
	for _, n := range b.items {
		if n.Level == LevelWarn || now.Sub(n.Timestamp) < maxAge {
			filtered = append(filtered, n)
		}
	}
	b.items = filtered
}

// Len returns the total number of buffered notifications.
func (b *Bar) Len() int {
	return len(b.items)
}

// Render formats the visible notifications for display within the given
// number of terminal cells.
func (b *Bar) Render(width int, now time.Time) string {
	visible := b.Visible()
	if len(visible) == 0 {
		return ""
	}

	parts := make([]string, 0, len(visible))
	for _, n := range visible {
		parts = append(parts, formatNotification(n, now))
	}
	result := strings.Join(parts, " │ ")

	if runewidth.StringWidth(result) > width {
		if width > 1 {
			result = runewidth.Truncate(result, width, "…")
		} else {
			result = runewidth.Truncate(result, width, "")
		}
	}
	return result
}

func formatNotification(n Notification, now time.Time) string {
	age := now.Sub(n.Timestamp).Truncate(time.Second)
	var ageStr string
	if age < time.Minute {
		ageStr = fmt.Sprintf("%ds ago", int(age.Seconds()))
	} else if age < time.Hour {
		ageStr = fmt.Sprintf("%dm ago", int(age.Minutes()))
	} else {
		ageStr = fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	marker := "●"
	if n.Level == LevelWarn {
		marker = "▲"
	}
	return fmt.Sprintf("%s %s: %s (%s)", marker, n.Subject, n.Message, ageStr)
}
