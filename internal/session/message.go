package session

import "time"

// DefaultMessageTTL is how long success messages stay on screen.
const DefaultMessageTTL = 3 * time.Second

// Kind classifies a status message.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// Message is a status line shown to the operator. Success messages expire,
// errors stay until the next action replaces them.
type Message struct {
	Seq       int
	Kind      Kind
	Text      string
	ExpiresAt time.Time
}

// Success returns a message that expires after ttl.
func Success(seq int, text string, now time.Time, ttl time.Duration) Message {
	return Message{Seq: seq, Kind: KindSuccess, Text: text, ExpiresAt: now.Add(ttl)}
}

// Failure returns a persistent error message.
func Failure(seq int, text string) Message {
	return Message{Seq: seq, Kind: KindError, Text: text}
}

// Info returns a persistent informational message.
func Info(seq int, text string) Message {
	return Message{Seq: seq, Kind: KindInfo, Text: text}
}

// Expired reports whether the message should no longer be shown.
func (m Message) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt)
}

// Empty reports whether there is nothing to show.
func (m Message) Empty() bool {
	return m.Text == ""
}
