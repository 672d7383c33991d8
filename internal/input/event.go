// Package input turns OS signals, key presses and touch-panel reads into
// events the display loop drains once per tick.
package input

import (
	"image"
	"sync"
	"time"
)

type Kind int

const (
	Quit Kind = iota + 1
	KeyEscape
	Touch
)

func (k Kind) String() string {
	switch k {
	case Quit:
		return "quit"
	case KeyEscape:
		return "escape"
	case Touch:
		return "touch"
	}
	return "unknown"
}

type Event struct {
	Kind Kind
	Pos  image.Point
	At   time.Time
}

// Ends reports whether the event should stop the display loop.
func (e Event) Ends() bool { return e.Kind == Quit || e.Kind == KeyEscape }

// Source is drained fully on every Poll. Poll never blocks.
type Source interface {
	Poll() []Event
}

// Queue is a Source fed from other goroutines.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

func (q *Queue) Poll() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Sources polls each source in order and concatenates the results.
type Sources []Source

func (s Sources) Poll() []Event {
	var out []Event
	for _, src := range s {
		if src == nil {
			continue
		}
		out = append(out, src.Poll()...)
	}
	return out
}
