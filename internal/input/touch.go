package input

import (
	"image"
	"time"

	"wall_display/internal/logger"
)

// TouchPanel reads the current contact state of a touch controller.
type TouchPanel interface {
	ReadTouch() (pos image.Point, pressed bool, err error)
}

// TouchSource emits one Touch per press. Holding a finger down does not repeat.
type TouchSource struct {
	panel TouchPanel
	log   *logger.Logger
	now   func() time.Time

	held   bool
	errors int
}

func NewTouchSource(p TouchPanel, log *logger.Logger) *TouchSource {
	if log == nil {
		log = logger.Nop()
	}
	return &TouchSource{panel: p, log: log, now: time.Now}
}

func (t *TouchSource) Poll() []Event {
	pos, pressed, err := t.panel.ReadTouch()
	if err != nil {
		t.errors++
		// one line per burst of failures is enough
		if t.errors == 1 {
			t.log.Warnw("touch read failed", "error", err)
		}
		return nil
	}
	t.errors = 0
	if !pressed {
		t.held = false
		return nil
	}
	if t.held {
		return nil
	}
	t.held = true
	return []Event{{Kind: Touch, Pos: pos, At: t.now()}}
}
