package input

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"
)

func TestQueue_PollDrains(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Kind: Touch})
	q.Push(Event{Kind: Quit})

	got := q.Poll()
	if len(got) != 2 || got[0].Kind != Touch || got[1].Kind != Quit {
		t.Fatalf("Poll() = %+v", got)
	}
	if again := q.Poll(); len(again) != 0 {
		t.Fatalf("second Poll() = %+v, want empty", again)
	}
}

func TestSources_ConcatenatesInOrder(t *testing.T) {
	a, b := NewQueue(), NewQueue()
	a.Push(Event{Kind: Touch})
	b.Push(Event{Kind: KeyEscape})

	got := Sources{a, nil, b}.Poll()
	if len(got) != 2 || got[0].Kind != Touch || got[1].Kind != KeyEscape {
		t.Fatalf("Poll() = %+v", got)
	}
}

func TestEvent_Ends(t *testing.T) {
	for kind, want := range map[Kind]bool{Quit: true, KeyEscape: true, Touch: false} {
		if got := (Event{Kind: kind}).Ends(); got != want {
			t.Errorf("%s.Ends() = %v, want %v", kind, got, want)
		}
	}
}

func TestKeySource_MapsKeys(t *testing.T) {
	k := NewKeySource(strings.NewReader("x\x1bq"))
	k.Run(context.Background())

	got := k.Poll()
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(got), got)
	}
	if got[0].Kind != KeyEscape || got[1].Kind != Quit {
		t.Fatalf("kinds = %s, %s", got[0].Kind, got[1].Kind)
	}
}

type fakePanel struct {
	reads []panelRead
	i     int
}

type panelRead struct {
	pressed bool
	pos     image.Point
	err     error
}

func (f *fakePanel) ReadTouch() (image.Point, bool, error) {
	if f.i >= len(f.reads) {
		return image.Point{}, false, nil
	}
	r := f.reads[f.i]
	f.i++
	return r.pos, r.pressed, r.err
}

func TestTouchSource_EmitsOncePerPress(t *testing.T) {
	p := &fakePanel{reads: []panelRead{
		{pressed: true, pos: image.Pt(10, 20)},
		{pressed: true, pos: image.Pt(11, 21)},
		{pressed: false},
		{err: errors.New("i2c nack")},
		{pressed: true, pos: image.Pt(400, 240)},
	}}
	at := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	src := NewTouchSource(p, nil)
	src.now = func() time.Time { return at }

	var got []Event
	for range p.reads {
		got = append(got, src.Poll()...)
	}
	if len(got) != 2 {
		t.Fatalf("got %d touches, want 2: %+v", len(got), got)
	}
	if got[0].Pos != image.Pt(10, 20) || got[1].Pos != image.Pt(400, 240) {
		t.Errorf("positions = %v, %v", got[0].Pos, got[1].Pos)
	}
	if !got[0].At.Equal(at) {
		t.Errorf("At = %v", got[0].At)
	}
}
