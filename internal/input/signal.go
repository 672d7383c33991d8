package input

import (
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalSource reports SIGINT and SIGTERM as Quit.
type SignalSource struct {
	*Queue
	ch   chan os.Signal
	done chan struct{}
}

// NewSignalSource starts listening immediately. Call Stop to restore default handling.
func NewSignalSource() *SignalSource {
	s := &SignalSource{
		Queue: NewQueue(),
		ch:    make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	signal.Notify(s.ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			select {
			case <-s.ch:
				s.Push(Event{Kind: Quit, At: time.Now()})
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func (s *SignalSource) Stop() {
	signal.Stop(s.ch)
	close(s.done)
}
