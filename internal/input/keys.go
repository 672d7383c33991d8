package input

import (
	"bufio"
	"context"
	"io"
	"time"
)

const escByte = 0x1b

// KeySource reads single bytes from a terminal: Esc ends the loop, q quits.
type KeySource struct {
	*Queue
	r io.Reader
}

func NewKeySource(r io.Reader) *KeySource {
	return &KeySource{Queue: NewQueue(), r: r}
}

// Run reads until EOF, a read error or ctx is done. Reads themselves are not
// interruptible, so the goroutine may outlive ctx until the next byte.
func (k *KeySource) Run(ctx context.Context) {
	br := bufio.NewReader(k.r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		switch b {
		case escByte:
			k.Push(Event{Kind: KeyEscape, At: time.Now()})
		case 'q', 'Q':
			k.Push(Event{Kind: Quit, At: time.Now()})
		}
	}
}
