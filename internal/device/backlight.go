// Package device talks to the display hardware: the sysfs backlight and the
// GT1151 capacitive touch controller.
package device

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
)

const (
	DefaultBacklightPath = "/sys/class/backlight/rpi_backlight/brightness"
	MaxBrightness        = 255
)

var ErrBacklightReleased = errors.New("backlight session released")

// Backlight is an open session on a sysfs brightness attribute. Release puts
// the level back to the default and must be called on every exit path.
type Backlight struct {
	path         string
	defaultLevel int

	mu       sync.Mutex
	released bool
	level    int
}

// AcquireBacklight checks the attribute is writable and sets the default level.
// Failure usually means the process lacks permission (sysfs brightness is usually root-only).
func AcquireBacklight(path string, defaultLevel int) (*Backlight, error) {
	if path == "" {
		path = DefaultBacklightPath
	}
	b := &Backlight{path: path, defaultLevel: clampLevel(defaultLevel), level: -1}
	if err := b.write(b.defaultLevel); err != nil {
		return nil, fmt.Errorf("acquire backlight: %w", err)
	}
	return b, nil
}

// Set writes level, clamped to 0-255.
func (b *Backlight) Set(level int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrBacklightReleased
	}
	return b.write(clampLevel(level))
}

// Level is the last level written, or -1 before the first write.
func (b *Backlight) Level() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

// Release restores the default level. Later calls are no-ops.
func (b *Backlight) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil
	}
	b.released = true
	return b.write(b.defaultLevel)
}

// write opens the attribute fresh each time; sysfs files do not like seeks.
func (b *Backlight) write(level int) error {
	f, err := os.OpenFile(b.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", b.path, err)
	}
	if _, err := f.WriteString(strconv.Itoa(level)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", b.path, err)
	}
	b.level = level
	return nil
}

func clampLevel(l int) int {
	if l < 0 {
		return 0
	}
	if l > MaxBrightness {
		return MaxBrightness
	}
	return l
}
