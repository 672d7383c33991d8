package device

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	GT1151Addr = 0x14

	gt1151Status = 0x814E
	gt1151Points = 0x814F
	maxPoints    = 5
	pointSize    = 8
)

// txer is the part of i2c.Dev the controller needs.
type txer interface {
	Tx(w, r []byte) error
}

// GT1151 polls a Goodix GT1151 touch controller.
type GT1151 struct {
	bus    i2c.BusCloser
	dev    txer
	bounds image.Rectangle
}

// OpenGT1151 initialises the host drivers and opens the controller on busName.
// Points outside bounds are dropped; an empty rectangle disables the check.
func OpenGT1151(busName string, addr uint16, bounds image.Rectangle) (*GT1151, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	if addr == 0 {
		addr = GT1151Addr
	}
	return &GT1151{
		bus:    bus,
		dev:    &i2c.Dev{Bus: bus, Addr: addr},
		bounds: bounds,
	}, nil
}

func (g *GT1151) Close() error {
	if g.bus != nil {
		return g.bus.Close()
	}
	return nil
}

// ReadTouch returns the first contact point if the controller has a fresh report.
func (g *GT1151) ReadTouch() (image.Point, bool, error) {
	status, err := g.read(gt1151Status, 1)
	if err != nil {
		return image.Point{}, false, err
	}
	if status[0]&0x80 == 0 {
		return image.Point{}, false, nil
	}
	count := int(status[0] & 0x0F)
	if count < 1 || count > maxPoints {
		return image.Point{}, false, g.ack()
	}
	data, err := g.read(gt1151Points, count*pointSize)
	if err != nil {
		return image.Point{}, false, err
	}
	if err := g.ack(); err != nil {
		return image.Point{}, false, err
	}

	p := image.Pt(int(data[1])|int(data[2])<<8, int(data[3])|int(data[4])<<8)
	if !g.bounds.Empty() && !p.In(g.bounds) {
		return image.Point{}, false, nil
	}
	return p, true, nil
}

func (g *GT1151) read(reg uint16, n int) ([]byte, error) {
	w := []byte{byte(reg >> 8), byte(reg & 0xFF)}
	r := make([]byte, n)
	if err := g.dev.Tx(w, r); err != nil {
		return nil, fmt.Errorf("gt1151 read %#04x: %w", reg, err)
	}
	return r, nil
}

// ack clears the status register. An unacknowledged report stops the
// controller from producing new ones.
func (g *GT1151) ack() error {
	if err := g.write(gt1151Status, 0x00); err != nil {
		return fmt.Errorf("gt1151 ack: %w", err)
	}
	return nil
}

func (g *GT1151) write(reg uint16, b byte) error {
	w := []byte{byte(reg >> 8), byte(reg & 0xFF), b}
	return g.dev.Tx(w, nil)
}
