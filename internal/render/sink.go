package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGSink writes each frame to Path, replacing it atomically.
type PNGSink struct {
	Path string
}

func (s PNGSink) Flush(img *image.RGBA) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".frame-*.png")
	if err != nil {
		return fmt.Errorf("create temp frame: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// PixelFormat is the framebuffer memory layout.
type PixelFormat int

const (
	BGRA32 PixelFormat = iota
	RGB565
)

// FramebufferSink copies frames into a Linux framebuffer device such as /dev/fb0.
// The frame must match the framebuffer resolution.
type FramebufferSink struct {
	Path   string
	Format PixelFormat
}

func (s FramebufferSink) Flush(img *image.RGBA) error {
	f, err := os.OpenFile(s.Path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open framebuffer: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteAt(Encode(img, s.Format), 0); err != nil {
		return fmt.Errorf("write framebuffer: %w", err)
	}
	return nil
}

// Encode converts img to raw framebuffer bytes, row by row.
func Encode(img *image.RGBA, format PixelFormat) []byte {
	b := img.Bounds()
	bpp := 4
	if format == RGB565 {
		bpp = 2
	}
	out := make([]byte, 0, b.Dx()*b.Dy()*bpp)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			switch format {
			case RGB565:
				v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(bl>>3)
				out = append(out, byte(v), byte(v>>8))
			default:
				out = append(out, bl, g, r, 0xff)
			}
		}
	}
	return out
}

// ParsePixelFormat maps a config name to a PixelFormat.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "", "bgra32":
		return BGRA32, nil
	case "rgb565":
		return RGB565, nil
	}
	return 0, fmt.Errorf("unknown pixel format %q", s)
}

// NopSink discards frames.
type NopSink struct{}

func (NopSink) Flush(*image.RGBA) error { return nil }
