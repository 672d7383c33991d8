// Package render rasterises a DisplayDecision into an RGBA frame and hands it
// to a Sink (PNG file, Linux framebuffer, or nothing).
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"wall_display/internal/logger"
	"wall_display/internal/models"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colorBackground  = color.RGBA{0, 0, 0, 255}
	colorAlarmAccent = color.RGBA{96, 0, 0, 255}
	colorHeader      = color.RGBA{255, 255, 255, 255}
	colorSubheader   = color.RGBA{255, 0, 0, 255}
	colorInfo        = color.RGBA{255, 255, 255, 255}
)

// Sink receives finished frames.
type Sink interface {
	Flush(img *image.RGBA) error
}

type Options struct {
	Width, Height int
	IconDir       string
}

// Renderer draws frames of a fixed size.
type Renderer struct {
	opts Options
	sink Sink
	log  *logger.Logger

	mu    sync.Mutex
	icons map[string]image.Image
}

func New(opts Options, sink Sink, log *logger.Logger) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{opts: opts, sink: sink, log: log, icons: map[string]image.Image{}}
}

// DrawFrame composes d and flushes it to the sink.
func (r *Renderer) DrawFrame(d models.DisplayDecision) error {
	img := r.Compose(d)
	if r.sink == nil {
		return nil
	}
	if err := r.sink.Flush(img); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	return nil
}

// Compose lays out d. The primary view is the clock layout:
// icon top-left, weather line beside it, big centred time, date below.
func (r *Renderer) Compose(d models.DisplayDecision) *image.RGBA {
	w, h := r.opts.Width, r.opts.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := colorBackground
	if d.Background == models.BackgroundAlarmAccent {
		bg = colorAlarmAccent
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	r.drawIcon(img, d.IconID, image.Rect(10, 10, 60, 60))
	drawText(img, d.WeatherLine, colorInfo, image.Pt(70, 15), 2, false)

	if d.View == models.ViewForecastStrip {
		r.drawForecast(img, d.Forecast)
		return img
	}

	drawText(img, d.Clock, colorHeader, image.Pt(w/2, h*475/1000), max(1, h*4/10/glyphHeight), true)
	drawText(img, d.Date, colorSubheader, image.Pt(w/2, h*825/1000), max(1, h/10/glyphHeight), true)
	return img
}

func (r *Renderer) drawForecast(img *image.RGBA, slots []models.ForecastSlot) {
	if len(slots) == 0 {
		b := img.Bounds()
		drawText(img, "No forecast", colorInfo, image.Pt(b.Dx()/2, b.Dy()/2), 3, true)
		return
	}
	b := img.Bounds()
	slotW := b.Dx() / len(slots)
	top := b.Dy() / 4
	for i, s := range slots {
		cx := slotW*i + slotW/2
		drawText(img, s.Day, colorHeader, image.Pt(cx, top), 4, true)
		iconSize := min(slotW-20, b.Dy()/4)
		r.drawIcon(img, s.IconID, image.Rect(cx-iconSize/2, top+40, cx+iconSize/2, top+40+iconSize))
		drawText(img, s.Text, colorInfo, image.Pt(cx, top+60+iconSize), 2, true)
	}
}

func (r *Renderer) drawIcon(img *image.RGBA, id string, dst image.Rectangle) {
	if id == "" || r.opts.IconDir == "" {
		return
	}
	icon := r.icon(id)
	if icon == nil {
		return
	}
	xdraw.NearestNeighbor.Scale(img, dst, icon, icon.Bounds(), draw.Over, nil)
}

// icon loads icons/<id>.png once. Missing files are remembered as nil.
func (r *Renderer) icon(id string) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	if img, ok := r.icons[id]; ok {
		return img
	}
	img, err := loadPNG(filepath.Join(r.opts.IconDir, id+".png"))
	if err != nil {
		r.log.Warnw("weather icon unavailable", "icon", id, "error", err)
	}
	r.icons[id] = img
	return img
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

const (
	glyphHeight = 13
	glyphAscent = 11
)

// drawText renders s with the 7x13 bitmap face and scales it up by an integer
// factor. at is the top-left corner, or the centre when centred is set.
func drawText(dst draw.Image, s string, c color.Color, at image.Point, scale int, centred bool) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	src := image.NewRGBA(image.Rect(0, 0, width, glyphHeight))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, glyphAscent),
	}
	d.DrawString(s)

	size := image.Pt(width*scale, glyphHeight*scale)
	origin := at
	if centred {
		origin = at.Sub(size.Div(2))
	}
	xdraw.NearestNeighbor.Scale(dst, image.Rectangle{Min: origin, Max: origin.Add(size)}, src, src.Bounds(), draw.Over, nil)
}
