// Package raster renders slide snapshots into small grayscale PNG images.
//
// The renders are the input for visual analysis, not a faithful preview:
// pictures are painted as solid blocks and text is drawn with a fixed bitmap
// face stretched to each element's font size. That is enough for finding
// image areas, text blocks and column gutters.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/tree"
)

// ErrUnsized is returned when the slide does not report its dimensions
var ErrUnsized = errors.New("slide has no size")

// Glyph metrics of basicfont.Face7x13
const (
	glyphAdvance = 7
	glyphHeight  = 13
	glyphAscent  = 11
)

// RenderConfig holds configuration for slide rendering
type RenderConfig struct {
	Background color.Gray
	Ink        color.Gray

	// ImageFill paints picture elements
	ImageFill color.Gray

	// FallbackSize is used for text whose font size cannot be read
	// Default: 16
	FallbackSize float64

	// LineSpacing is the line height as a multiple of the font size
	// Default: 1.2
	LineSpacing float64

	// Scaler stretches glyph lines to their target size
	// Default: draw.ApproxBiLinear
	Scaler draw.Scaler
}

// DefaultRenderConfig returns sensible default configuration
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Background:   color.Gray{Y: 0xff},
		Ink:          color.Gray{Y: 0x00},
		ImageFill:    color.Gray{Y: 0x50},
		FallbackSize: 16,
		LineSpacing:  1.2,
		Scaler:       draw.ApproxBiLinear,
	}
}

// Renderer exports slides as images
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a renderer with default configuration
func NewRenderer() *Renderer {
	return &Renderer{config: DefaultRenderConfig()}
}

// NewRendererWithConfig creates a renderer with custom configuration
func NewRendererWithConfig(config RenderConfig) *Renderer {
	def := DefaultRenderConfig()
	if config.FallbackSize <= 0 {
		config.FallbackSize = def.FallbackSize
	}
	if config.LineSpacing <= 0 {
		config.LineSpacing = def.LineSpacing
	}
	if config.Scaler == nil {
		config.Scaler = def.Scaler
	}
	return &Renderer{config: config}
}

// Export renders slide at scale (slide units to pixels) and returns it
// PNG-encoded. Scales outside (0, 1] are treated as 1.
func (r *Renderer) Export(ctx context.Context, slide tree.Node, scale float64) (model.Raster, error) {
	w, h := tree.SizeOf(slide)
	if w <= 0 || h <= 0 {
		return model.Raster{}, fmt.Errorf("exporting %s: %w", slide.ID(), ErrUnsized)
	}
	if scale <= 0 || scale > 1 {
		scale = 1
	}

	pw := max(1, int(math.Round(w*scale)))
	ph := max(1, int(math.Round(h*scale)))

	dst := image.NewGray(image.Rect(0, 0, pw, ph))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.config.Background), image.Point{}, draw.Src)

	p := painter{config: r.config, dst: dst, slide: slide, scale: scale}
	if err := p.paintChildren(ctx, slide); err != nil {
		return model.Raster{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return model.Raster{}, fmt.Errorf("encoding render: %w", err)
	}

	return model.Raster{PNG: buf.Bytes(), Width: pw, Height: ph}, nil
}

type painter struct {
	config RenderConfig
	dst    *image.Gray
	slide  tree.Node
	scale  float64
}

func (p *painter) paintChildren(ctx context.Context, n tree.Node) error {
	c, ok := n.(tree.Container)
	if !ok {
		return nil
	}
	for _, child := range c.Children() {
		if err := p.paint(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

func (p *painter) paint(ctx context.Context, n tree.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == nil || !n.Visible() {
		return nil
	}

	if t, ok := n.(tree.TextNode); ok {
		p.paintText(t)
		return nil
	}
	if img, ok := n.(tree.Imager); ok && img.IsImage() {
		p.paintBlock(n)
	}

	return p.paintChildren(ctx, n)
}

// rect returns the pixel rectangle of n, empty when n is unsized
func (p *painter) rect(n tree.Node) image.Rectangle {
	x, y := tree.AbsolutePosition(n, p.slide)
	w, h := tree.SizeOf(n)
	return image.Rect(
		int(math.Floor(x*p.scale)),
		int(math.Floor(y*p.scale)),
		int(math.Ceil((x+w)*p.scale)),
		int(math.Ceil((y+h)*p.scale)),
	)
}

func (p *painter) paintBlock(n tree.Node) {
	r := p.rect(n).Intersect(p.dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(p.dst, r, image.NewUniform(p.config.ImageFill), image.Point{}, draw.Src)
}

func (p *painter) paintText(t tree.TextNode) {
	size, err := t.FontSize()
	if err != nil || size <= 0 {
		size = p.config.FallbackSize
	}
	x, y := tree.AbsolutePosition(t, p.slide)
	lineHeight := size * p.config.LineSpacing

	for i, line := range strings.Split(t.Characters(), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}

		glyphs := p.glyphLine(line)
		stretch := size / glyphHeight
		top := y + float64(i)*lineHeight
		target := image.Rect(
			int(math.Round(x*p.scale)),
			int(math.Round(top*p.scale)),
			int(math.Round((x+float64(glyphs.Bounds().Dx())*stretch)*p.scale)),
			int(math.Round((top+size)*p.scale)),
		)
		if target.Dx() < 1 || target.Dy() < 1 {
			continue
		}

		p.config.Scaler.Scale(p.dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
	}
}

// glyphLine draws one line of text at the bitmap face's native size onto a
// transparent image
func (p *painter) glyphLine(line string) *image.RGBA {
	n := utf8.RuneCountInString(line)
	img := image.NewRGBA(image.Rect(0, 0, n*glyphAdvance, glyphHeight))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(p.config.Ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, glyphAscent),
	}
	d.DrawString(line)

	return img
}
