package tree

import (
	"errors"
	"strings"
)

// ErrFontSizeUnavailable is returned by TextNode.FontSize when the host
// cannot report a size for the element's first character.
var ErrFontSizeUnavailable = errors.New("font size unavailable")

// Node is the read-only view of a host document element
type Node interface {
	// ID uniquely identifies the element within its document
	ID() string

	// Name is the author-visible element name (may be empty)
	Name() string

	// Parent returns the containing element, or nil at the document root
	Parent() Node

	// Visible reports whether the element is shown
	Visible() bool

	// Locked reports whether the element is locked against editing
	Locked() bool

	// Position returns the element's offset relative to its parent
	Position() (x, y float64)
}

// Container is implemented by elements that have children
type Container interface {
	Node
	Children() []Node
}

// TextNode is implemented by positioned text leaves
type TextNode interface {
	Node

	// Characters returns the raw text content
	Characters() string

	// FontSize returns the size of the first character. Elements with mixed
	// sizing report their first run.
	FontSize() (float64, error)
}

// Sized is implemented by elements that know their dimensions
type Sized interface {
	Size() (width, height float64, ok bool)
}

// Imager is implemented by leaves that paint raster content
type Imager interface {
	IsImage() bool
}

// base holds the attributes shared by all snapshot nodes
type base struct {
	id     string
	name   string
	x, y   float64
	w, h   float64
	sized  bool
	hidden bool
	locked bool
	parent Node
}

func (b *base) ID() string                   { return b.id }
func (b *base) Name() string                 { return b.name }
func (b *base) Parent() Node                 { return b.parent }
func (b *base) Visible() bool                { return !b.hidden }
func (b *base) Locked() bool                 { return b.locked }
func (b *base) Position() (float64, float64) { return b.x, b.y }

// Size returns the element dimensions; ok is false when none were set.
func (b *base) Size() (float64, float64, bool) {
	return b.w, b.h, b.sized
}

// Group is a snapshot container: a slide, frame or group of shapes
type Group struct {
	base
	children []Node
}

// NewGroup creates an empty, visible, unlocked group at the origin
func NewGroup(id, name string) *Group {
	return &Group{base: base{id: id, name: name}}
}

// At sets the group's offset relative to its parent
func (g *Group) At(x, y float64) *Group {
	g.x, g.y = x, y
	return g
}

// WithSize sets the group's dimensions
func (g *Group) WithSize(w, h float64) *Group {
	g.w, g.h, g.sized = w, h, true
	return g
}

// Hide marks the group as invisible
func (g *Group) Hide() *Group {
	g.hidden = true
	return g
}

// Lock marks the group as locked
func (g *Group) Lock() *Group {
	g.locked = true
	return g
}

// Add appends children and makes g their parent
func (g *Group) Add(children ...Node) *Group {
	for _, c := range children {
		setParent(c, g)
		g.children = append(g.children, c)
	}
	return g
}

// Children returns the group's direct children
func (g *Group) Children() []Node {
	return g.children
}

// Run is a span of text sharing one font size
type Run struct {
	Text string
	Size float64 // points; zero when unknown
}

// Text is a snapshot text leaf. A text element may carry children of its
// own; traversal still treats it as a leaf.
type Text struct {
	base
	runs     []Run
	children []Node
}

// NewText creates a single-run text element. A size <= 0 means the size is
// unreadable.
func NewText(id, content string, size float64) *Text {
	return &Text{
		base: base{id: id, name: content},
		runs: []Run{{Text: content, Size: size}},
	}
}

// NewRichText creates a text element from several runs
func NewRichText(id string, runs ...Run) *Text {
	t := &Text{base: base{id: id}, runs: append([]Run(nil), runs...)}
	t.name = t.Characters()
	return t
}

// At sets the element's offset relative to its parent
func (t *Text) At(x, y float64) *Text {
	t.x, t.y = x, y
	return t
}

// WithSize sets the element's dimensions
func (t *Text) WithSize(w, h float64) *Text {
	t.w, t.h, t.sized = w, h, true
	return t
}

// Named overrides the element name
func (t *Text) Named(name string) *Text {
	t.name = name
	return t
}

// Hide marks the element as invisible
func (t *Text) Hide() *Text {
	t.hidden = true
	return t
}

// Lock marks the element as locked
func (t *Text) Lock() *Text {
	t.locked = true
	return t
}

// Add appends children to the text element
func (t *Text) Add(children ...Node) *Text {
	for _, c := range children {
		setParent(c, t)
		t.children = append(t.children, c)
	}
	return t
}

// Children returns the text element's children
func (t *Text) Children() []Node {
	return t.children
}

// Runs returns the element's text runs
func (t *Text) Runs() []Run {
	return t.runs
}

// Characters returns the concatenated run text
func (t *Text) Characters() string {
	var b strings.Builder
	for _, r := range t.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// FontSize returns the size of the first non-blank character, which is the
// size of the first run holding one. Leading whitespace-only runs are
// skipped so an inherited size on a stray space does not decide the level.
func (t *Text) FontSize() (float64, error) {
	for _, r := range t.runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if r.Size <= 0 {
			return 0, ErrFontSizeUnavailable
		}
		return r.Size, nil
	}
	return 0, ErrFontSizeUnavailable
}

// Shape is a snapshot non-text leaf such as a picture or decoration
type Shape struct {
	base
	image bool
}

// NewShape creates a plain shape leaf
func NewShape(id, name string) *Shape {
	return &Shape{base: base{id: id, name: name}}
}

// NewImage creates a picture leaf
func NewImage(id, name string) *Shape {
	return &Shape{base: base{id: id, name: name}, image: true}
}

// At sets the shape's offset relative to its parent
func (s *Shape) At(x, y float64) *Shape {
	s.x, s.y = x, y
	return s
}

// WithSize sets the shape's dimensions
func (s *Shape) WithSize(w, h float64) *Shape {
	s.w, s.h, s.sized = w, h, true
	return s
}

// Hide marks the shape as invisible
func (s *Shape) Hide() *Shape {
	s.hidden = true
	return s
}

// IsImage reports whether the shape paints raster content
func (s *Shape) IsImage() bool {
	return s.image
}

func setParent(n Node, parent Node) {
	switch c := n.(type) {
	case *Group:
		c.parent = parent
	case *Text:
		c.parent = parent
	case *Shape:
		c.parent = parent
	}
}
