package layout

import (
	"strings"

	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/tree"
)

// Element is a text leaf resolved into slide-absolute coordinates
type Element struct {
	Node tree.TextNode

	// X and Y are the slide-absolute position of the element's top-left corner
	X, Y float64

	// Width and Height are zero when the host does not report a size
	Width, Height float64

	// Order is the element's position in collection order
	Order int
}

// BBox returns the element's bounding box in slide space
func (e Element) BBox() model.BBox {
	return model.NewBBox(e.X, e.Y, e.Width, e.Height)
}

// Center returns the geometric center of the element in slide space
func (e Element) Center() model.Point {
	return e.BBox().Center()
}

// Text returns the element's characters with surrounding whitespace trimmed
func (e Element) Text() string {
	return strings.TrimSpace(e.Node.Characters())
}

// Collect walks a slide and resolves every visible, unlocked text leaf into
// an Element.
func Collect(slide tree.Node) []Element {
	leaves := tree.Walk(slide)

	elements := make([]Element, 0, len(leaves))
	for i, leaf := range leaves {
		x, y := tree.AbsolutePosition(leaf, slide)
		w, h := tree.SizeOf(leaf)
		elements = append(elements, Element{
			Node:   leaf,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
			Order:  i,
		})
	}

	return elements
}
