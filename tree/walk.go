package tree

// maxAncestorDepth bounds parent-chain ascent so a cyclic chain cannot hang
// position resolution.
const maxAncestorDepth = 1024

// Walk returns the visible, unlocked text leaves below root in depth-first
// order. An element is collected only when it and every ancestor up to and
// including root is visible. Lock state is checked on the leaf alone.
//
// A TextNode is always a leaf: its own children are never visited, so a
// locked text element is excluded together with anything nested in it.
// Elements without children are leaves.
func Walk(root Node) []TextNode {
	var leaves []TextNode
	walk(root, &leaves)
	return leaves
}

func walk(n Node, leaves *[]TextNode) {
	if n == nil || !n.Visible() {
		return
	}

	if t, ok := n.(TextNode); ok {
		if !t.Locked() {
			*leaves = append(*leaves, t)
		}
		return
	}

	c, ok := n.(Container)
	if !ok {
		return
	}
	for _, child := range c.Children() {
		walk(child, leaves)
	}
}

// AbsolutePosition returns the position of n in the coordinate space of
// slide: the node's own offset plus the offset of every ancestor below the
// slide. Ascent stops at the slide, at a nil parent, or after
// maxAncestorDepth steps.
func AbsolutePosition(n Node, slide Node) (x, y float64) {
	x, y = n.Position()

	var slideID string
	if slide != nil {
		slideID = slide.ID()
	}

	p := n.Parent()
	for depth := 0; p != nil && depth < maxAncestorDepth; depth++ {
		if slide != nil && p.ID() == slideID {
			break
		}
		px, py := p.Position()
		x += px
		y += py
		p = p.Parent()
	}

	return x, y
}

// SizeOf returns the dimensions of n, or zeros when n does not report any
func SizeOf(n Node) (w, h float64) {
	if s, ok := n.(Sized); ok {
		if w, h, ok := s.Size(); ok {
			return w, h
		}
	}
	return 0, 0
}
