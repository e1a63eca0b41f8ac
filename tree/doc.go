// Package tree models the host document that slide text is extracted from.
//
// The layout pipeline never binds to a concrete document API. Instead it reads
// a narrow set of capabilities through the [Node] interface and its optional
// extensions:
//
//   - [Container] - elements that have children (slides, groups, frames)
//   - [TextNode] - positioned text leaves with characters and a font size
//   - [Sized] - elements that know their width and height
//   - [Imager] - leaves that paint raster content (pictures)
//
// Host adapters either implement these interfaces directly or build a
// read-only snapshot from the snapshot types in this package ([Group],
// [Text], [Shape]), which is also how tests construct synthetic slides:
//
//	slide := tree.NewGroup("s1", "Slide 1").WithSize(960, 540)
//	slide.Add(
//	    tree.NewText("t1", "Quarterly results", 40).At(60, 40),
//	    tree.NewText("t2", "Revenue grew 12%", 18).At(60, 120),
//	)
//	leaves := tree.Walk(slide)
//
// # Traversal
//
// [Walk] collects the visible, unlocked text leaves below a root.
// [AbsolutePosition] resolves a leaf's slide-absolute coordinates by summing
// ancestor offsets up to the slide.
package tree
