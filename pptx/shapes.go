package pptx

import (
	"fmt"
	"strings"

	"github.com/tsawler/deckreader/tree"
)

// frame maps a group's child coordinate space onto its parent's space
type frame struct {
	chX, chY int64
	scaleX   float64
	scaleY   float64
}

var identity = frame{scaleX: 1, scaleY: 1}

// place returns the position and size of xfrm in points, relative to the
// origin of the group described by f
func (f frame) place(x *xfrmXML) (px, py, w, h float64, sized bool) {
	if x == nil {
		return 0, 0, 0, 0, false
	}
	if x.Off != nil {
		px = emuToPt(x.Off.X-f.chX) * f.scaleX
		py = emuToPt(x.Off.Y-f.chY) * f.scaleY
	}
	if x.Ext != nil {
		w = emuToPt(x.Ext.Cx) * f.scaleX
		h = emuToPt(x.Ext.Cy) * f.scaleY
		sized = true
	}
	return px, py, w, h, sized
}

// child returns the frame for the children of a group whose transform is x
func (f frame) child(x *xfrmXML) frame {
	c := frame{scaleX: f.scaleX, scaleY: f.scaleY}
	if x == nil {
		return c
	}
	if x.ChOff != nil {
		c.chX, c.chY = x.ChOff.X, x.ChOff.Y
	}
	if x.Ext != nil && x.ChExt != nil && x.ChExt.Cx > 0 && x.ChExt.Cy > 0 {
		c.scaleX *= float64(x.Ext.Cx) / float64(x.ChExt.Cx)
		c.scaleY *= float64(x.Ext.Cy) / float64(x.ChExt.Cy)
	}
	return c
}

// builder converts one slide's shape tree into snapshot nodes
type builder struct {
	slideID string
	styles  textStyles
	opts    Options
}

func (b *builder) id(c cNvPrXML) string {
	return fmt.Sprintf("%s/%d", b.slideID, c.ID)
}

// addShapes converts the children of g and appends them to parent
func (b *builder) addShapes(parent *tree.Group, g *groupXML, f frame) {
	for _, s := range g.Shapes {
		if n := b.shape(s, f); n != nil {
			parent.Add(n)
		}
	}
}

func (b *builder) shape(s shapeXML, f frame) tree.Node {
	switch {
	case s.Sp != nil:
		return b.textShape(s.Sp, f)
	case s.Pic != nil:
		return b.plain(s.Pic.Nv, s.Pic.SpPr.Xfrm, f, true)
	case s.Cxn != nil:
		return b.plain(s.Cxn.Nv, s.Cxn.SpPr.Xfrm, f, false)
	case s.Frame != nil:
		if s.Frame.GraphicData.Tbl != nil {
			return b.table(s.Frame, f)
		}
		// Charts and diagrams paint like pictures
		return b.plain(s.Frame.Nv, s.Frame.Xfrm, f, true)
	case s.Group != nil:
		return b.group(s.Group, f)
	}
	return nil
}

func (b *builder) group(g *groupXML, f frame) tree.Node {
	n := tree.NewGroup(b.id(g.Nv.CNvPr), g.Nv.CNvPr.Name)
	x, y, w, h, sized := f.place(g.GrpSpPr.Xfrm)
	n.At(x, y)
	if sized {
		n.WithSize(w, h)
	}
	if g.Nv.hidden() {
		n.Hide()
	}
	if g.Nv.locked() {
		n.Lock()
	}

	b.addShapes(n, g, f.child(g.GrpSpPr.Xfrm))
	return n
}

func (b *builder) plain(nv nvXML, xfrm *xfrmXML, f frame, image bool) tree.Node {
	var s *tree.Shape
	if image {
		s = tree.NewImage(b.id(nv.CNvPr), nv.CNvPr.Name)
	} else {
		s = tree.NewShape(b.id(nv.CNvPr), nv.CNvPr.Name)
	}

	x, y, w, h, sized := f.place(xfrm)
	s.At(x, y)
	if sized {
		s.WithSize(w, h)
	}
	if nv.hidden() {
		s.Hide()
	}
	return s
}

func (b *builder) textShape(sp *spXML, f frame) tree.Node {
	ph := sp.Nv.NvPr.Ph
	if b.opts.SkipFooters && isFooterPlaceholder(ph) {
		return nil
	}

	var runs []tree.Run
	if sp.TxBody != nil {
		runs = b.runs(sp.TxBody, ph)
	}
	if !hasText(runs) {
		return b.plain(sp.Nv, sp.SpPr.Xfrm, f, false)
	}

	return b.text(sp.Nv, sp.SpPr.Xfrm, f, runs)
}

func (b *builder) table(gf *graphicFrameXML, f frame) tree.Node {
	var runs []tree.Run
	for ri, tr := range gf.GraphicData.Tbl.Tr {
		if ri > 0 {
			runs = appendText(runs, "\n")
		}
		first := true
		for _, tc := range tr.Tc {
			if isTrue(tc.HMerge) || isTrue(tc.VMerge) || tc.TxBody == nil {
				continue
			}
			if !first {
				runs = appendText(runs, "\t")
			}
			first = false
			runs = append(runs, b.runs(tc.TxBody, nil)...)
		}
	}
	if !hasText(runs) {
		return b.plain(gf.Nv, gf.Xfrm, f, false)
	}

	return b.text(gf.Nv, gf.Xfrm, f, runs)
}

func (b *builder) text(nv nvXML, xfrm *xfrmXML, f frame, runs []tree.Run) tree.Node {
	t := tree.NewRichText(b.id(nv.CNvPr), runs...).Named(nv.CNvPr.Name)

	x, y, w, h, sized := f.place(xfrm)
	t.At(x, y)
	if sized {
		t.WithSize(w, h)
	}
	if nv.hidden() {
		t.Hide()
	}
	if nv.locked() {
		t.Lock()
	}
	return t
}

// runs flattens a text body into runs. Paragraphs are separated by a
// newline carried on the previous run. Runs without an explicit size take
// the size inherited from the master's text styles.
func (b *builder) runs(body *txBodyXML, ph *phXML) []tree.Run {
	var runs []tree.Run

	for pi, p := range body.P {
		if pi > 0 {
			runs = appendText(runs, "\n")
		}

		lvl := 0
		if p.PPr != nil {
			lvl = p.PPr.Lvl
		}
		inherited := b.styles.size(ph, lvl)

		for _, s := range p.Spans {
			size := inherited
			if s.RPr != nil && s.RPr.Sz > 0 {
				size = float64(s.RPr.Sz) / 100
			}

			text := s.T
			if s.Break {
				text = "\n"
			}
			if text == "" {
				continue
			}
			runs = append(runs, tree.Run{Text: text, Size: size})
		}
	}

	return runs
}

// appendText adds text to the last run, if any
func appendText(runs []tree.Run, text string) []tree.Run {
	if len(runs) == 0 {
		return runs
	}
	runs[len(runs)-1].Text += text
	return runs
}

func hasText(runs []tree.Run) bool {
	for _, r := range runs {
		if strings.TrimSpace(r.Text) != "" {
			return true
		}
	}
	return false
}
