package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/deckreader/format"
	"github.com/tsawler/deckreader/layout"
	"github.com/tsawler/deckreader/locate"
	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/tree"
)

const (
	nsP   = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	nsA   = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR   = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP14 = `xmlns:p14="http://schemas.microsoft.com/office/powerpoint/2010/main"`
)

// writeZip builds a package from part name to content
func writeZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// presentation returns presentation.xml and its rels for slides listed by
// file number, in that order. extra is inserted after sldSz.
func presentation(files []int, extra string) (string, string) {
	var ids, rels strings.Builder
	for i, n := range files {
		id := 256 + n
		rid := "rId" + itoa(i+10)
		ids.WriteString(`<p:sldId id="` + itoa(id) + `" r:id="` + rid + `"/>`)
		rels.WriteString(`<Relationship Id="` + rid + `" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide` + itoa(n) + `.xml"/>`)
	}

	pres := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation ` + nsP + ` ` + nsR + ` ` + nsA + `>
  <p:sldIdLst>` + ids.String() + `</p:sldIdLst>
  <p:sldSz cx="12192000" cy="6858000"/>
  ` + extra + `
</p:presentation>`

	presRels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + rels.String() + `</Relationships>`

	return pres, presRels
}

func slide(attrs, name, shapes string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld ` + nsP + ` ` + nsA + ` ` + nsR + ` ` + attrs + `>
  <p:cSld name="` + name + `">
    <p:spTree>
      <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
      <p:grpSpPr/>
      ` + shapes + `
    </p:spTree>
  </p:cSld>
</p:sld>`
}

// textBox returns a text shape; positions are in points
func textBox(id int, name string, x, y int, nvExtra, cNvExtra, body string) string {
	return `<p:sp>
  <p:nvSpPr><p:cNvPr id="` + itoa(id) + `" name="` + name + `"` + cNvExtra + `/><p:cNvSpPr>` + nvExtra + `</p:cNvSpPr><p:nvPr/></p:nvSpPr>
  <p:spPr><a:xfrm><a:off x="` + itoa(x*12700) + `" y="` + itoa(y*12700) + `"/><a:ext cx="2540000" cy="635000"/></a:xfrm></p:spPr>
  <p:txBody><a:bodyPr/>` + body + `</p:txBody>
</p:sp>`
}

func para(size int, text string) string {
	if size == 0 {
		return `<a:p><a:r><a:rPr lang="en-US"/><a:t>` + text + `</a:t></a:r></a:p>`
	}
	return `<a:p><a:r><a:rPr lang="en-US" sz="` + itoa(size*100) + `"/><a:t>` + text + `</a:t></a:r></a:p>`
}

func itoa(n int) string {
	var b [20]byte
	i := len(b)
	neg := n < 0
	if neg {
		n = -n
	}
	for {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

func readDeck(t *testing.T, parts map[string]string) *Deck {
	t.Helper()
	data := writeZip(t, parts)
	d, err := Read(bytes.NewReader(data), int64(len(data)), Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return d
}

func textOf(t *testing.T, n tree.Node) string {
	t.Helper()
	tn, ok := n.(tree.TextNode)
	if !ok {
		t.Fatalf("%s is not a text node", n.ID())
	}
	return tn.Characters()
}

func TestRead_SlideOrderAndSize(t *testing.T) {
	// Presentation order differs from file numbering
	pres, rels := presentation([]int{2, 1}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "Second", textBox(2, "T", 10, 10, "", "", para(20, "two"))),
		"ppt/slides/slide2.xml":           slide("", "First", textBox(2, "T", 10, 10, "", "", para(20, "one"))),
	})

	if d.Width != 960 || d.Height != 540 {
		t.Errorf("slide size = %vx%v, want 960x540", d.Width, d.Height)
	}

	slides := d.Slides()
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	if slides[0].Name != "First" || slides[0].Number != 1 || slides[1].Name != "Second" {
		t.Errorf("unexpected order: %q #%d, %q", slides[0].Name, slides[0].Number, slides[1].Name)
	}
	if slides[0].ID != "258" {
		t.Errorf("slide ID = %q, want 258", slides[0].ID)
	}

	w, h := tree.SizeOf(slides[0].Root)
	if w != 960 || h != 540 {
		t.Errorf("root size = %vx%v", w, h)
	}
}

func TestRead_FallbackOrderWithoutRels(t *testing.T) {
	pres, _ := presentation([]int{1}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":   pres,
		"ppt/slides/slide10.xml": slide("", "Ten", ""),
		"ppt/slides/slide2.xml":  slide("", "Two", ""),
	})

	slides := d.Slides()
	if len(slides) != 2 || slides[0].Name != "Two" || slides[1].Name != "Ten" {
		t.Errorf("expected numeric file order, got %+v", slides)
	}
}

func TestRead_Shapes(t *testing.T) {
	group := `<p:grpSp>
  <p:nvGrpSpPr><p:cNvPr id="10" name="Group"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
  <p:grpSpPr><a:xfrm>
    <a:off x="1270000" y="635000"/><a:ext cx="2540000" cy="2540000"/>
    <a:chOff x="254000" y="254000"/><a:chExt cx="2540000" cy="2540000"/>
  </a:xfrm></p:grpSpPr>
  ` + textBox(11, "Inner", 30, 40, "", "", para(14, "inner")) + `
</p:grpSp>`

	pic := `<p:pic>
  <p:nvPicPr><p:cNvPr id="20" name="Photo"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>
  <p:blipFill/>
  <p:spPr><a:xfrm><a:off x="6096000" y="0"/><a:ext cx="6096000" cy="6858000"/></a:xfrm></p:spPr>
</p:pic>`

	shapes := textBox(2, "Title", 20, 20, "", "", para(40, "Hello"+`</a:t></a:r><a:r><a:rPr sz="1200"/><a:t> world`)) +
		textBox(3, "Hidden", 20, 100, "", ` hidden="1"`, para(18, "secret")) +
		textBox(4, "Locked", 20, 200, `<a:spLocks noSelect="1"/>`, "", para(18, "logo text")) +
		textBox(5, "Empty", 20, 300, "", "", `<a:p><a:endParaRPr/></a:p>`) +
		group + pic

	pres, rels := presentation([]int{1}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "", shapes),
	})

	root := d.Slides()[0].Root
	children := root.Children()
	if len(children) != 6 {
		t.Fatalf("expected 6 children, got %d", len(children))
	}

	title := children[0]
	if got := textOf(t, title); got != "Hello world" {
		t.Errorf("title text = %q", got)
	}
	if size, err := title.(tree.TextNode).FontSize(); err != nil || size != 40 {
		t.Errorf("title size = %v, %v; want 40", size, err)
	}
	if x, y := title.Position(); x != 20 || y != 20 {
		t.Errorf("title position = (%v, %v)", x, y)
	}
	if w, h := tree.SizeOf(title); w != 200 || h != 50 {
		t.Errorf("title size = %vx%v, want 200x50", w, h)
	}
	if title.ID() != "slide-257/2" || title.Name() != "Title" {
		t.Errorf("title id/name = %q/%q", title.ID(), title.Name())
	}

	if children[1].Visible() {
		t.Error("hidden shape should be invisible")
	}
	if !children[2].Locked() {
		t.Error("noSelect shape should be locked")
	}
	if _, ok := children[3].(tree.TextNode); ok {
		t.Error("shape without text should not be a text node")
	}

	// Grouped shape: child offset relative to chOff, group at (100, 50)
	inner := children[4].(tree.Container).Children()[0]
	if x, y := tree.AbsolutePosition(inner, root); x != 110 || y != 70 {
		t.Errorf("inner absolute position = (%v, %v), want (110, 70)", x, y)
	}

	photo := children[5]
	if img, ok := photo.(tree.Imager); !ok || !img.IsImage() {
		t.Error("picture should be an image")
	}
	if photo.Locked() {
		t.Error("noChangeAspect should not lock the picture")
	}

	// Only visible, unlocked text is collected
	var texts []string
	for _, leaf := range tree.Walk(root) {
		texts = append(texts, leaf.Characters())
	}
	if strings.Join(texts, "|") != "Hello world|inner" {
		t.Errorf("walked texts = %v", texts)
	}
}

func TestRead_ParagraphsBreaksAndTables(t *testing.T) {
	body := `<a:p><a:r><a:rPr sz="2000"/><a:t>line one</a:t></a:r><a:br><a:rPr sz="2000"/></a:br><a:r><a:rPr sz="2000"/><a:t>line two</a:t></a:r></a:p>` +
		`<a:p><a:fld type="slidenum"><a:t>7</a:t></a:fld></a:p>`

	table := `<p:graphicFrame>
  <p:nvGraphicFramePr><p:cNvPr id="9" name="Table"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>
  <p:xfrm><a:off x="0" y="3175000"/><a:ext cx="6096000" cy="1270000"/></p:xfrm>
  <a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl>
    <a:tr h="370840">
      <a:tc><a:txBody><a:bodyPr/>` + para(14, "Region") + `</a:txBody></a:tc>
      <a:tc><a:txBody><a:bodyPr/>` + para(14, "Sales") + `</a:txBody></a:tc>
    </a:tr>
    <a:tr h="370840">
      <a:tc gridSpan="2"><a:txBody><a:bodyPr/>` + para(14, "North") + `</a:txBody></a:tc>
      <a:tc hMerge="1"><a:txBody><a:bodyPr/><a:p/></a:txBody></a:tc>
    </a:tr>
  </a:tbl></a:graphicData></a:graphic>
</p:graphicFrame>`

	pres, rels := presentation([]int{1}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "", textBox(2, "Body", 0, 0, "", "", body)+table),
	})

	children := d.Slides()[0].Root.Children()
	if got := textOf(t, children[0]); got != "line one\nline two\n7" {
		t.Errorf("body text = %q", got)
	}
	if got := textOf(t, children[1]); got != "Region\tSales\nNorth" {
		t.Errorf("table text = %q", got)
	}
	if x, y := children[1].Position(); x != 0 || y != 250 {
		t.Errorf("table position = (%v, %v)", x, y)
	}
}

func TestRead_InheritedFontSizes(t *testing.T) {
	master := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldMaster ` + nsP + ` ` + nsA + `>
  <p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>
  <p:txStyles>
    <p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"/></a:lvl1pPr></p:titleStyle>
    <p:bodyStyle><a:lvl1pPr><a:defRPr sz="2800"/></a:lvl1pPr><a:lvl2pPr><a:defRPr sz="2400"/></a:lvl2pPr></p:bodyStyle>
    <p:otherStyle><a:defPPr/><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle>
  </p:txStyles>
</p:sldMaster>`

	placeholder := func(id int, phType, body string) string {
		ph := `<p:ph type="` + phType + `"/>`
		if phType == "" {
			ph = `<p:ph idx="1"/>`
		}
		return `<p:sp><p:nvSpPr><p:cNvPr id="` + itoa(id) + `" name="ph"/><p:cNvSpPr/><p:nvPr>` + ph + `</p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>` + body + `</p:txBody></p:sp>`
	}

	shapes := placeholder(2, "title", para(0, "Title")) +
		placeholder(3, "", para(0, "Body")) +
		placeholder(4, "", `<a:p><a:pPr lvl="1"/><a:r><a:t>Nested</a:t></a:r></a:p>`) +
		textBox(5, "Box", 0, 0, "", "", para(0, "Loose")) +
		placeholder(6, "ctrTitle", para(60, "Explicit"))

	pres, rels := presentation([]int{1}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":              pres,
		"ppt/_rels/presentation.xml.rels":   rels,
		"ppt/slideMasters/slideMaster1.xml": master,
		"ppt/slides/slide1.xml":             slide("", "", shapes),
	})

	want := []float64{44, 28, 24, 18, 60}
	children := d.Slides()[0].Root.Children()
	for i, w := range want {
		size, err := children[i].(tree.TextNode).FontSize()
		if err != nil || size != w {
			t.Errorf("shape %d size = %v, %v; want %v", i, size, err, w)
		}
	}
}

func TestRead_UnknownSizeWithoutMaster(t *testing.T) {
	pres, rels := presentation([]int{1}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "", textBox(2, "Box", 0, 0, "", "", para(0, "No size"))),
	})

	_, err := d.Slides()[0].Root.Children()[0].(tree.TextNode).FontSize()
	if err == nil {
		t.Error("expected unavailable font size")
	}
}

func TestRead_SkipFooters(t *testing.T) {
	footer := `<p:sp><p:nvSpPr><p:cNvPr id="7" name="Slide Number"/><p:cNvSpPr/><p:nvPr><p:ph type="sldNum"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>` + para(10, "3") + `</p:txBody></p:sp>`

	pres, rels := presentation([]int{1}, "")
	data := writeZip(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "", textBox(2, "Body", 0, 0, "", "", para(18, "Body"))+footer),
	})

	for _, tt := range []struct {
		skip bool
		want int
	}{{false, 2}, {true, 1}} {
		d, err := Read(bytes.NewReader(data), int64(len(data)), Options{SkipFooters: tt.skip})
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if got := len(d.Slides()[0].Root.Children()); got != tt.want {
			t.Errorf("SkipFooters=%v: %d children, want %d", tt.skip, got, tt.want)
		}
	}
}

func TestDeck_SectionsGridAndFrames(t *testing.T) {
	sections := `<p:extLst><p:ext uri="{521415D9-36F7-43E2-AB2F-B90AF26B5E84}">
  <p14:sectionLst ` + nsP14 + `>
    <p14:section name="Intro" id="{A}"><p14:sldIdLst><p14:sldId id="257"/></p14:sldIdLst></p14:section>
    <p14:section name="Results" id="{B}"><p14:sldIdLst><p14:sldId id="258"/><p14:sldId id="259"/></p14:sldIdLst></p14:section>
  </p14:sectionLst>
</p:ext></p:extLst>`

	pres, rels := presentation([]int{1, 2, 3}, sections)
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "Slide 1", ""),
		"ppt/slides/slide2.xml":           slide(`show="0"`, "S2 S1", ""),
		"ppt/slides/slide3.xml":           slide("", "2.2", ""),
	})

	secs := d.Sections()
	if len(secs) != 2 || secs[0].Name != "Intro" || len(secs[1].Slides) != 2 {
		t.Fatalf("unexpected sections: %+v", secs)
	}
	if !d.Slides()[1].Hidden || d.Slides()[1].Root.Visible() {
		t.Error("show=0 slide should be hidden")
	}

	grid, err := d.SlideGrid()
	if err != nil {
		t.Fatalf("SlideGrid failed: %v", err)
	}
	if len(grid) != 2 || len(grid[0]) != 1 || len(grid[1]) != 2 {
		t.Fatalf("unexpected grid shape")
	}
	if grid[1][0].Meta["sectionName"] != "Results" {
		t.Errorf("meta = %v", grid[1][0].Meta)
	}

	located, err := locate.New(d, d).Locate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if located.Strategy != locate.StrategyGrid || len(located.Slides) != 2 {
		t.Fatalf("located = %+v", located)
	}
	if s := located.Slides[1]; s.SectionNumber != 2 || s.SlideNumber != 2 {
		t.Errorf("second slide numbering = (%d, %d), want (2, 2)", s.SectionNumber, s.SlideNumber)
	}

	// Frame names: the hidden slide is skipped
	byName, err := locate.New(nil, d).Locate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if len(byName.Slides) != 2 || byName.Slides[1].SectionNumber != 2 || byName.Slides[1].SlideNumber != 2 {
		t.Errorf("frame-name slides = %+v", byName.Slides)
	}
}

func TestDeck_NoSections(t *testing.T) {
	pres, rels := presentation([]int{1, 2}, "")
	d := readDeck(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "", ""),
		"ppt/slides/slide2.xml":           slide("", "", ""),
	})

	if secs := d.Sections(); len(secs) != 1 || len(secs[0].Slides) != 2 {
		t.Errorf("expected one implicit section, got %+v", secs)
	}
	frames, _ := d.Frames()
	if len(frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(frames))
	}
}

func TestOpen_ReadingOrder(t *testing.T) {
	shapes := textBox(2, "Right", 600, 40, "", "", para(18, "Right column")) +
		textBox(3, "Title", 40, 20, "", "", para(40, "Heading")) +
		textBox(4, "Left", 40, 200, "", "", para(18, "Left column"))

	pres, rels := presentation([]int{1}, "")
	data := writeZip(t, map[string]string{
		"ppt/presentation.xml":            pres,
		"ppt/_rels/presentation.xml.rels": rels,
		"ppt/slides/slide1.xml":           slide("", "", shapes),
	})

	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	root := d.Slides()[0].Root
	content := layout.NewAssembler().Assemble(layout.Collect(root), d.Width, nil, model.NewAnalysisSpace(d.Width, d.Height, 400))
	if got := strings.Join(content.PlainText, "|"); got != "Heading|Left column|Right column" {
		t.Errorf("reading order = %q", got)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Error("expected error for missing file")
	}

	data := writeZip(t, map[string]string{"word/document.xml": "<w:document/>"})
	if _, err := Read(bytes.NewReader(data), int64(len(data)), Options{}); !errors.Is(err, format.ErrNotPresentation) {
		t.Errorf("expected ErrNotPresentation for a Word package, got %v", err)
	}

	pres, _ := presentation(nil, "")
	data = writeZip(t, map[string]string{"ppt/presentation.xml": pres})
	if _, err := Read(bytes.NewReader(data), int64(len(data)), Options{}); err == nil {
		t.Error("expected error for a presentation without slides")
	}
}
