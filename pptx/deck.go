// Package pptx opens PowerPoint (Office Open XML) decks as read-only
// snapshot trees for reading-order extraction.
//
// Every slide becomes a [tree.Group] sized to the deck's slide size in
// points. Shapes keep their nesting: positions of grouped shapes are
// relative to their group, so slide-absolute positions are the sum of
// ancestor offsets. Hidden shapes and hidden slides are reported as
// invisible; shapes locked against selection or moving are reported as
// locked.
//
// A [Deck] serves as both the slide grid (sections as rows) and the frame
// source (slides named by their internal slide name) for slide location.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/tsawler/deckreader/format"
	"github.com/tsawler/deckreader/locate"
	"github.com/tsawler/deckreader/tree"
)

// Options controls how a deck is read
type Options struct {
	// SkipFooters leaves out footer, date and slide-number placeholders
	SkipFooters bool
}

// Slide is one slide of a deck
type Slide struct {
	// ID is the presentation-level slide id
	ID string

	// Number is the 1-based position of the slide in the deck
	Number int

	// Name is the slide's internal name, often empty
	Name string

	Hidden bool

	// Root is the slide's snapshot tree
	Root *tree.Group
}

// Section is a named run of slides
type Section struct {
	Name   string
	Slides []*Slide
}

// Deck is an opened presentation
type Deck struct {
	// Width and Height are the slide size in points
	Width, Height float64

	slides   []*Slide
	sections []Section
}

// Open reads a .pptx file
func Open(filename string) (*Deck, error) {
	return OpenWithOptions(filename, Options{})
}

// OpenWithOptions reads a .pptx file with custom options
func OpenWithOptions(filename string, opts Options) (*Deck, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	return load(&zr.Reader, opts)
}

// Read reads a deck from an in-memory or seekable source
func Read(r io.ReaderAt, size int64, opts Options) (*Deck, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return load(zr, opts)
}

// Slides returns all slides in deck order, hidden ones included
func (d *Deck) Slides() []*Slide {
	return d.slides
}

// Sections returns the deck's sections. A deck without sections has a
// single unnamed one.
func (d *Deck) Sections() []Section {
	return d.sections
}

// SlideGrid returns one row per section. Section and slide numbers follow
// grid position.
func (d *Deck) SlideGrid() ([][]locate.GridEntry, error) {
	if len(d.slides) == 0 {
		return nil, nil
	}

	grid := make([][]locate.GridEntry, len(d.sections))
	for i, sec := range d.sections {
		row := make([]locate.GridEntry, len(sec.Slides))
		for j, s := range sec.Slides {
			row[j] = locate.GridEntry{
				Slide: s.Root,
				Meta:  map[string]any{"sectionName": sec.Name},
			}
		}
		grid[i] = row
	}
	return grid, nil
}

// Frames returns every slide root in deck order
func (d *Deck) Frames() ([]tree.Node, error) {
	frames := make([]tree.Node, len(d.slides))
	for i, s := range d.slides {
		frames[i] = s.Root
	}
	return frames, nil
}

// archive indexes the parts of a package by name
type archive map[string]*zip.File

func (a archive) read(name string) ([]byte, error) {
	f, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a archive) decode(name string, v any) error {
	data, err := a.read(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func load(zr *zip.Reader, opts Options) (*Deck, error) {
	files := make(archive, len(zr.File))
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
		names = append(names, f.Name)
	}

	if err := format.RequirePresentation(format.FromParts(names)); err != nil {
		return nil, err
	}

	var pres presentationXML
	if err := files.decode("ppt/presentation.xml", &pres); err != nil {
		return nil, fmt.Errorf("reading presentation: %w", err)
	}

	d := &Deck{}
	if pres.SlideSz != nil {
		d.Width = emuToPt(pres.SlideSz.Cx)
		d.Height = emuToPt(pres.SlideSz.Cy)
	}

	styles := newTextStyles(firstMaster(files), pres.DefaultTextStyle)

	parts := slideParts(files, &pres)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no slides found in presentation")
	}

	byID := make(map[string]*Slide, len(parts))
	for i, p := range parts {
		s, err := d.readSlide(files, p, i+1, styles, opts)
		if err != nil {
			return nil, err
		}
		d.slides = append(d.slides, s)
		byID[s.ID] = s
	}

	d.sections = buildSections(&pres, d.slides, byID)
	return d, nil
}

// slidePart locates one slide's XML part
type slidePart struct {
	id   string
	name string
}

// slideParts returns slide parts in presentation order. Without usable
// relationships, slide files are ordered by their number.
func slideParts(files archive, pres *presentationXML) []slidePart {
	var rels relationshipsXML
	if err := files.decode("ppt/_rels/presentation.xml.rels", &rels); err == nil {
		targets := make(map[string]string, len(rels.Relationship))
		for _, r := range rels.Relationship {
			targets[r.ID] = resolveTarget("ppt", r.Target)
		}

		var parts []slidePart
		for _, s := range pres.SlideIDList.SlideID {
			name, ok := targets[s.RID]
			if _, exists := files[name]; !ok || !exists {
				continue
			}
			parts = append(parts, slidePart{id: s.ID, name: name})
		}
		if len(parts) > 0 {
			return parts
		}
	}

	var names []string
	for name := range files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return extractSlideNumber(names[i]) < extractSlideNumber(names[j])
	})

	parts := make([]slidePart, len(names))
	for i, name := range names {
		parts[i] = slidePart{id: fmt.Sprintf("%d", extractSlideNumber(name)), name: name}
	}
	return parts
}

// resolveTarget turns a relationship target into a part name
func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(base, target))
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// firstMaster returns the lowest-numbered slide master, or nil
func firstMaster(files archive) *masterXML {
	var names []string
	for name := range files {
		if strings.HasPrefix(name, "ppt/slideMasters/slideMaster") && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	var m masterXML
	if err := files.decode(names[0], &m); err != nil {
		return nil
	}
	return &m
}

func (d *Deck) readSlide(files archive, part slidePart, number int, styles textStyles, opts Options) (*Slide, error) {
	var sx slideXML
	if err := files.decode(part.name, &sx); err != nil {
		return nil, fmt.Errorf("reading slide %d: %w", number, err)
	}

	s := &Slide{
		ID:     part.id,
		Number: number,
		Name:   sx.CSld.Name,
		Hidden: sx.Show != "" && !isTrue(sx.Show),
	}

	rootID := "slide-" + part.id
	s.Root = tree.NewGroup(rootID, s.Name).WithSize(d.Width, d.Height)
	if s.Hidden {
		s.Root.Hide()
	}

	b := &builder{slideID: rootID, styles: styles, opts: opts}
	b.addShapes(s.Root, &sx.CSld.SpTree, identity)

	return s, nil
}

// buildSections groups slides by the deck's section list. Slides missing
// from every section are collected in a trailing unnamed section.
func buildSections(pres *presentationXML, slides []*Slide, byID map[string]*Slide) []Section {
	var list *sectionLstXML
	for _, ext := range pres.Extensions {
		if ext.SectionLst != nil {
			list = ext.SectionLst
			break
		}
	}
	if list == nil || len(list.Section) == 0 {
		return []Section{{Slides: slides}}
	}

	placed := make(map[string]bool, len(slides))
	sections := make([]Section, 0, len(list.Section))
	for _, sec := range list.Section {
		section := Section{Name: sec.Name}
		for _, ref := range sec.SlideIDs {
			if s, ok := byID[ref.ID]; ok && !placed[ref.ID] {
				section.Slides = append(section.Slides, s)
				placed[ref.ID] = true
			}
		}
		sections = append(sections, section)
	}

	var rest []*Slide
	for _, s := range slides {
		if !placed[s.ID] {
			rest = append(rest, s)
		}
	}
	if len(rest) > 0 {
		sections = append(sections, Section{Slides: rest})
	}

	return sections
}
