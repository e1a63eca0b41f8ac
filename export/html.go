package export

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/deckreader/model"
)

// levelTags maps text levels to the elements they render as
var levelTags = map[model.Level]atom.Atom{
	model.LevelTitle:      atom.H1,
	model.LevelHeading:    atom.H2,
	model.LevelSubheading: atom.H3,
	model.LevelBody:       atom.P,
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// exportHTML builds a document with one section element per slide. Text is
// escaped by the renderer.
func (e *Exporter) exportHTML(records []model.SlideRecord, w io.Writer) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	title := element(atom.Title)
	title.AppendChild(text(e.config.Title))
	head.AppendChild(title)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	for _, r := range records {
		section := element(atom.Section,
			attr("class", "slide"),
			attr("id", fmt.Sprintf("slide-%d", r.OverallSlideNumber)),
			attr("data-section", strconv.Itoa(r.SectionNumber)),
			attr("data-slide", strconv.Itoa(r.SlideNumber)),
		)
		for _, item := range r.FormattedText {
			tag, ok := levelTags[item.Level]
			if !ok {
				tag = atom.P
			}
			n := element(tag)
			n.AppendChild(text(item.Text))
			section.AppendChild(n)
		}
		body.AppendChild(section)
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}
