package pptx

import (
	"encoding/xml"
	"strings"
)

// presentationXML represents ppt/presentation.xml.
type presentationXML struct {
	XMLName          xml.Name        `xml:"presentation"`
	SlideIDList      slideIDListXML  `xml:"sldIdLst"`
	SlideSz          *slideSzXML     `xml:"sldSz"`
	DefaultTextStyle *levelStylesXML `xml:"defaultTextStyle"`
	Extensions       []extXML        `xml:"extLst>ext"`
}

type slideIDListXML struct {
	SlideID []slideIDXML `xml:"sldId"`
}

type slideIDXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type slideSzXML struct {
	Cx int64 `xml:"cx,attr"` // EMU
	Cy int64 `xml:"cy,attr"` // EMU
}

// extXML is one presentation extension; only the section list is read.
type extXML struct {
	URI        string         `xml:"uri,attr"`
	SectionLst *sectionLstXML `xml:"sectionLst"`
}

type sectionLstXML struct {
	Section []sectionXML `xml:"section"`
}

type sectionXML struct {
	Name     string       `xml:"name,attr"`
	SlideIDs []slideIDXML `xml:"sldIdLst>sldId"`
}

// slideXML represents ppt/slides/slideN.xml.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	Show    string   `xml:"show,attr"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	Name   string   `xml:"name,attr"`
	SpTree groupXML `xml:"spTree"`
}

// masterXML represents ppt/slideMasters/slideMasterN.xml.
type masterXML struct {
	XMLName  xml.Name    `xml:"sldMaster"`
	TxStyles txStylesXML `xml:"txStyles"`
}

type txStylesXML struct {
	Title levelStylesXML `xml:"titleStyle"`
	Body  levelStylesXML `xml:"bodyStyle"`
	Other levelStylesXML `xml:"otherStyle"`
}

// levelStylesXML holds lvl1pPr..lvl9pPr entries.
type levelStylesXML struct {
	Levels []levelStyleXML `xml:",any"`
}

type levelStyleXML struct {
	XMLName xml.Name
	DefRPr  *rPrXML `xml:"defRPr"`
}

// cNvPrXML holds the non-visual properties shared by all shapes.
type cNvPrXML struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Hidden string `xml:"hidden,attr"`
}

// locksXML covers spLocks, picLocks, grpSpLocks and graphicFrameLocks.
type locksXML struct {
	NoSelect string `xml:"noSelect,attr"`
	NoMove   string `xml:"noMove,attr"`
}

// cNvKindPrXML is cNvSpPr, cNvPicPr, cNvGrpSpPr or cNvGraphicFramePr.
type cNvKindPrXML struct {
	Locks []locksXML `xml:",any"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"`
}

type phXML struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

// nvXML is nvSpPr, nvPicPr, nvGrpSpPr, nvCxnSpPr or nvGraphicFramePr.
type nvXML struct {
	CNvPr   cNvPrXML       `xml:"cNvPr"`
	CNvKind []cNvKindPrXML `xml:",any"`
	NvPr    nvPrXML        `xml:"nvPr"`
}

type xfrmXML struct {
	Off   *pointXML `xml:"off"`
	Ext   *sizeXML  `xml:"ext"`
	ChOff *pointXML `xml:"chOff"`
	ChExt *sizeXML  `xml:"chExt"`
}

type pointXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type sizeXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type spPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

// spXML represents a shape, usually carrying text.
type spXML struct {
	Nv     nvXML      `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type picXML struct {
	Nv   nvXML   `xml:"nvPicPr"`
	SpPr spPrXML `xml:"spPr"`
}

type cxnSpXML struct {
	Nv   nvXML   `xml:"nvCxnSpPr"`
	SpPr spPrXML `xml:"spPr"`
}

// graphicFrameXML holds tables, charts and diagrams.
type graphicFrameXML struct {
	Nv          nvXML          `xml:"nvGraphicFramePr"`
	Xfrm        *xfrmXML       `xml:"xfrm"`
	GraphicData graphicDataXML `xml:"graphic>graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"`
}

type tblXML struct {
	Tr []trXML `xml:"tr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody *txBodyXML `xml:"txBody"`
	HMerge string     `xml:"hMerge,attr"`
	VMerge string     `xml:"vMerge,attr"`
}

// groupXML is the slide's spTree or a nested grpSp. Children are kept in
// document order.
type groupXML struct {
	Nv      nvXML
	GrpSpPr spPrXML
	Shapes  []shapeXML
}

// shapeXML holds exactly one child of a group.
type shapeXML struct {
	Sp    *spXML
	Pic   *picXML
	Cxn   *cxnSpXML
	Frame *graphicFrameXML
	Group *groupXML
}

func (g *groupXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := g.decodeChild(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (g *groupXML) decodeChild(d *xml.Decoder, t xml.StartElement) error {
	switch t.Name.Local {
	case "nvGrpSpPr":
		return d.DecodeElement(&g.Nv, &t)
	case "grpSpPr":
		return d.DecodeElement(&g.GrpSpPr, &t)
	case "sp":
		var sp spXML
		if err := d.DecodeElement(&sp, &t); err != nil {
			return err
		}
		g.Shapes = append(g.Shapes, shapeXML{Sp: &sp})
	case "pic":
		var pic picXML
		if err := d.DecodeElement(&pic, &t); err != nil {
			return err
		}
		g.Shapes = append(g.Shapes, shapeXML{Pic: &pic})
	case "cxnSp":
		var cxn cxnSpXML
		if err := d.DecodeElement(&cxn, &t); err != nil {
			return err
		}
		g.Shapes = append(g.Shapes, shapeXML{Cxn: &cxn})
	case "graphicFrame":
		var frame graphicFrameXML
		if err := d.DecodeElement(&frame, &t); err != nil {
			return err
		}
		g.Shapes = append(g.Shapes, shapeXML{Frame: &frame})
	case "grpSp":
		var sub groupXML
		if err := d.DecodeElement(&sub, &t); err != nil {
			return err
		}
		g.Shapes = append(g.Shapes, shapeXML{Group: &sub})
	default:
		return d.Skip()
	}
	return nil
}

// txBodyXML represents a text body.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML is a paragraph. Runs, breaks and fields are kept in document order.
type pXML struct {
	PPr        *pPrXML
	EndParaRPr *rPrXML
	Spans      []spanXML
}

type pPrXML struct {
	Lvl int `xml:"lvl,attr"`
}

// spanXML is a text run, a field or a line break.
type spanXML struct {
	RPr   *rPrXML `xml:"rPr"`
	T     string  `xml:"t"`
	Break bool    `xml:"-"`
}

type rPrXML struct {
	Sz int `xml:"sz,attr"` // hundredths of a point
}

func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				p.PPr = &pPrXML{}
				err = d.DecodeElement(p.PPr, &t)
			case "endParaRPr":
				p.EndParaRPr = &rPrXML{}
				err = d.DecodeElement(p.EndParaRPr, &t)
			case "r", "fld":
				var s spanXML
				err = d.DecodeElement(&s, &t)
				p.Spans = append(p.Spans, s)
			case "br":
				var s spanXML
				err = d.DecodeElement(&s, &t)
				s.Break = true
				p.Spans = append(p.Spans, s)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// locked reports whether the shape is locked against selection or moving
func (nv nvXML) locked() bool {
	for _, k := range nv.CNvKind {
		for _, l := range k.Locks {
			if isTrue(l.NoSelect) || isTrue(l.NoMove) {
				return true
			}
		}
	}
	return false
}

// hidden reports whether the shape is hidden
func (nv nvXML) hidden() bool {
	return isTrue(nv.CNvPr.Hidden)
}

// isTrue interprets an OOXML boolean attribute
func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on":
		return true
	}
	return false
}
