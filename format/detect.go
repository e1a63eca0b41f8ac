// Package format tells presentation packages apart from other documents so
// that readers can reject them with a useful message.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotPresentation is returned for files that are not PowerPoint decks
var ErrNotPresentation = errors.New("not a presentation")

// Format is a document kind a user may mistake for a deck
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PPTX indicates a PowerPoint Open XML deck (.pptx, .pptm, .ppsx).
	PPTX
	// DOCX indicates a Word document.
	DOCX
	// XLSX indicates an Excel workbook.
	XLSX
	// ODP indicates an OpenDocument presentation.
	ODP
	// PDF indicates a PDF document.
	PDF
	// PPT indicates a legacy binary PowerPoint file.
	PPT
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PPTX:
		return "PPTX"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case ODP:
		return "ODP"
	case PDF:
		return "PDF"
	case PPT:
		return "PPT"
	default:
		return "Unknown"
	}
}

// FromExtension determines the format from a filename extension.
func FromExtension(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pptx", ".pptm", ".ppsx", ".potx":
		return PPTX
	case ".docx":
		return DOCX
	case ".xlsx":
		return XLSX
	case ".odp":
		return ODP
	case ".pdf":
		return PDF
	case ".ppt":
		return PPT
	default:
		return Unknown
	}
}

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	pdfMagic = []byte("%PDF")
	// OLE2 compound file, used by legacy Office formats
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect inspects content to determine the format. ZIP archives are told
// apart by their part names.
func Detect(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, pdfMagic):
		return PDF, nil
	case bytes.HasPrefix(magic, oleMagic):
		return PPT, nil
	case !bytes.HasPrefix(magic, zipMagic):
		return Unknown, nil
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return FromParts(names), nil
}

// FromParts determines the format of a ZIP package from its part names.
func FromParts(names []string) Format {
	for _, name := range names {
		switch {
		case name == "ppt/presentation.xml":
			return PPTX
		case strings.HasPrefix(name, "word/"):
			return DOCX
		case strings.HasPrefix(name, "xl/"):
			return XLSX
		}
	}
	for _, name := range names {
		if name == "content.xml" || name == "mimetype" {
			return ODP
		}
	}
	return Unknown
}

// RequirePresentation returns an error wrapping ErrNotPresentation unless
// f is PPTX.
func RequirePresentation(f Format) error {
	switch f {
	case PPTX:
		return nil
	case Unknown:
		return ErrNotPresentation
	case PPT:
		return fmt.Errorf("%w: legacy PPT files must be saved as .pptx first", ErrNotPresentation)
	default:
		return fmt.Errorf("%w: file is a %s document", ErrNotPresentation, f)
	}
}
