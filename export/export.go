// Package export renders extracted slide records as Markdown, plain text,
// JSON, JSON Lines, CSV or HTML.
//
//	exp := export.NewExporterWithConfig(export.ConfigFor(export.FormatMarkdown))
//	if err := exp.Export(result.Records, os.Stdout); err != nil {
//	    return err
//	}
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/deckreader/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatMarkdown writes each slide's outline markup
	FormatMarkdown Format = iota
	// FormatText writes each slide's plain text
	FormatText
	// FormatJSON writes the records as a JSON array
	FormatJSON
	// FormatJSONL writes one JSON record per line
	FormatJSONL
	// FormatCSV writes one row per text item
	FormatCSV
	// FormatHTML writes a standalone HTML document
	FormatHTML
)

// String returns the format name as accepted by ParseFormat
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatCSV:
		return ".csv"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ParseFormat returns the format with the given name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "jsonl":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	}
	return 0, fmt.Errorf("unknown export format %q", name)
}

// Config holds configuration options for export
type Config struct {
	Format Format

	// PrettyPrint indents JSON output
	PrettyPrint bool

	// IncludeHeader writes a header row in CSV output
	IncludeHeader bool

	// Title is the HTML document title
	Title string
}

// DefaultConfig returns sensible defaults for export configuration
func DefaultConfig() Config {
	return Config{
		Format:        FormatMarkdown,
		IncludeHeader: true,
		Title:         "Slides",
	}
}

// ConfigFor returns the default configuration with the given format
func ConfigFor(f Format) Config {
	config := DefaultConfig()
	config.Format = f
	return config
}

// Exporter writes records in one format
type Exporter struct {
	config Config
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{config: DefaultConfig()}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config Config) *Exporter {
	return &Exporter{config: config}
}

// Export writes records to w
func (e *Exporter) Export(records []model.SlideRecord, w io.Writer) error {
	switch e.config.Format {
	case FormatMarkdown:
		return exportMarkdown(records, w)
	case FormatText:
		return exportText(records, w)
	case FormatJSON:
		return e.exportJSON(records, w)
	case FormatJSONL:
		return exportJSONL(records, w)
	case FormatCSV:
		return e.exportCSV(records, w)
	case FormatHTML:
		return e.exportHTML(records, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes records to the named file
func (e *Exporter) ExportToFile(records []model.SlideRecord, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := e.Export(records, f); err != nil {
		return err
	}
	return f.Close()
}

// ExportToString returns records rendered as a string
func (e *Exporter) ExportToString(records []model.SlideRecord) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(records, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// slideLabel names a slide by its section and slide numbers
func slideLabel(r model.SlideRecord) string {
	return fmt.Sprintf("Slide %d (section %d, slide %d)", r.OverallSlideNumber, r.SectionNumber, r.SlideNumber)
}

func exportMarkdown(records []model.SlideRecord, w io.Writer) error {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "<!-- %s -->\n", slideLabel(r))
		for _, item := range r.FormattedText {
			sb.WriteString("\n")
			sb.WriteString(item.Markup)
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func exportText(records []model.SlideRecord, w io.Writer) error {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(slideLabel(r))
		sb.WriteString("\n")
		for _, line := range r.PlainText {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *Exporter) exportJSON(records []model.SlideRecord, w io.Writer) error {
	if records == nil {
		records = []model.SlideRecord{}
	}
	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

func exportJSONL(records []model.SlideRecord, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for i, r := range records {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode slide %d: %w", i+1, err)
		}
	}
	return nil
}

var csvHeader = []string{"overall_slide", "section", "slide", "slide_id", "name", "level", "text"}

func (e *Exporter) exportCSV(records []model.SlideRecord, w io.Writer) error {
	csvWriter := csv.NewWriter(w)

	if e.config.IncludeHeader {
		if err := csvWriter.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, r := range records {
		for _, item := range r.FormattedText {
			row := []string{
				strconv.Itoa(r.OverallSlideNumber),
				strconv.Itoa(r.SectionNumber),
				strconv.Itoa(r.SlideNumber),
				r.SlideID,
				r.Name,
				item.Level.String(),
				item.Text,
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
