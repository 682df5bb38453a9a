// Package formatting renders smartspace rows and lock-screen slices for the
// CLI in table, JSON or YAML form.
package formatting

import (
	"fmt"

	"smartspace/internal/keyguard"
	"smartspace/internal/smartspace"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseOutputFormat validates a format name given on the command line.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(name); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", name)
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
}

// Formatter renders pipeline output.
type Formatter interface {
	FormatRows(rows []smartspace.Row) string
	FormatSlice(slice *keyguard.Slice) string
	FormatAnalysis(a smartspace.Analysis) string

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// NewFormatter creates the appropriate formatter based on options
func NewFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}

// RowRecord is the serialisable form of a row.
type RowRecord struct {
	Slot         string `json:"slot" yaml:"slot"`
	URI          string `json:"uri" yaml:"uri"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon         string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Tint         string `json:"tint,omitempty" yaml:"tint,omitempty"`
	EndOfSection bool   `json:"endOfSection,omitempty" yaml:"endOfSection,omitempty"`
}

// SliceRecord is the serialisable form of a slice.
type SliceRecord struct {
	URI           string      `json:"uri" yaml:"uri"`
	Header        RowRecord   `json:"header" yaml:"header"`
	Rows          []RowRecord `json:"rows" yaml:"rows"`
	PrimaryAction string      `json:"primaryAction,omitempty" yaml:"primaryAction,omitempty"`
}

// AnalysisRecord is the serialisable form of an extraction analysis.
type AnalysisRecord struct {
	Texts       int    `json:"texts" yaml:"texts"`
	Images      int    `json:"images" yaml:"images"`
	ListItems   int    `json:"listItems" yaml:"listItems"`
	Temperature string `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Subtitle2   string `json:"subtitle2,omitempty" yaml:"subtitle2,omitempty"`
}

// RowRecords converts rows for serialisation.
func RowRecords(rows []smartspace.Row) []RowRecord {
	out := make([]RowRecord, 0, len(rows))
	for _, r := range rows {
		rec := RowRecord{Slot: string(r.Kind), URI: r.URI, Title: r.Title, EndOfSection: r.EndOfSection}
		if r.Icon != nil {
			rec.Icon = r.Icon.Bitmap
			rec.Tint = r.Icon.Tint.String()
		}
		out = append(out, rec)
	}
	return out
}

// NewSliceRecord converts a slice for serialisation.
func NewSliceRecord(s *keyguard.Slice) SliceRecord {
	rec := SliceRecord{URI: s.URI, Header: sliceRowRecord(s.Header), Rows: []RowRecord{}, PrimaryAction: s.PrimaryAction}
	for _, r := range s.Rows {
		rec.Rows = append(rec.Rows, sliceRowRecord(r))
	}
	return rec
}

func sliceRowRecord(r keyguard.SliceRow) RowRecord {
	rec := RowRecord{Slot: slotOf(r.URI), URI: r.URI, Title: r.Title, Description: r.Description, EndOfSection: r.EndOfSection}
	if r.Icon != nil {
		rec.Icon = r.Icon.Bitmap
		rec.Tint = r.Icon.Tint.String()
	}
	return rec
}

// NewAnalysisRecord converts an analysis for serialisation.
func NewAnalysisRecord(a smartspace.Analysis) AnalysisRecord {
	rec := AnalysisRecord{Texts: a.Texts, Images: a.Images, ListItems: a.ListItems}
	if a.Temperature != nil {
		rec.Temperature = a.Temperature.Text
	}
	if a.Title != nil {
		rec.Title = a.Title.Text
	}
	if a.Subtitle != nil {
		rec.Subtitle = a.Subtitle.Text
	}
	if a.Subtitle2 != nil {
		rec.Subtitle2 = a.Subtitle2.Text
	}
	return rec
}
