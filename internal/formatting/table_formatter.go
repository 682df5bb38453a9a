package formatting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"smartspace/internal/keyguard"
	"smartspace/internal/smartspace"
	sstrings "smartspace/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatRows formats rows as a table.
func (f *TableFormatter) FormatRows(rows []smartspace.Row) string {
	if len(rows) == 0 {
		return f.formatEmptyMessage("📭", "No smartspace rows")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("SLOT"), f.header("TITLE"), f.header("ICON"), f.header("TINT"), f.header("END")})
	for _, rec := range RowRecords(rows) {
		t.AppendRow(table.Row{rec.Slot, cell(rec.Title), rec.Icon, rec.Tint, mark(rec.EndOfSection)})
	}
	return t.Render() + "\n"
}

// FormatSlice formats a slice as a table with the header row first.
func (f *TableFormatter) FormatSlice(slice *keyguard.Slice) string {
	if slice == nil {
		return f.formatEmptyMessage("⚠️", "No slice")
	}

	rec := NewSliceRecord(slice)
	t := f.createTable()
	t.AppendHeader(table.Row{f.header("SLOT"), f.header("TITLE"), f.header("ICON"), f.header("DESCRIPTION")})
	t.AppendRow(table.Row{f.accent(rec.Header.Slot), f.accent(cell(rec.Header.Title)), rec.Header.Icon, cell(rec.Header.Description)})
	t.AppendSeparator()
	for _, r := range rec.Rows {
		t.AppendRow(table.Row{r.Slot, cell(r.Title), r.Icon, cell(r.Description)})
	}

	// The URI goes above the table: as a table title it would wrap to the
	// column widths.
	var out string
	if !f.options.Quiet {
		out = f.header(rec.URI) + "\n"
	}
	return out + t.Render() + "\n"
}

// FormatAnalysis formats an extraction analysis as key/value pairs.
func (f *TableFormatter) FormatAnalysis(a smartspace.Analysis) string {
	rec := NewAnalysisRecord(a)
	t := f.createTable()
	t.AppendHeader(table.Row{f.header("KEY"), f.header("VALUE")})
	t.AppendRows([]table.Row{
		{"texts", rec.Texts},
		{"images", rec.Images},
		{"list items", rec.ListItems},
		{"temperature", rec.Temperature},
		{"title", cell(rec.Title)},
		{"subtitle", cell(rec.Subtitle)},
		{"subtitle2", cell(rec.Subtitle2)},
	})
	return t.Render() + "\n"
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(s string) string {
	if !f.options.Color {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}

func (f *TableFormatter) accent(s string) string {
	if !f.options.Color {
		return s
	}
	return text.FgHiWhite.Sprint(s)
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	if !f.options.Color {
		return fmt.Sprintf("%s %s\n", icon, message)
	}
	return fmt.Sprintf("%s %s\n", text.FgYellow.Sprint(icon), text.FgYellow.Sprint(message))
}

// cell keeps widget text on one line of bounded width.
func cell(s string) string {
	return sstrings.OneLine(s, sstrings.DefaultCellMaxLen)
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}
