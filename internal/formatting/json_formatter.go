package formatting

import (
	"smartspace/internal/keyguard"
	"smartspace/internal/smartspace"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatRows formats rows as a JSON object with a count.
func (f *JSONFormatter) FormatRows(rows []smartspace.Row) string {
	return PrettyJSON(struct {
		Rows  []RowRecord `json:"rows"`
		Count int         `json:"count"`
	}{RowRecords(rows), len(rows)})
}

// FormatSlice formats a slice as JSON.
func (f *JSONFormatter) FormatSlice(slice *keyguard.Slice) string {
	if slice == nil {
		return "null"
	}
	return PrettyJSON(NewSliceRecord(slice))
}

// FormatAnalysis formats an extraction analysis as JSON.
func (f *JSONFormatter) FormatAnalysis(a smartspace.Analysis) string {
	return PrettyJSON(NewAnalysisRecord(a))
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
