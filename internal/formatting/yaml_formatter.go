package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"smartspace/internal/keyguard"
	"smartspace/internal/smartspace"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(out)
}

// FormatRows formats rows as YAML.
func (f *YAMLFormatter) FormatRows(rows []smartspace.Row) string {
	return f.marshal(struct {
		Rows  []RowRecord `yaml:"rows"`
		Count int         `yaml:"count"`
	}{RowRecords(rows), len(rows)})
}

// FormatSlice formats a slice as YAML.
func (f *YAMLFormatter) FormatSlice(slice *keyguard.Slice) string {
	if slice == nil {
		return "null\n"
	}
	return f.marshal(NewSliceRecord(slice))
}

// FormatAnalysis formats an extraction analysis as YAML.
func (f *YAMLFormatter) FormatAnalysis(a smartspace.Analysis) string {
	return f.marshal(NewAnalysisRecord(a))
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}
