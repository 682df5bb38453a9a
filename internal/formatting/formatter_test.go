package formatting

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"smartspace/internal/keyguard"
	"smartspace/internal/smartspace"
	"smartspace/internal/widgethost"
)

func sampleRows() []smartspace.Row {
	return smartspace.Extract(widgethost.NewContainer(
		widgethost.NewContainer(widgethost.NewBitmapImage("sun", "Sunny"), widgethost.NewText("21°C")),
		widgethost.NewList(widgethost.NewContainer(
			widgethost.NewBitmapImage("calendar", ""),
			widgethost.NewText("Standup"),
			widgethost.NewText("09:30"),
		)),
	))
}

func TestParseOutputFormat(t *testing.T) {
	for _, name := range []string{"table", "json", "yaml"} {
		f, err := ParseOutputFormat(name)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(name), f)
	}
	_, err := ParseOutputFormat("xml")
	assert.Error(t, err)
}

func TestNewFormatter_PicksImplementation(t *testing.T) {
	assert.IsType(t, &TableFormatter{}, NewFormatter(Options{}))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(Options{Format: FormatJSON}))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(Options{Format: FormatYAML}))

	f := NewFormatter(Options{Format: FormatTable})
	f.SetOptions(Options{Format: FormatTable, Quiet: true})
	assert.True(t, f.GetOptions().Quiet)
}

func TestTableFormatter_Rows(t *testing.T) {
	out := NewTableFormatter(Options{}).FormatRows(sampleRows())

	assert.Contains(t, out, "SLOT")
	assert.Contains(t, out, "weather")
	assert.Contains(t, out, "21°C")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "none", "weather icon keeps its colors")
	assert.Less(t, strings.Index(out, "weather"), strings.Index(out, "Standup"))
}

func TestTableFormatter_LongTitlesStayOnOneLine(t *testing.T) {
	rows := smartspace.Extract(widgethost.NewContainer(
		widgethost.NewList(widgethost.NewContainer(
			widgethost.NewBitmapImage("plane", ""),
			widgethost.NewText("Flight LH1172 to Lisbon\nboards at gate B12 in forty minutes, bring your passport"),
			widgethost.NewText("14:05"),
		)),
	))
	require.Len(t, rows, 2)

	out := NewTableFormatter(Options{}).FormatRows(rows)
	assert.Contains(t, out, "Flight LH1172 to Lisbon boards")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "passport")
}

func TestTableFormatter_NoRows(t *testing.T) {
	out := NewTableFormatter(Options{}).FormatRows(nil)
	assert.Contains(t, out, "No smartspace rows")
}

func TestTableFormatter_Slice(t *testing.T) {
	slice := &keyguard.Slice{
		URI:    keyguard.SliceURI,
		Header: keyguard.SliceRow{URI: keyguard.DateURI, Title: "Sat, Oct 17"},
		Rows: []keyguard.SliceRow{
			{URI: smartspace.TitleURI, Title: "Standup"},
			{URI: keyguard.AlarmURI, Title: "Sun 07:00"},
		},
		PrimaryAction: keyguard.ActionURI,
	}

	out := NewTableFormatter(Options{}).FormatSlice(slice)
	assert.Contains(t, out, keyguard.SliceURI)
	assert.True(t, strings.HasPrefix(out, keyguard.SliceURI+"\n"), "slice URI is printed whole on the first line")
	assert.Contains(t, out, "date")
	assert.Contains(t, out, "Sat, Oct 17")
	assert.Contains(t, out, "alarm")

	quiet := NewTableFormatter(Options{Quiet: true}).FormatSlice(slice)
	assert.NotContains(t, quiet, keyguard.SliceURI)

	assert.Contains(t, NewTableFormatter(Options{}).FormatSlice(nil), "No slice")
}

func TestJSONFormatter_Rows(t *testing.T) {
	out := NewJSONFormatter(Options{}).FormatRows(sampleRows())

	var decoded struct {
		Rows  []RowRecord `json:"rows"`
		Count int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 3, decoded.Count)
	assert.Equal(t, "weather", decoded.Rows[0].Slot)
	assert.Equal(t, smartspace.SubtitleURI, decoded.Rows[2].URI)
	assert.Equal(t, "calendar", decoded.Rows[2].Icon)
	assert.Equal(t, "default", decoded.Rows[2].Tint)
}

func TestYAMLFormatter_Analysis(t *testing.T) {
	a := smartspace.Analyze(widgethost.NewContainer(widgethost.NewBitmapImage("sun", ""), widgethost.NewText("3°C")))
	out := NewYAMLFormatter(Options{}).FormatAnalysis(a)

	var rec AnalysisRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
	assert.Equal(t, 1, rec.Texts)
	assert.Equal(t, 1, rec.Images)
	assert.Equal(t, "3°C", rec.Temperature)
}

func TestNewSliceRecord_EmptyRows(t *testing.T) {
	rec := NewSliceRecord(&keyguard.Slice{URI: keyguard.SliceURI})
	assert.NotNil(t, rec.Rows)
	assert.Equal(t, "null\n", NewYAMLFormatter(Options{}).FormatSlice(nil))
	assert.Equal(t, "null", NewJSONFormatter(Options{}).FormatSlice(nil))
}
