package smartspace

import "fmt"

// Row slot URIs.
const (
	WeatherURI  = "content://com.android.systemui.keyguard/smartspace/weather"
	TitleURI    = "content://com.android.systemui.keyguard/smartspace/title"
	SubtitleURI = "content://com.android.systemui.keyguard/smartspace/subtitle"
)

// RowKind identifies the slot a row fills.
type RowKind string

const (
	RowWeather  RowKind = "weather"
	RowTitle    RowKind = "title"
	RowSubtitle RowKind = "subtitle"
)

// URI returns the slot URI of the kind.
func (k RowKind) URI() string {
	switch k {
	case RowWeather:
		return WeatherURI
	case RowTitle:
		return TitleURI
	case RowSubtitle:
		return SubtitleURI
	}
	return ""
}

// TintMode tells the renderer how to color an icon.
type TintMode int

const (
	// TintDefault lets the lock screen tint the icon to match its theme.
	TintDefault TintMode = iota
	// TintNone keeps the icon's natural colors.
	TintNone
)

func (m TintMode) String() string {
	if m == TintNone {
		return "none"
	}
	return "default"
}

// Icon is a bitmap icon shown next to a row title.
type Icon struct {
	Bitmap string
	Tint   TintMode
}

// Tintable reports whether the lock screen may tint the icon.
func (i *Icon) Tintable() bool {
	return i != nil && i.Tint == TintDefault
}

// Row is one lock-screen row.
type Row struct {
	Kind         RowKind
	URI          string
	Title        string
	Icon         *Icon
	EndOfSection bool
}

func newRow(kind RowKind, title string) Row {
	return Row{Kind: kind, URI: kind.URI(), Title: title}
}

func (r Row) String() string {
	return fmt.Sprintf("Row{%s %q}", r.Kind, r.Title)
}

// cloneRows returns a deep copy of rows. A nil input yields an empty,
// non-nil slice.
func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if r.Icon != nil {
			icon := *r.Icon
			r.Icon = &icon
		}
		out[i] = r
	}
	return out
}
