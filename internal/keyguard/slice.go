package keyguard

import (
	"smartspace/internal/smartspace"
)

// Slice URIs of the lock-screen provider.
const (
	SliceURI     = "content://com.android.systemui.keyguard/main"
	DateURI      = "content://com.android.systemui.keyguard/date"
	AlarmURI     = "content://com.android.systemui.keyguard/alarm"
	DNDURI       = "content://com.android.systemui.keyguard/dnd"
	MediaURI     = "content://com.android.systemui.keyguard/media"
	ActionURI    = "content://com.android.systemui.keyguard/action"
	alarmIcon    = "ic_access_alarms_big"
	dndIcon      = "ic_do_not_disturb"
	dndDescribed = "Do Not Disturb"
)

// SliceRow is one row of a bound slice.
type SliceRow struct {
	URI          string
	Title        string
	Description  string
	Icon         *smartspace.Icon
	EndOfSection bool
}

// Slice is the composed lock-screen content.
type Slice struct {
	URI           string
	Header        SliceRow
	Rows          []SliceRow
	PrimaryAction string
}

// sliceBuilder accumulates the rows of a slice in order.
type sliceBuilder struct {
	slice Slice
}

func newSliceBuilder(uri string) *sliceBuilder {
	return &sliceBuilder{slice: Slice{URI: uri}}
}

func (b *sliceBuilder) setHeader(row SliceRow) {
	b.slice.Header = row
}

func (b *sliceBuilder) addRow(row SliceRow) {
	b.slice.Rows = append(b.slice.Rows, row)
}

func (b *sliceBuilder) setPrimaryAction(uri string) {
	b.slice.PrimaryAction = uri
}

func (b *sliceBuilder) build() *Slice {
	s := b.slice
	return &s
}

func rowFromSmartspace(r smartspace.Row) SliceRow {
	row := SliceRow{URI: r.URI, Title: r.Title, EndOfSection: r.EndOfSection}
	if r.Icon != nil {
		icon := *r.Icon
		row.Icon = &icon
	}
	return row
}
