package keyguard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartspace/internal/smartspace"
	"smartspace/internal/testing/mock"
)

var saturday = time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)

type fixture struct {
	session  *UserSession
	source   *mock.RowSource
	starts   atomic.Int32
	notified chan string
	provider *SliceProvider
}

func newFixture(t *testing.T, admin, unlocked bool, opts ...SliceProviderOption) *fixture {
	t.Helper()
	f := &fixture{
		session:  NewUserSession(admin, unlocked),
		source:   mock.NewRowSource(),
		notified: make(chan string, 64),
	}
	factory := func(context.Context) (RowSource, error) {
		f.starts.Add(1)
		return f.source, nil
	}
	opts = append([]SliceProviderOption{
		WithClock(mock.NewMockClock(saturday)),
		WithNotifier(func(uri string) { f.notified <- uri }),
	}, opts...)

	p, err := NewSliceProvider(f.session, factory, "", opts...)
	require.NoError(t, err)
	f.provider = p
	t.Cleanup(p.OnDestroy)
	return f
}

func smartspaceRows() []smartspace.Row {
	return []smartspace.Row{
		{Kind: smartspace.RowWeather, URI: smartspace.WeatherURI, Title: "21°C", Icon: &smartspace.Icon{Bitmap: "sun", Tint: smartspace.TintNone}, EndOfSection: true},
		{Kind: smartspace.RowTitle, URI: smartspace.TitleURI, Title: "Standup"},
		{Kind: smartspace.RowSubtitle, URI: smartspace.SubtitleURI, Title: "09:30", Icon: &smartspace.Icon{Bitmap: "calendar"}, EndOfSection: true},
	}
}

func (f *fixture) waitNotify(t *testing.T) string {
	t.Helper()
	select {
	case uri := <-f.notified:
		return uri
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return ""
	}
}

func bind(t *testing.T, p *SliceProvider) *Slice {
	t.Helper()
	slice, ok := p.BindSlice(SliceURI)
	require.True(t, ok)
	require.NotNil(t, slice)
	return slice
}

func uris(rows []SliceRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.URI
	}
	return out
}

func TestOnCreate_SkipsNonAdminSession(t *testing.T) {
	f := newFixture(t, false, true)

	assert.True(t, f.provider.OnCreate(context.Background()))
	assert.Zero(t, f.starts.Load())
}

func TestOnCreate_StartsSmartspaceWhenUnlocked(t *testing.T) {
	f := newFixture(t, true, true)
	f.provider.OnCreate(context.Background())
	f.provider.OnCreate(context.Background())

	assert.Equal(t, int32(1), f.starts.Load())
}

func TestOnCreate_WaitsForFirstUnlock(t *testing.T) {
	f := newFixture(t, true, false)
	f.provider.OnCreate(context.Background())
	assert.Zero(t, f.starts.Load())

	f.session.Unlock()
	f.session.Unlock()
	assert.Equal(t, int32(1), f.starts.Load())
}

func TestOnDestroy_DropsPendingUnlock(t *testing.T) {
	f := newFixture(t, true, false)
	f.provider.OnCreate(context.Background())
	f.provider.OnDestroy()

	f.session.Unlock()
	assert.Zero(t, f.starts.Load())
}

func TestOnDestroy_ClosesRowSource(t *testing.T) {
	f := newFixture(t, true, true)
	f.provider.OnCreate(context.Background())

	f.provider.OnDestroy()
	f.provider.OnDestroy()
	assert.True(t, f.source.Closed())
}

func TestOnCreate_FactoryErrorIsNotFatal(t *testing.T) {
	session := NewUserSession(true, true)
	p, err := NewSliceProvider(session, func(context.Context) (RowSource, error) {
		return nil, errors.New("no widget host")
	}, "", WithClock(mock.NewMockClock(saturday)))
	require.NoError(t, err)
	defer p.OnDestroy()

	assert.True(t, p.OnCreate(context.Background()))
	slice := bind(t, p)
	assert.Empty(t, slice.Rows)
}

func TestBindSlice_DateHeaderFollowsClock(t *testing.T) {
	clock := mock.NewMockClock(saturday.Add(14*time.Hour + 29*time.Minute)) // 23:59
	f := newFixture(t, true, true, WithClock(clock))
	f.provider.OnCreate(context.Background())

	assert.Equal(t, "Sat, Oct 17", bind(t, f.provider).Header.Title)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, "Sun, Oct 18", bind(t, f.provider).Header.Title, "header rolls over at midnight")

	clock.Set(time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local))
	assert.Equal(t, "Fri, Jan 1", bind(t, f.provider).Header.Title)
}

func TestBindSlice_DateHeaderWithoutRows(t *testing.T) {
	f := newFixture(t, true, true)
	f.provider.OnCreate(context.Background())

	slice := bind(t, f.provider)
	assert.Equal(t, SliceURI, slice.URI)
	assert.Equal(t, DateURI, slice.Header.URI)
	assert.Equal(t, "Sat, Oct 17", slice.Header.Title)
	assert.Empty(t, slice.Rows, "smartspace section is omitted before the first row set")
	assert.Equal(t, ActionURI, slice.PrimaryAction)
}

func TestBindSlice_IncludesSmartspaceRows(t *testing.T) {
	f := newFixture(t, true, true)
	f.provider.OnCreate(context.Background())

	f.source.Publish(smartspaceRows())
	assert.Equal(t, SliceURI, f.waitNotify(t))

	slice := bind(t, f.provider)
	assert.Equal(t, []string{smartspace.WeatherURI, smartspace.TitleURI, smartspace.SubtitleURI}, uris(slice.Rows))
	assert.Equal(t, "21°C", slice.Rows[0].Title)
	assert.False(t, slice.Rows[0].Icon.Tintable())
	assert.True(t, slice.Rows[2].EndOfSection)
}

func TestBindSlice_EmptyRowSetClearsSmartspace(t *testing.T) {
	f := newFixture(t, true, true)
	f.provider.OnCreate(context.Background())

	f.source.Publish(smartspaceRows())
	f.waitNotify(t)
	f.source.Publish(nil)
	f.waitNotify(t)

	assert.Empty(t, bind(t, f.provider).Rows)
}

func TestBindSlice_MediaReplacesDateAndWeather(t *testing.T) {
	f := newFixture(t, true, true)
	f.provider.OnCreate(context.Background())
	f.source.Publish(smartspaceRows())
	f.waitNotify(t)

	f.provider.SetStatus(Status{MediaPlaying: true, MediaTitle: "Song", MediaArtist: "Band"})

	slice := bind(t, f.provider)
	assert.Equal(t, MediaURI, slice.Header.URI)
	assert.Equal(t, "Song", slice.Header.Title)
	assert.Equal(t, "Band", slice.Header.Description)
	assert.Equal(t, []string{smartspace.TitleURI, smartspace.SubtitleURI}, uris(slice.Rows))
}

func TestBindSlice_AlarmAndZenFollowSmartspace(t *testing.T) {
	f := newFixture(t, true, true, WithStatus(Status{NextAlarm: "Sun 07:00", ZenMode: true}))
	f.provider.OnCreate(context.Background())
	f.source.Publish(smartspaceRows()[1:])
	f.waitNotify(t)

	slice := bind(t, f.provider)
	assert.Equal(t, []string{smartspace.TitleURI, smartspace.SubtitleURI, AlarmURI, DNDURI}, uris(slice.Rows))
	assert.Equal(t, "Sun 07:00", slice.Rows[2].Title)
	assert.Equal(t, dndDescribed, slice.Rows[3].Description)
}

func TestBindSlice_CustomDateTemplate(t *testing.T) {
	p, err := NewSliceProvider(NewUserSession(false, true), nil, `{{ .Now | date "2006-01-02" | upper }} `,
		WithClock(mock.NewMockClock(saturday)))
	require.NoError(t, err)

	assert.Equal(t, "2026-10-17", bind(t, p).Header.Title)
}

func TestNewSliceProvider_RejectsBadTemplate(t *testing.T) {
	_, err := NewSliceProvider(NewUserSession(true, true), nil, `{{ .Now | date `)
	assert.Error(t, err)
}

func TestBindSlice_FailuresYieldNoSlice(t *testing.T) {
	t.Run("template error", func(t *testing.T) {
		p, err := NewSliceProvider(NewUserSession(false, true), nil, `{{ fail "no date" }}`)
		require.NoError(t, err)

		slice, ok := p.BindSlice(SliceURI)
		assert.False(t, ok)
		assert.Nil(t, slice)
	})

	t.Run("panic", func(t *testing.T) {
		p, err := NewSliceProvider(NewUserSession(false, true), nil, "", WithClock(panicClock{}))
		require.NoError(t, err)

		slice, ok := p.BindSlice(SliceURI)
		assert.False(t, ok)
		assert.Nil(t, slice)

		// The provider stays usable after a failed bind.
		p.SetStatus(Status{MediaPlaying: true, MediaTitle: "Song"})
		_, ok = p.BindSlice(SliceURI)
		assert.True(t, ok)
	})
}

type panicClock struct{}

func (panicClock) Now() time.Time { panic("clock unavailable") }

func TestUserSession_OnUnlockWhenAlreadyUnlocked(t *testing.T) {
	s := NewUserSession(true, true)
	called := 0
	s.OnUnlock(func() { called++ })
	assert.Equal(t, 1, called)
}
