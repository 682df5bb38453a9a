package smartspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_LatestBeforeAndAfterPublish(t *testing.T) {
	p := NewPublisher()

	_, ok := p.Latest()
	assert.False(t, ok)

	p.Publish(nil)
	rows, ok := p.Latest()
	assert.True(t, ok)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestPublisher_ReplaysLatestToNewSubscribers(t *testing.T) {
	p := NewPublisher()
	p.Publish([]Row{newRow(RowTitle, "first")})
	p.Publish([]Row{newRow(RowTitle, "second")})

	ch, cancel := p.Subscribe()
	defer cancel()

	rows := <-ch
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Title)
}

func TestPublisher_SlowSubscriberSeesNewest(t *testing.T) {
	p := NewPublisher()
	ch, cancel := p.Subscribe()
	defer cancel()

	for _, title := range []string{"a", "b", "c"} {
		p.Publish([]Row{newRow(RowTitle, title)})
	}

	rows := <-ch
	assert.Equal(t, "c", rows[0].Title)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra delivery %v", extra)
	default:
	}
}

func TestPublisher_CancelClosesChannel(t *testing.T) {
	p := NewPublisher()
	ch, cancel := p.Subscribe()

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic on the closed channel.
	p.Publish([]Row{newRow(RowTitle, "x")})
}

func TestPublisher_CopiesRows(t *testing.T) {
	p := NewPublisher()
	rows := []Row{{Kind: RowWeather, URI: WeatherURI, Title: "20°C", Icon: &Icon{Bitmap: "sun"}}}
	p.Publish(rows)

	rows[0].Title = "changed"
	rows[0].Icon.Bitmap = "changed"

	latest, _ := p.Latest()
	assert.Equal(t, "20°C", latest[0].Title)
	assert.Equal(t, "sun", latest[0].Icon.Bitmap)
}
