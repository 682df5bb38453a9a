package keyguard

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"smartspace/internal/smartspace"
	"smartspace/pkg/logging"
)

const subsystem = "KeyguardSlice"

// DefaultDateTemplate renders the date header, e.g. "Sat, Oct 17".
const DefaultDateTemplate = `{{ .Now | date "Mon, Jan 2" }}`

// Clock supplies the time shown in the date header.
type Clock interface {
	Now() time.Time
}

// RealClock is the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RowSource delivers smartspace row sets.
type RowSource interface {
	Rows() (<-chan []smartspace.Row, func())
	Close()
}

// RowSourceFactory starts a RowSource. It is called at most once, when
// smartspace is initialised.
type RowSourceFactory func(ctx context.Context) (RowSource, error)

// Status is the device state shown around the smartspace rows.
type Status struct {
	MediaPlaying bool
	MediaTitle   string
	MediaArtist  string
	NextAlarm    string
	ZenMode      bool
}

// SliceProviderOption configures a SliceProvider.
type SliceProviderOption func(*SliceProvider)

// WithClock sets the clock used for the date header.
func WithClock(c Clock) SliceProviderOption {
	return func(p *SliceProvider) {
		p.clock = c
	}
}

// WithNotifier sets the function called with the slice URI whenever the
// slice content changed.
func WithNotifier(fn func(uri string)) SliceProviderOption {
	return func(p *SliceProvider) {
		p.notify = fn
	}
}

// WithSliceURI overrides the URI of the composed slice.
func WithSliceURI(uri string) SliceProviderOption {
	return func(p *SliceProvider) {
		p.sliceURI = uri
	}
}

// WithStatus sets the initial device status.
func WithStatus(s Status) SliceProviderOption {
	return func(p *SliceProvider) {
		p.status = s
	}
}

// SliceProvider composes the lock-screen slice.
type SliceProvider struct {
	session  Session
	newRows  RowSourceFactory
	dateTmpl *template.Template
	clock    Clock
	notify   func(uri string)
	sliceURI string

	mu           sync.Mutex
	status       Status
	rows         []smartspace.Row
	haveRows     bool
	source       RowSource
	stopRows     func()
	unlockCancel func()
	ctx          context.Context
	cancel       context.CancelFunc
	created      bool
	destroyed    bool

	wg sync.WaitGroup
}

// NewSliceProvider creates a provider. dateTemplate is a text/template with
// the sprig functions, executed with {{ .Now }}; empty means
// DefaultDateTemplate.
func NewSliceProvider(session Session, newRows RowSourceFactory, dateTemplate string, opts ...SliceProviderOption) (*SliceProvider, error) {
	if dateTemplate == "" {
		dateTemplate = DefaultDateTemplate
	}
	tmpl, err := template.New("date").Funcs(sprig.TxtFuncMap()).Parse(dateTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid date template: %w", err)
	}

	p := &SliceProvider{
		session:  session,
		newRows:  newRows,
		dateTmpl: tmpl,
		clock:    RealClock{},
		notify:   func(string) {},
		sliceURI: SliceURI,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// OnCreate starts smartspace for the admin session, immediately if the
// session is unlocked and otherwise on the first unlock.
func (p *SliceProvider) OnCreate(ctx context.Context) bool {
	logging.Debug(subsystem, "onCreateSliceProvider()")

	p.mu.Lock()
	if p.created || p.destroyed {
		p.mu.Unlock()
		return true
	}
	p.created = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	if !p.session.IsAdmin() {
		logging.Debug(subsystem, "current user is not admin, skip init")
		return true
	}

	if p.session.IsUnlocked() {
		logging.Debug(subsystem, "user already unlocked")
		p.initSmartspace()
		return true
	}

	logging.Debug(subsystem, "user not yet unlocked")
	cancel := p.session.OnUnlock(func() {
		logging.Debug(subsystem, "user unlocked")
		p.initSmartspace()
	})
	p.mu.Lock()
	p.unlockCancel = cancel
	p.mu.Unlock()
	return true
}

func (p *SliceProvider) initSmartspace() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed || p.source != nil {
		return
	}
	logging.Debug(subsystem, "initSmartspace")

	source, err := p.newRows(p.ctx)
	if err != nil {
		logging.Error(subsystem, err, "failed to start smartspace")
		return
	}
	ch, stop := source.Rows()
	p.source = source
	p.stopRows = stop

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for rows := range ch {
			p.setRows(rows)
		}
	}()
}

func (p *SliceProvider) setRows(rows []smartspace.Row) {
	p.mu.Lock()
	p.rows = rows
	p.haveRows = true
	p.mu.Unlock()

	if logging.IsDebugEnabled() {
		uris := make([]string, len(rows))
		for i, r := range rows {
			uris[i] = r.URI
		}
		logging.Debug(subsystem, "received smartspace slice rows: [%s]", strings.Join(uris, ", "))
	}
	p.notifyChange()
}

// OnDestroy stops smartspace. The provider cannot be created again.
func (p *SliceProvider) OnDestroy() {
	logging.Debug(subsystem, "onDestroy()")

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.destroyed = true
	if p.cancel != nil {
		p.cancel()
	}
	unlockCancel, stopRows, source := p.unlockCancel, p.stopRows, p.source
	p.mu.Unlock()

	if unlockCancel != nil {
		unlockCancel()
	}
	if stopRows != nil {
		stopRows()
	}
	p.wg.Wait()
	if source != nil {
		source.Close()
	}
}

// SetStatus replaces the device status and notifies a change.
func (p *SliceProvider) SetStatus(s Status) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
	p.notifyChange()
}

// Status returns the current device status.
func (p *SliceProvider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *SliceProvider) notifyChange() {
	p.notify(p.sliceURI)
}

// BindSlice composes the slice. Composition failures are logged and yield
// no slice.
func (p *SliceProvider) BindSlice(uri string) (slice *Slice, ok bool) {
	logging.Debug(subsystem, "onBindSlice %s", uri)
	defer func() {
		if r := recover(); r != nil {
			logging.Warn(subsystem, "Could not initialize slice: %v", r)
			slice, ok = nil, false
		}
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	b := newSliceBuilder(p.sliceURI)
	if p.needsMediaLocked() {
		p.addMediaLocked(b)
	} else if err := p.addDateLocked(b); err != nil {
		logging.Warn(subsystem, "Could not initialize slice: %v", err)
		return nil, false
	}
	p.addSmartspaceRowsLocked(b)
	p.addNextAlarmLocked(b)
	p.addZenModeLocked(b)
	b.setPrimaryAction(ActionURI)
	return b.build(), true
}

func (p *SliceProvider) needsMediaLocked() bool {
	return p.status.MediaPlaying && p.status.MediaTitle != ""
}

func (p *SliceProvider) addMediaLocked(b *sliceBuilder) {
	b.setHeader(SliceRow{URI: MediaURI, Title: p.status.MediaTitle, Description: p.status.MediaArtist})
}

func (p *SliceProvider) addDateLocked(b *sliceBuilder) error {
	var buf bytes.Buffer
	if err := p.dateTmpl.Execute(&buf, struct{ Now time.Time }{p.clock.Now()}); err != nil {
		return fmt.Errorf("failed to render date: %w", err)
	}
	b.setHeader(SliceRow{URI: DateURI, Title: strings.TrimSpace(buf.String())})
	return nil
}

func (p *SliceProvider) addSmartspaceRowsLocked(b *sliceBuilder) {
	if !p.haveRows {
		logging.Debug(subsystem, "addSmartspaceRows: no rows")
		return
	}
	media := p.needsMediaLocked()
	for _, r := range p.rows {
		if r.URI == smartspace.WeatherURI && media {
			logging.Debug(subsystem, "addSmartspaceRows: skipping row %s", r.URI)
			continue
		}
		logging.Debug(subsystem, "addSmartspaceRows: adding row %s", r.URI)
		b.addRow(rowFromSmartspace(r))
	}
}

func (p *SliceProvider) addNextAlarmLocked(b *sliceBuilder) {
	if p.status.NextAlarm == "" {
		return
	}
	b.addRow(SliceRow{URI: AlarmURI, Title: p.status.NextAlarm, Icon: &smartspace.Icon{Bitmap: alarmIcon}})
}

func (p *SliceProvider) addZenModeLocked(b *sliceBuilder) {
	if !p.status.ZenMode {
		return
	}
	b.addRow(SliceRow{URI: DNDURI, Description: dndDescribed, Icon: &smartspace.Icon{Bitmap: dndIcon}})
}
