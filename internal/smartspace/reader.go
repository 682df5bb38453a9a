package smartspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"smartspace/internal/api"
	"smartspace/internal/headless"
	"smartspace/internal/metrics"
	"smartspace/internal/packages"
	"smartspace/internal/widgethost"
	"smartspace/pkg/logging"
)

const subsystem = "SmartspaceReader"

// Defaults for the Google app smartspace widget.
const (
	DefaultPackage     = "com.google.android.googlequicksearchbox"
	DefaultWidgetClass = "com.google.android.apps.gsa.staticplugins.smartspace.widget.SmartspaceWidgetProvider"
	DefaultWidgetKey   = "smartspaceWidget"
)

// ReaderConfig names the widget the Reader follows.
type ReaderConfig struct {
	Package     string
	WidgetClass string
	WidgetKey   string
}

func (c ReaderConfig) withDefaults() ReaderConfig {
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	if c.WidgetClass == "" {
		c.WidgetClass = DefaultWidgetClass
	}
	if c.WidgetKey == "" {
		c.WidgetKey = DefaultWidgetKey
	}
	return c
}

// Reader keeps the published smartspace rows in sync with the provider
// widget. While the provider package is enabled it holds an update job that
// subscribes to the headless widget and extracts rows from every redraw.
// When the package goes away the job is cancelled, the widget record is
// removed and an empty row set is published.
type Reader struct {
	cfg       ReaderConfig
	packages  packages.Source
	widgets   *headless.Manager
	publisher *Publisher
	extract   func(*widgethost.Node) []Row

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	job        *updateJob
	unregister func()
	started    bool
	closed     bool
}

type updateJob struct {
	sub    *headless.Subscription
	cancel context.CancelFunc
	done   chan struct{}
	gate   *publishGate
}

func (j *updateJob) stop() {
	j.gate.stop()
	j.cancel()
	j.sub.Cancel()
}

// NewReader creates a Reader. The Reader owns widgets and closes it on
// Close.
func NewReader(cfg ReaderConfig, source packages.Source, widgets *headless.Manager) *Reader {
	return &Reader{
		cfg:       cfg.withDefaults(),
		packages:  source,
		widgets:   widgets,
		publisher: NewPublisher(),
		extract:   Extract,
	}
}

// Config returns the effective configuration.
func (r *Reader) Config() ReaderConfig {
	return r.cfg
}

// Start registers for change notifications of the provider package and
// performs the initial availability check.
func (r *Reader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return fmt.Errorf("smartspace reader is closed")
	}
	if r.started {
		r.mu.Unlock()
		return nil
	}
	logging.Debug(subsystem, "init: package=%s class=%s key=%s", r.cfg.Package, r.cfg.WidgetClass, r.cfg.WidgetKey)

	r.ctx, r.cancel = context.WithCancel(ctx)
	unregister, err := r.packages.Watch(packages.PackageFilter(r.cfg.Package), func(ev packages.Event) {
		logging.Debug(subsystem, "packageReceiver: received %s", ev.Action)
		r.updateState()
	})
	if err != nil {
		r.cancel()
		r.mu.Unlock()
		return fmt.Errorf("failed to watch package %s: %w", r.cfg.Package, err)
	}
	r.unregister = unregister
	r.started = true
	r.mu.Unlock()

	r.updateState()
	return nil
}

// Close cancels the update job, resets the widget manager and stops
// observing the package. It is safe to call more than once.
func (r *Reader) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	logging.Debug(subsystem, "destroying")
	r.closed = true
	job := r.job
	if job != nil {
		job.stop()
		r.job = nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	unregister := r.unregister
	r.mu.Unlock()

	if job != nil {
		<-job.done
	}
	r.widgets.Close()
	if unregister != nil {
		unregister()
	}
}

// Rows subscribes to published row sets. The latest set, if any, is
// delivered first. Call the returned function to unsubscribe.
func (r *Reader) Rows() (<-chan []Row, func()) {
	return r.publisher.Subscribe()
}

// Latest returns the latest published row set. ok is false until the first
// publish.
func (r *Reader) Latest() ([]Row, bool) {
	return r.publisher.Latest()
}

// Active reports whether an update job is running.
func (r *Reader) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.job != nil
}

func (r *Reader) updateState() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.started {
		return
	}

	enabled := r.packages.IsEnabled(r.cfg.Package)
	metrics.SetBool(metrics.ProviderAvailable, enabled)
	logging.Debug(subsystem, "updateState: package %s enabled=%t", r.cfg.Package, enabled)
	if enabled {
		r.startUpdateJobLocked()
	} else {
		r.cancelUpdateJobLocked()
	}
}

func (r *Reader) startUpdateJobLocked() {
	if r.job != nil {
		logging.Debug(subsystem, "startUpdateJob: job already active")
		return
	}

	providers, err := r.packages.InstalledProviders(r.cfg.Package)
	if err != nil {
		logging.Error(subsystem, err, "startUpdateJob: cannot list providers of %s", r.cfg.Package)
		return
	}
	info, ok := packages.FindProvider(providers, r.cfg.WidgetClass)
	if !ok {
		logging.Error(subsystem, api.NewProviderNotFoundError(r.cfg.WidgetClass), "startUpdateJob: widget provider is unavailable!")
		return
	}

	sub, err := r.widgets.Subscribe(info, r.cfg.WidgetKey)
	if err != nil {
		logging.Error(subsystem, err, "startUpdateJob: cannot subscribe to %s", r.cfg.WidgetKey)
		return
	}

	ctx, cancel := context.WithCancel(r.ctx)
	job := &updateJob{
		sub:    sub,
		cancel: cancel,
		done:   make(chan struct{}),
		gate:   &publishGate{},
	}
	r.job = job
	go r.run(ctx, job)
	logging.Debug(subsystem, "started update job (subscription %s)", sub.ID())
}

func (r *Reader) cancelUpdateJobLocked() {
	if r.job == nil {
		logging.Debug(subsystem, "cancelUpdateJob: job not active")
		// A job that ended on its own may have left rows behind.
		if rows, ok := r.publisher.Latest(); ok && len(rows) > 0 {
			r.publisher.Publish(nil)
		}
		return
	}

	r.job.stop()
	r.job = nil
	r.publisher.Publish(nil)
	_ = r.widgets.RemoveWidget(r.cfg.WidgetKey)
	logging.Debug(subsystem, "cancelled update job")
}

// run forwards redraws to the publisher until the subscription ends.
func (r *Reader) run(ctx context.Context, job *updateJob) {
	defer close(job.done)
	defer r.jobEnded(job)

	var lastSeq uint64
	for {
		event, err := job.sub.Next(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				logging.Debug(subsystem, "update job cancelled")
			case errors.Is(err, api.ErrWidgetNotBound):
				logging.Error(subsystem, err, "update job: widget %s lost its binding", r.cfg.WidgetKey)
			case job.sub.Void():
				logging.Debug(subsystem, "update job: widget %s is not bound, nothing to read", r.cfg.WidgetKey)
			default:
				logging.Debug(subsystem, "update job: subscription ended: %v", err)
			}
			return
		}

		// Redraws that arrived while the previous extraction ran were
		// conflated by the subscription; only the newest is extracted.
		if lastSeq > 0 && event.Sequence > lastSeq+1 {
			metrics.SupersededExtractions.Add(float64(event.Sequence - lastSeq - 1))
		}
		lastSeq = event.Sequence

		rows := r.safeExtract(event.Tree)
		job.gate.publish(func() { r.publisher.Publish(rows) })
	}
}

// jobEnded forgets a job that stopped by itself so the next availability
// trigger starts over with a fresh widget record. Rows of a widget that lost
// its binding are withdrawn.
func (r *Reader) jobEnded(job *updateJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.job != job {
		return
	}
	r.job = nil
	if rows, ok := r.publisher.Latest(); ok && len(rows) > 0 {
		r.publisher.Publish(nil)
	}
	if err := r.widgets.RemoveWidget(r.cfg.WidgetKey); err != nil && !api.IsNotFound(err) {
		logging.Warn(subsystem, "failed to drop widget %s: %v", r.cfg.WidgetKey, err)
	}
}

// safeExtract runs the extractor and treats a panic as an empty tree.
func (r *Reader) safeExtract(tree *widgethost.Node) (rows []Row) {
	defer func() {
		if p := recover(); p != nil {
			logging.Error(subsystem, fmt.Errorf("%v", p), "extractWidgetLayout panicked")
			metrics.Extractions.WithLabelValues(metrics.OutcomePanic).Inc()
			rows = []Row{}
		}
	}()

	if logging.IsDebugEnabled() {
		logging.Debug(subsystem, "extractWidgetLayout: nodes=%d %s", widgethost.Count(tree), Analyze(tree))
	}
	rows = r.extract(tree)
	metrics.Extractions.WithLabelValues(outcome(rows)).Inc()
	return rows
}

func outcome(rows []Row) string {
	switch {
	case len(rows) == 0:
		return metrics.OutcomeEmpty
	case len(rows) == 1 && rows[0].Kind == RowWeather:
		return metrics.OutcomeWeather
	default:
		return metrics.OutcomeFull
	}
}

// publishGate stops an update job's publications once the job is stopped,
// so an extraction still running at that point cannot overwrite the empty
// set published on cancel.
type publishGate struct {
	mu      sync.Mutex
	stopped bool
}

func (g *publishGate) publish(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return false
	}
	fn()
	return true
}

func (g *publishGate) stop() {
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()
}
