package lifecycle

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/metrics"
)

const defaultPollInterval = 30 * time.Second

type snapshotter interface {
	Snapshot(ctx context.Context, sess session.Session) (View, error)
}

// ChangeFeed delivers a signal whenever a phone's status may have changed.
type ChangeFeed interface {
	Subscribe(ctx context.Context, phone string) (<-chan struct{}, func() error, error)
}

type WatcherParams struct {
	Logger       *logger.Logger
	Tracker      snapshotter
	Feed         ChangeFeed
	PollInterval time.Duration
	Metrics      *metrics.TrackerMetrics
}

// Watcher keeps a session's view fresh by re-fetching on start, on every
// change notification and on a fallback poll.
type Watcher struct {
	logg     *logger.Logger
	tracker  snapshotter
	feed     ChangeFeed
	interval time.Duration
	metrics  *metrics.TrackerMetrics
}

// NewWatcher builds a Watcher. Feed may be nil, leaving only polling.
func NewWatcher(params WatcherParams) (*Watcher, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tracker == nil {
		return nil, fmt.Errorf("tracker required")
	}
	interval := params.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{
		logg:     params.Logger,
		tracker:  params.Tracker,
		feed:     params.Feed,
		interval: interval,
		metrics:  params.Metrics,
	}, nil
}

// Watch is one running subscription. Updates carries each new view; it is
// closed once the context passed to Watcher.Watch ends.
type Watch struct {
	updates chan View
	done    chan struct{}

	started atomic.Uint64

	mu      sync.Mutex
	last    View
	hasLast bool
}

// Updates returns the channel of published views.
func (w *Watch) Updates() <-chan View { return w.updates }

// Done is closed after the watch has released its ticker and subscription.
func (w *Watch) Done() <-chan struct{} { return w.done }

// Last returns the most recently published view.
func (w *Watch) Last() (View, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.hasLast
}

// Watch starts watching sess until ctx is canceled.
func (w *Watcher) Watch(ctx context.Context, sess session.Session) *Watch {
	watch := &Watch{
		updates: make(chan View, 1),
		done:    make(chan struct{}),
	}
	ctx = w.logg.WithPhone(ctx, sess.Phone)

	var changes <-chan struct{}
	var closeFeed func() error
	if w.feed != nil {
		ch, closer, err := w.feed.Subscribe(ctx, sess.Phone)
		if err != nil {
			w.logg.Warn(w.logg.WithField(ctx, "error", err.Error()), "status feed unavailable; polling only")
		} else {
			changes, closeFeed = ch, closer
		}
	}

	var inflight sync.WaitGroup
	trigger := func() {
		seq := watch.started.Add(1)
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			w.fetch(ctx, sess, watch, seq)
		}()
	}

	go func() {
		ticker := time.NewTicker(w.interval)
		defer func() {
			ticker.Stop()
			if closeFeed != nil {
				if err := closeFeed(); err != nil {
					w.logg.Warn(w.logg.WithField(ctx, "error", err.Error()), "closing status feed")
				}
			}
			inflight.Wait()
			close(watch.updates)
			close(watch.done)
		}()

		trigger()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				trigger()
			case _, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				trigger()
			}
		}
	}()
	return watch
}

// fetch publishes only if no newer fetch started meanwhile. A failed fetch
// keeps the last published view.
func (w *Watcher) fetch(ctx context.Context, sess session.Session, watch *Watch, seq uint64) {
	view, err := w.tracker.Snapshot(ctx, sess)

	watch.mu.Lock()
	defer watch.mu.Unlock()

	if seq != watch.started.Load() {
		w.metrics.IncStaleDiscarded()
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			w.logg.Warn(w.logg.WithFields(ctx, map[string]any{"error": err.Error(), "seq": seq}), "lifecycle fetch failed; keeping last view")
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	if watch.hasLast && reflect.DeepEqual(watch.last, view) {
		return
	}
	watch.last, watch.hasLast = view, true

	select {
	case <-watch.updates:
	default:
	}
	watch.updates <- view
}
