// Package jobs runs reconciliation on a schedule for a fixed set of named
// date-range presets and keeps the last good snapshot of each.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/events"
	"github.com/fastprodman/finrecon/internal/metrics"
	"github.com/fastprodman/finrecon/internal/services/recon"
	"github.com/fastprodman/finrecon/internal/snapshotcache"
)

type Computer interface {
	ComputeSnapshot(ctx context.Context, rng domain.DateRange) (recon.Snapshot, error)
}

type RunnerConfig struct {
	Presets    []string
	Location   *time.Location
	RunTimeout time.Duration
	Clock      func() time.Time
}

// Runner refreshes presets. A failed run never replaces the cached snapshot.
type Runner struct {
	svc     Computer
	cache   snapshotcache.Cache
	pub     events.Publisher
	metrics *metrics.Recorder
	logger  *slog.Logger

	presets []string
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time

	// refresh serializes runs of one preset so the cache only moves forward
	refresh map[string]*sync.Mutex

	mu     sync.Mutex
	active map[string][]string
}

func NewRunner(
	svc Computer,
	cache snapshotcache.Cache,
	pub events.Publisher,
	rec *metrics.Recorder,
	cfg RunnerConfig,
	logger *slog.Logger,
) (*Runner, error) {
	err := ValidatePresets(cfg.Presets)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		svc:     svc,
		cache:   cache,
		pub:     pub,
		metrics: rec,
		logger:  logger,
		presets: slices.Clone(cfg.Presets),
		loc:     cfg.Location,
		timeout: cfg.RunTimeout,
		now:     cfg.Clock,
		refresh: make(map[string]*sync.Mutex, len(cfg.Presets)),
		active:  make(map[string][]string),
	}

	for _, p := range r.presets {
		r.refresh[p] = new(sync.Mutex)
	}

	if r.loc == nil {
		r.loc = time.UTC
	}

	if r.now == nil {
		r.now = time.Now
	}

	return r, nil
}

func (r *Runner) Presets() []string {
	return slices.Clone(r.presets)
}

// Cached returns the last good snapshot for preset.
func (r *Runner) Cached(ctx context.Context, preset string) (recon.Snapshot, error) {
	if !slices.Contains(r.presets, preset) {
		return recon.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	return r.cache.Get(ctx, preset)
}

// RefreshAll refreshes every preset concurrently. One failing preset does not
// stop the others; all failures are joined.
func (r *Runner) RefreshAll(ctx context.Context) error {
	var (
		g    errgroup.Group
		errs = make([]error, len(r.presets))
	)

	for i, preset := range r.presets {
		g.Go(func() error {
			_, errs[i] = r.Refresh(ctx, preset)
			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}

// Refresh recomputes one preset and stores it on success. Overlapping calls
// for the same preset (a cron tick and a manual refresh) run one after the
// other, and a snapshot older than the cached one is never stored.
func (r *Runner) Refresh(ctx context.Context, preset string) (recon.Snapshot, error) {
	lock, ok := r.refresh[preset]
	if !ok {
		return recon.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	lock.Lock()
	defer lock.Unlock()

	rng, err := ResolvePreset(preset, r.now(), r.loc)
	if err != nil {
		return recon.Snapshot{}, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()

	snap, err := r.svc.ComputeSnapshot(ctx, rng)
	if err != nil {
		r.metrics.RunFailed(preset, time.Since(started))
		r.logger.Error("reconciliation run failed, keeping last good snapshot", "preset", preset, "error", err)

		return recon.Snapshot{}, fmt.Errorf("refresh %s: %w", preset, err)
	}

	cached, err := r.cache.Get(ctx, preset)
	if err == nil && cached.ComputedAt.After(snap.ComputedAt) {
		// another instance sharing the cache stored a newer run
		r.logger.Warn("discarding stale reconciliation run", "preset", preset,
			"computed_at", snap.ComputedAt, "cached_computed_at", cached.ComputedAt)

		return cached, nil
	}

	err = r.cache.Put(ctx, preset, snap)
	if err != nil {
		r.metrics.RunFailed(preset, time.Since(started))

		return recon.Snapshot{}, fmt.Errorf("store %s snapshot: %w", preset, err)
	}

	r.metrics.RunSucceeded(preset, snap, time.Since(started))
	r.announce(ctx, preset, snap)

	return snap, nil
}

// announce publishes when the raised alert set of preset changed since the
// previous good run. The first run of a process counts as a change only when
// something is raised.
func (r *Runner) announce(ctx context.Context, preset string, snap recon.Snapshot) {
	current := snap.Alerts.Raised()

	r.mu.Lock()
	previous := r.active[preset]
	r.active[preset] = current
	r.mu.Unlock()

	raised := difference(current, previous)
	cleared := difference(previous, current)

	if len(raised) == 0 && len(cleared) == 0 {
		return
	}

	ev := events.AlertsChanged{
		EventID:             uuid.NewString(),
		Preset:              preset,
		RangeLabel:          snap.RangeLabel,
		ComputedAt:          snap.ComputedAt,
		Raised:              raised,
		Cleared:             cleared,
		Active:              current,
		AvailableToOperator: snap.Cash.AvailableToOperator,
	}

	err := r.pub.PublishAlertsChanged(ctx, ev)
	if err != nil {
		r.metrics.PublishFailed()
		r.logger.Warn("publish alerts changed failed", "preset", preset, "event_id", ev.EventID, "error", err)

		return
	}

	r.logger.Info("alerts changed", "preset", preset, "raised", raised, "cleared", cleared)
}

// difference returns the names in a that are not in b, keeping a's order.
func difference(a, b []string) []string {
	out := []string{}

	for _, s := range a {
		if !slices.Contains(b, s) {
			out = append(out, s)
		}
	}

	return out
}
