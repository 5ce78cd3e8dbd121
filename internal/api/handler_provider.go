package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/jobs"
	"github.com/fastprodman/finrecon/internal/services/recon"
	"github.com/fastprodman/finrecon/internal/snapshotcache"
)

// Snapshots serves scheduled presets.
type Snapshots interface {
	Presets() []string
	Cached(ctx context.Context, preset string) (recon.Snapshot, error)
	Refresh(ctx context.Context, preset string) (recon.Snapshot, error)
}

// Computer runs an ad-hoc reconciliation.
type Computer interface {
	ComputeSnapshot(ctx context.Context, rng domain.DateRange) (recon.Snapshot, error)
}

type HandlerProvider struct {
	snaps  Snapshots
	svc    Computer
	loc    *time.Location
	logger *slog.Logger

	// adhoc coalesces concurrent ad-hoc runs over the same range
	adhoc singleflight.Group
}

// NewHandler returns a handler provider. loc is used to read date-only
// query bounds as business days.
func NewHandler(snaps Snapshots, svc Computer, loc *time.Location, logger *slog.Logger) *HandlerProvider {
	if loc == nil {
		loc = time.UTC
	}

	return &HandlerProvider{snaps: snaps, svc: svc, loc: loc, logger: logger}
}

func (h *HandlerProvider) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *HandlerProvider) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// HealthHandler handles GET /healthz
func (h *HandlerProvider) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPresetsHandler handles GET /presets
func (h *HandlerProvider) ListPresetsHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"presets": h.snaps.Presets()})
}

// GetSnapshotHandler handles GET /snapshots/{preset}
func (h *HandlerProvider) GetSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")

	snap, err := h.snaps.Cached(r.Context(), preset)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrUnknownPreset):
			h.writeError(w, http.StatusNotFound, "unknown preset")
		case errors.Is(err, snapshotcache.ErrNotFound):
			h.writeError(w, http.StatusNotFound, "no snapshot computed yet")
		default:
			h.logger.Error("read cached snapshot", "preset", preset, "error", err)
			h.writeError(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	h.writeJSON(w, http.StatusOK, snap)
}

// RefreshSnapshotHandler handles POST /snapshots/{preset}/refresh
func (h *HandlerProvider) RefreshSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")

	snap, err := h.snaps.Refresh(r.Context(), preset)
	if err != nil {
		if errors.Is(err, jobs.ErrUnknownPreset) {
			h.writeError(w, http.StatusNotFound, "unknown preset")
			return
		}

		h.logger.Error("refresh snapshot", "preset", preset, "error", err)
		h.writeError(w, http.StatusBadGateway, "reconciliation failed")

		return
	}

	h.writeJSON(w, http.StatusOK, snap)
}

// ComputeSnapshotHandler handles GET /snapshot?from=..&to=..
func (h *HandlerProvider) ComputeSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	rng, err := h.parseRange(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err, _ := h.adhoc.Do(rangeKey(rng), func() (any, error) {
		return h.svc.ComputeSnapshot(r.Context(), rng)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			h.writeError(w, http.StatusBadRequest, "from must not be after to")
			return
		}

		h.logger.Error("compute snapshot", "range", rng.Label(), "error", err)
		h.writeError(w, http.StatusBadGateway, "reconciliation failed")

		return
	}

	h.writeJSON(w, http.StatusOK, v.(recon.Snapshot)) //nolint:forcetypeassert
}

// rangeKey identifies rng exactly; Label drops sub-second precision.
func rangeKey(rng domain.DateRange) string {
	from, to := "", ""
	if rng.From != nil {
		from = rng.From.UTC().Format(time.RFC3339Nano)
	}

	if rng.To != nil {
		to = rng.To.UTC().Format(time.RFC3339Nano)
	}

	return from + "|" + to
}

func (h *HandlerProvider) parseRange(r *http.Request) (domain.DateRange, error) {
	var rng domain.DateRange

	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := parseBound(raw, h.loc, false)
		if err != nil {
			return rng, fmt.Errorf("invalid from: %w", err)
		}

		rng.From = &from
	}

	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		to, err := parseBound(raw, h.loc, true)
		if err != nil {
			return rng, fmt.Errorf("invalid to: %w", err)
		}

		rng.To = &to
	}

	return rng, nil
}

// parseBound accepts RFC3339 or YYYY-MM-DD. A bare date is the start of that
// day in loc, or its last instant when endOfDay is set.
func parseBound(raw string, loc *time.Location, endOfDay bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, nil
	}

	day, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, errors.New("want RFC3339 or YYYY-MM-DD")
	}

	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}

	return day, nil
}
