package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/finrecon/internal/infra/logging"
	"github.com/fastprodman/finrecon/internal/services/recon"
)

func TestScheduler_InitialRunAndStop(t *testing.T) {
	t.Parallel()

	svc := &computerStub{results: []stubResult{{snap: snapWithAlerts(42, recon.Alerts{})}}}
	r, cache := newTestRunner(t, svc, &publisherStub{}, PresetAllTime, PresetToday)

	s := NewScheduler(r, "@every 1h", logging.Discard())
	require.NoError(t, s.Start(t.Context()))

	require.Eventually(t, func() bool {
		_, errAll := cache.Get(context.Background(), PresetAllTime)
		_, errToday := cache.Get(context.Background(), PresetToday)

		return errAll == nil && errToday == nil
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_BadSpec(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t, &computerStub{}, &publisherStub{}, PresetAllTime)

	err := NewScheduler(r, "every now and then", logging.Discard()).Start(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every now and then")
}
