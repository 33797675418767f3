package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("test_endpoint")
		IncSummarySource("computed")
		IncSourceFailure("rooms")
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ordersConfirmed)
	IncOrderConfirmed()
	assert.Equal(t, before+1, testutil.ToFloat64(ordersConfirmed))

	before = testutil.ToFloat64(reservationConflicts)
	IncReservationConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(reservationConflicts))

	before = testutil.ToFloat64(sourceFailures.WithLabelValues("guest_checkins"))
	IncSourceFailure("guest_checkins")
	assert.Equal(t, before+1, testutil.ToFloat64(sourceFailures.WithLabelValues("guest_checkins")))
}
