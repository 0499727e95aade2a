package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompose(t *testing.T) {
	ObserveCompose("test_listing", time.Now(), 3, nil)
	ObserveCompose("test_listing", time.Now(), 0, errors.New("boom"))

	// one ok and one error series for the listing
	assert.GreaterOrEqual(t, testutil.CollectAndCount(FeedComposeLatency), 2)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(FeedRowsReturned), 1)
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "test_table")
	done()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(DatabaseQueryLatency), 1)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RelationshipWrites.WithLabelValues("committed"))
	RelationshipWrites.WithLabelValues("committed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RelationshipWrites.WithLabelValues("committed")))
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "outstagram-test", Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "test.op")
	defer span.End()
	assert.NotNil(t, ctx)
	span.SetError(errors.New("recorded"))
}
