// internal/common/metrics/metrics_test.go
package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuote(t *testing.T) {
	before := testutil.ToFloat64(QuotesComputed.WithLabelValues("Medium", "test"))

	ObserveQuote("test", "Medium", 1720)
	ObserveQuote("test", "Medium", 1500)

	after := testutil.ToFloat64(QuotesComputed.WithLabelValues("Medium", "test"))
	assert.Equal(t, before+2, after)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(QuotePremium), 1)
}

func TestSource(t *testing.T) {
	assert.Equal(t, SourceJob, SourceFrom(context.Background()))
	assert.Equal(t, SourceAPI, SourceFrom(WithSource(context.Background(), SourceAPI)))
	assert.Equal(t, SourceJob, SourceFrom(WithSource(context.Background(), "")))
}
