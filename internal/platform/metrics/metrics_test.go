package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRecordLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg, reg)

	m.CreditsDebited("variation", 30)
	m.CreditsReturned("refund", 10)
	m.DebitRejected("ad_insight")
	m.UnitFinished("curiosity", "completed", 2*time.Second)
	m.UnitFinished("curiosity", "failed", time.Second)
	m.BatchRejected("insufficient_credits")
	m.InsightLookup("hit")
	m.InsightAnalyzed("success")

	assert.Equal(t, 30.0, testutil.ToFloat64(m.ledgerCredits.WithLabelValues("debit", "variation")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.ledgerCredits.WithLabelValues("credit", "refund")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerRejections.WithLabelValues("ad_insight")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unitOutcomes.WithLabelValues("curiosity", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchRejections.WithLabelValues("insufficient_credits")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insightLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insightAnalyses.WithLabelValues("success")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CreditsDebited("variation", 10)
		m.UnitFinished("curiosity", "completed", time.Second)
		m.InsightLookup("miss")
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg, reg)
	m.BatchRejected("invalid_request")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `voltic_generation_batch_rejections_total{reason="invalid_request"} 1`)
}
