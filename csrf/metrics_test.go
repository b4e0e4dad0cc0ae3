package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCountDecisions(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	p := mustNew(t, Config{Metrics: m, RenewOnWrite: true})
	var calls int32
	h := appHandler(p, &calls)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(DefaultHeaderName, mint(t, testSecret))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("reject")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("pass_renewed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TokensIssued.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokensIssued.WithLabelValues("renewal")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RenewalDropped))
}

func TestMetricsCountDroppedRenewal(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	p := mustNew(t, Config{Metrics: m, RenewOnWrite: true})
	h := p.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush()
	}))

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(DefaultHeaderName, mint(t, testSecret))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenewalDropped))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TokensIssued.WithLabelValues("renewal")))
}
