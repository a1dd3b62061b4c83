package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPagination(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordPagination("helius", "end", 3)
	m.RecordPagination("helius", "end", 1)
	m.RecordPagination("helius", "max_pages", 100)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.paginationStopsTotal.WithLabelValues("helius", "end")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paginationStopsTotal.WithLabelValues("helius", "max_pages")))
}

func TestRecordMetadataLookup(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordMetadataLookup("token_list", "hit", 0.1)
	m.RecordMetadataLookup("token_list", "error", 0.2)
	m.RecordMetadataLookup("helius", "miss", 0.3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metadataLookupsTotal.WithLabelValues("token_list", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metadataLookupsTotal.WithLabelValues("token_list", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metadataLookupsTotal.WithLabelValues("helius", "miss")))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	handler := HTTPMetricsMiddleware(m, "/api/v1/transactions")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/api/v1/transactions", "GET", "4xx")))
}

func TestHTTPMetricsMiddleware_NilMetrics(t *testing.T) {
	handler := HTTPMetricsMiddleware(nil, "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusCodeToString(t *testing.T) {
	tests := map[int]string{
		200: "2xx",
		204: "2xx",
		301: "3xx",
		400: "4xx",
		500: "5xx",
		99:  "unknown",
	}
	for code, want := range tests {
		assert.Equal(t, want, statusCodeToString(code), "code %d", code)
	}
}
