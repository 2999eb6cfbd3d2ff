// AngelaMos | 2026
// metrics_test.go

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument("/metrics"))
	r.Get("/api/invoices/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(
		httpRequests.WithLabelValues("GET", "/api/invoices/{id}", "404"),
	)

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(
		httpRequests.WithLabelValues("GET", "/api/invoices/{id}", "404"),
	)
	assert.Equal(t, before+3, after)
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(loginAttempts.WithLabelValues(LoginRateLimited))
	RecordLogin(LoginRateLimited)
	assert.Equal(t, before+1, testutil.ToFloat64(loginAttempts.WithLabelValues(LoginRateLimited)))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordGateDecision("redirect")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invoice_gate_decisions_total")
}

func TestRecordThrottled(t *testing.T) {
	before := testutil.ToFloat64(throttled)
	RecordThrottled()
	assert.Equal(t, before+1, testutil.ToFloat64(throttled))
}
