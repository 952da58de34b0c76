package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutCounters(t *testing.T) {
	m := New(prometheus.NewRegistry(), "api")
	m.OrderPlaced()
	m.CheckoutRejected("missing_address")
	m.CheckoutRejected("missing_address")

	if got := testutil.ToFloat64(m.Placed); got != 1 {
		t.Fatalf("expected 1 placed, got %v", got)
	}
	if got := testutil.ToFloat64(m.Rejected.WithLabelValues("missing_address")); got != 2 {
		t.Fatalf("expected 2 rejections, got %v", got)
	}
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "api")
	h := m.Instrument("cart", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("cart", "404")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "cartflow_api_http_requests_total") {
		t.Fatalf("metrics output missing counter:\n%s", rec.Body.String())
	}
}
