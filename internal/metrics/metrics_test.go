package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordAPICall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAPICall("list_posts", "GET", "ok", 20*time.Millisecond)
	c.RecordAPICall("list_posts", "GET", "ok", 30*time.Millisecond)
	c.RecordAPICall("sign_in", "POST", "http_error", 5*time.Millisecond)

	if got := testutil.ToFloat64(c.apiRequests.WithLabelValues("list_posts", "GET", "ok")); got != 2 {
		t.Errorf("list_posts ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.apiRequests.WithLabelValues("sign_in", "POST", "http_error")); got != 1 {
		t.Errorf("sign_in http_error count = %v, want 1", got)
	}
}

func TestCollector_RecordSessionChange(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSessionChange("login")
	c.RecordSessionChange("logout")
	c.RecordSessionChange("login")

	if got := testutil.ToFloat64(c.sessionChanges.WithLabelValues("login")); got != 2 {
		t.Errorf("login count = %v, want 2", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSessionChange("hydrate")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `blogdesk_session_changes_total{event="hydrate"} 1`) {
		t.Errorf("metrics output missing session counter:\n%s", body)
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.RecordAPICall("x", "GET", "ok", time.Second)
	r.RecordSessionChange("login")
}
