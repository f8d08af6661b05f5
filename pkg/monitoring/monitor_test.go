package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
}

func TestObservePhase(t *testing.T) {
	Init()
	before := testutil.CollectAndCount(PhaseDuration)
	ObservePhase("unit_test_phase", time.Now().Add(-time.Second))
	if after := testutil.CollectAndCount(PhaseDuration); after != before+1 {
		t.Errorf("PhaseDuration series = %d, want %d", after, before+1)
	}
}

func TestPush(t *testing.T) {
	Init()
	DocumentsInserted.WithLabelValues("lessons").Add(3)

	var body string
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := Push(server.URL, "course_seeder"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if path != "/metrics/job/course_seeder" {
		t.Errorf("push path = %q, want /metrics/job/course_seeder", path)
	}
	if !strings.Contains(body, "seeder_documents_inserted_total") {
		t.Error("pushed body does not contain the inserted documents counter")
	}
}
