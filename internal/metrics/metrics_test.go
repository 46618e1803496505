package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/service/companion"
)

func TestObserverCounters(t *testing.T) {
	m := New()

	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected(true)
	m.CommandHandled(core.CommandMoodUpdate)
	m.EventDropped(core.EventMoodBroadcast)
	m.GenerationObserved(companion.PersonaCoach, "advice", companion.OutcomeFallback, 20*time.Millisecond)
	m.ObserveHTTP("POST", "/api/mood", 200, 5*time.Millisecond)
	m.BreakerStateChanged("genai", "closed", "open")

	if got := testutil.ToFloat64(m.WSConnectionsTotal); got != 2 {
		t.Fatalf("connections = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.WSDisconnectionsTotal.WithLabelValues("true")); got != 1 {
		t.Fatalf("identified disconnections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WSEventsHandled.WithLabelValues("mood_update")); got != 1 {
		t.Fatalf("mood_update handled = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WSEventsDropped.WithLabelValues("mood_broadcast")); got != 1 {
		t.Fatalf("mood_broadcast dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("coach", "advice", "fallback")); got != 1 {
		t.Fatalf("fallback generations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/mood", "200")); got != 1 {
		t.Fatalf("http requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.BreakerState.WithLabelValues("genai")); got != 2 {
		t.Fatalf("breaker state = %v, want 2", got)
	}
}

func TestHandlerExposesHubGauges(t *testing.T) {
	m := New()
	m.TrackHub(func() core.Stats { return core.Stats{Connections: 3, Identified: 2, Rooms: 1} })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"moodsync_ws_connections 3",
		"moodsync_ws_identified_connections 2",
		"moodsync_ws_support_rooms 1",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
