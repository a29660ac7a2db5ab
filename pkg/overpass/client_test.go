package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const sampleResponse = `{
  "version": 0.6,
  "generator": "Overpass API",
  "osm3s": {"timestamp_osm_base": "2024-05-01T00:00:00Z", "copyright": "ODbL"},
  "elements": [
    {"type": "node", "id": 1, "lat": 51.0020672, "lon": 6.8521633, "tags": {"amenity": "pub", "name": "Gasthaus \"Laternchen\""}},
    {"type": "way", "id": 2, "center": {"lat": 50.5863134, "lon": 8.6731598}, "tags": {"amenity": "bar"}}
  ]
}`

// recordingSleeper captures waits instead of sleeping.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return ctx.Err()
}

// statusSequence serves the given status codes in order, then 200 with body.
func statusSequence(t *testing.T, codes ...int) (*httptest.Server, *int) {
	t.Helper()
	var mu sync.Mutex
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		n := calls
		calls++
		mu.Unlock()

		if n < len(codes) {
			w.WriteHeader(codes[n])
			_, _ = w.Write([]byte("busy"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestFetch_Success(t *testing.T) {
	var gotQuery, gotUA, gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotQuery = r.PostForm.Get("data")
		gotUA = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	c := NewClient(WithURL(ts.URL))
	resp, raw, err := c.Fetch(context.Background(), Query{BBox: "51.3,-0.6,51.7,0.2"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if !strings.Contains(gotQuery, `node["amenity"="pub"](51.3,-0.6,51.7,0.2);`) {
		t.Errorf("query not posted as data field: %q", gotQuery)
	}
	if len(resp.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(resp.Elements))
	}
	if resp.Elements[0].Tags["name"] != `Gasthaus "Laternchen"` {
		t.Errorf("name = %q", resp.Elements[0].Tags["name"])
	}
	if resp.OSM3S == nil || resp.OSM3S.Copyright != "ODbL" {
		t.Errorf("osm3s = %+v", resp.OSM3S)
	}
	if string(raw) != sampleResponse {
		t.Error("raw body differs from served body")
	}
}

func TestFetch_RetrySchedule(t *testing.T) {
	tests := []struct {
		name      string
		codes     []int
		wantWaits []time.Duration
	}{
		{
			name:      "gateway timeouts back off linearly",
			codes:     []int{http.StatusGatewayTimeout, http.StatusGatewayTimeout},
			wantWaits: []time.Duration{10 * time.Second, 20 * time.Second},
		},
		{
			name:      "rate limit waits a minute per attempt",
			codes:     []int{http.StatusTooManyRequests},
			wantWaits: []time.Duration{60 * time.Second},
		},
		{
			name:      "mixed",
			codes:     []int{http.StatusTooManyRequests, http.StatusGatewayTimeout},
			wantWaits: []time.Duration{60 * time.Second, 20 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := statusSequence(t, tt.codes...)
			s := &recordingSleeper{}
			c := NewClient(WithURL(ts.URL), WithSleeper(s.Sleep))

			resp, _, err := c.Fetch(context.Background(), Query{})
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(resp.Elements) != 2 {
				t.Errorf("elements = %d, want 2", len(resp.Elements))
			}
			if *calls != len(tt.codes)+1 {
				t.Errorf("calls = %d, want %d", *calls, len(tt.codes)+1)
			}
			if len(s.waits) != len(tt.wantWaits) {
				t.Fatalf("waits = %v, want %v", s.waits, tt.wantWaits)
			}
			for i := range tt.wantWaits {
				if s.waits[i] != tt.wantWaits[i] {
					t.Errorf("wait[%d] = %v, want %v", i, s.waits[i], tt.wantWaits[i])
				}
			}
		})
	}
}

func TestFetch_RetriesExhausted(t *testing.T) {
	ts, calls := statusSequence(t, 504, 504, 504, 504)
	s := &recordingSleeper{}
	c := NewClient(WithURL(ts.URL), WithSleeper(s.Sleep))

	_, _, err := c.Fetch(context.Background(), Query{})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("error = %v, want ErrRetriesExhausted", err)
	}
	if !errors.Is(err, ErrGatewayTimeout) {
		t.Errorf("error = %v, want it to wrap ErrGatewayTimeout", err)
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3", *calls)
	}
	// No wait after the final attempt.
	if len(s.waits) != 2 {
		t.Errorf("waits = %v, want 2 entries", s.waits)
	}
}

func TestFetch_NonRetryableStatus(t *testing.T) {
	ts, calls := statusSequence(t, http.StatusBadRequest)
	s := &recordingSleeper{}
	c := NewClient(WithURL(ts.URL), WithSleeper(s.Sleep))

	_, _, err := c.Fetch(context.Background(), Query{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadRequest || se.Body != "busy" {
		t.Errorf("StatusError = %+v", se)
	}
	if errors.Is(err, ErrRetriesExhausted) {
		t.Error("400 must not be retried")
	}
	if *calls != 1 || len(s.waits) != 0 {
		t.Errorf("calls = %d, waits = %v", *calls, s.waits)
	}
}

func TestFetch_RequestTimeout(t *testing.T) {
	// The handler never reads the body, so the server may not notice the
	// client hanging up. release unblocks it before Close waits on it.
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer ts.Close()
	defer close(release)

	s := &recordingSleeper{}
	c := NewClient(
		WithURL(ts.URL),
		WithSleeper(s.Sleep),
		WithRequestTimeout(20*time.Millisecond),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 2, TimeoutStep: 5 * time.Second}),
	)

	_, _, err := c.Fetch(context.Background(), Query{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if len(s.waits) != 1 || s.waits[0] != 5*time.Second {
		t.Errorf("waits = %v, want [5s]", s.waits)
	}
}

func TestFetch_TransportErrorUsesBackoff(t *testing.T) {
	s := &recordingSleeper{}
	c := NewClient(
		WithURL("http://127.0.0.1:0/api/interpreter"),
		WithSleeper(s.Sleep),
		WithRetryPolicy(RetryPolicy{
			MaxAttempts:    3,
			BackoffInitial: time.Second,
			BackoffMax:     10 * time.Second,
		}),
	)

	_, _, err := c.Fetch(context.Background(), Query{})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("error = %v, want ErrRetriesExhausted", err)
	}
	if len(s.waits) != 2 {
		t.Fatalf("waits = %v, want 2 entries", s.waits)
	}
	// ±20% jitter around 1s then 2s
	if s.waits[0] < 800*time.Millisecond || s.waits[0] > 1200*time.Millisecond {
		t.Errorf("first wait %v outside jitter range", s.waits[0])
	}
	if s.waits[1] < 1600*time.Millisecond || s.waits[1] > 2400*time.Millisecond {
		t.Errorf("second wait %v outside jitter range", s.waits[1])
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	ts, _ := statusSequence(t, 504, 504)
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(WithURL(ts.URL), WithSleeper(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, _, err := c.Fetch(ctx, Query{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestFetch_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	_, _, err := NewClient(WithURL(ts.URL)).Fetch(context.Background(), Query{})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("error = %v, want decode error", err)
	}
}

func TestFetch_UserAgentOption(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer ts.Close()

	c := NewClient(WithURL(ts.URL), WithUserAgent("barfetch-test/0.1"))
	if _, _, err := c.Fetch(context.Background(), Query{}); err != nil {
		t.Fatal(err)
	}
	if got != "barfetch-test/0.1" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestStatusError_Unwrap(t *testing.T) {
	if !errors.Is(&StatusError{Code: 504}, ErrGatewayTimeout) {
		t.Error("504 should match ErrGatewayTimeout")
	}
	if !errors.Is(&StatusError{Code: 429}, ErrRateLimited) {
		t.Error("429 should match ErrRateLimited")
	}
	if errors.Is(&StatusError{Code: 500}, ErrGatewayTimeout) {
		t.Error("500 should not match ErrGatewayTimeout")
	}
}
