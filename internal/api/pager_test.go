package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tickerPage renders a JSON page of n tickers named prefix0..prefixN-1.
func tickerPage(prefix string, n int, next string) string {
	var b strings.Builder
	b.WriteString(`{"status":"OK","results":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"ticker":"%s%04d","market":"stocks","active":true}`, prefix, i)
	}
	b.WriteString(`]`)
	if next != "" {
		fmt.Fprintf(&b, `,"next_url":%q`, next)
	}
	b.WriteString(`}`)
	return b.String()
}

type recordingSleeper struct {
	calls []time.Duration
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func TestDelayForRate(t *testing.T) {
	tests := []struct {
		rpm  int
		want time.Duration
	}{
		{5, 13 * time.Second},
		{1, 61 * time.Second},
		{7, 10 * time.Second},
		{60, 2 * time.Second},
		{100, 2 * time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("rpm=%d", tt.rpm), func(t *testing.T) {
			if got := DelayForRate(tt.rpm); got != tt.want {
				t.Errorf("DelayForRate(%d) = %v, want %v", tt.rpm, got, tt.want)
			}
		})
	}
}

func TestFetchAll(t *testing.T) {
	t.Run("two pages with one delay", func(t *testing.T) {
		var srv *httptest.Server
		var requests atomic.Int32
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			if r.URL.Query().Get("apiKey") != "secret" {
				t.Errorf("request %s missing api key", r.URL.Path)
			}
			if r.URL.Query().Get("cursor") == "" {
				w.Write([]byte(tickerPage("A", 1000, srv.URL+"/v3/reference/tickers?cursor=p2")))
				return
			}
			w.Write([]byte(tickerPage("B", 42, "")))
		}))
		defer srv.Close()

		sleeper := &recordingSleeper{}
		p := NewPager(NewClient(srv.URL, "secret"), 5,
			WithSleeper(sleeper.sleep),
			WithPagerLogger(discardLogger()),
		)

		batch, err := p.FetchAll(context.Background(), DefaultTickerQuery())
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if batch.Len() != 1042 {
			t.Errorf("Len() = %d, want 1042", batch.Len())
		}
		if batch.Pages() != 2 {
			t.Errorf("Pages() = %d, want 2", batch.Pages())
		}
		if requests.Load() != 2 {
			t.Errorf("requests = %d, want 2", requests.Load())
		}
		if len(sleeper.calls) != 1 || sleeper.calls[0] != 13*time.Second {
			t.Errorf("sleeps = %v, want [13s]", sleeper.calls)
		}

		recs := batch.Records()
		if recs[0].Symbol != "A0000" || recs[999].Symbol != "A0999" || recs[1000].Symbol != "B0000" || recs[1041].Symbol != "B0041" {
			t.Errorf("order not preserved: first=%s last=%s", recs[0].Symbol, recs[1041].Symbol)
		}
	})

	t.Run("single page never sleeps", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tickerPage("A", 3, "")))
		}))
		defer srv.Close()

		sleeper := &recordingSleeper{}
		p := NewPager(NewClient(srv.URL, "secret"), 5, WithSleeper(sleeper.sleep), WithPagerLogger(discardLogger()))

		batch, err := p.FetchAll(context.Background(), DefaultTickerQuery())
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if batch.Len() != 3 {
			t.Errorf("Len() = %d, want 3", batch.Len())
		}
		if len(sleeper.calls) != 0 {
			t.Errorf("sleeps = %v, want none", sleeper.calls)
		}
	})

	t.Run("empty result set", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"OK","results":[]}`))
		}))
		defer srv.Close()

		p := NewPager(NewClient(srv.URL, "secret"), 5, WithSleeper((&recordingSleeper{}).sleep), WithPagerLogger(discardLogger()))
		batch, err := p.FetchAll(context.Background(), DefaultTickerQuery())
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if batch.Len() != 0 || batch.Pages() != 1 {
			t.Errorf("Len() = %d Pages() = %d, want 0 and 1", batch.Len(), batch.Pages())
		}
	})

	t.Run("error mid-stream keeps partial batch", func(t *testing.T) {
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("cursor") {
			case "":
				w.Write([]byte(tickerPage("A", 1000, srv.URL+"/v3/reference/tickers?cursor=p2")))
			case "p2":
				w.Write([]byte(tickerPage("B", 1000, srv.URL+"/v3/reference/tickers?cursor=p3")))
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer srv.Close()

		sleeper := &recordingSleeper{}
		p := NewPager(NewClient(srv.URL, "secret"), 5, WithSleeper(sleeper.sleep), WithPagerLogger(discardLogger()))

		batch, err := p.FetchAll(context.Background(), DefaultTickerQuery())
		var upErr *UpstreamError
		if !errors.As(err, &upErr) {
			t.Fatalf("error = %v, want *UpstreamError", err)
		}
		if upErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want 500", upErr.StatusCode)
		}
		if batch.Len() != 2000 {
			t.Errorf("Len() = %d, want 2000", batch.Len())
		}
		if len(sleeper.calls) != 2 {
			t.Errorf("sleeps = %d, want 2", len(sleeper.calls))
		}
	})

	t.Run("missing api key makes no request", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		defer srv.Close()

		p := NewPager(NewClient(srv.URL, ""), 5, WithPagerLogger(discardLogger()))
		batch, err := p.FetchAll(context.Background(), DefaultTickerQuery())
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("error = %v, want ErrMissingAPIKey", err)
		}
		if batch.Len() != 0 {
			t.Errorf("Len() = %d, want 0", batch.Len())
		}
		if requests.Load() != 0 {
			t.Errorf("requests = %d, want 0", requests.Load())
		}
	})

	t.Run("cancelled during wait", func(t *testing.T) {
		var srv *httptest.Server
		var requests atomic.Int32
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.Write([]byte(tickerPage("A", 2, srv.URL+"/v3/reference/tickers?cursor=p2")))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		p := NewPager(NewClient(srv.URL, "secret"), 5,
			WithSleeper(func(ctx context.Context, d time.Duration) error {
				cancel()
				return sleepContext(ctx, d)
			}),
			WithPagerLogger(discardLogger()),
		)

		batch, err := p.FetchAll(ctx, DefaultTickerQuery())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if batch.Len() != 2 {
			t.Errorf("Len() = %d, want 2", batch.Len())
		}
		if requests.Load() != 1 {
			t.Errorf("requests = %d, want 1", requests.Load())
		}
	})
}
