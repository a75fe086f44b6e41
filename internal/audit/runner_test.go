package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
)

func batchPage(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html lang="en"><head><title>Page %s</title></head><body><h1>Page %s</h1><p>Body text for page %s.</p></body></html>`, name, name, name)
}

func newBatchServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/boom") {
			http.Error(w, "broken", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(batchPage(r.URL.Path)))
	}))
}

func newBatchRunner() *Runner {
	client := fetch.NewClient(fetch.Options{Timeout: 5 * time.Second})
	return &Runner{
		Auditor:     New(client, nil),
		Concurrency: 4,
		RateLimit:   1000,
	}
}

func TestRunnerPreservesInputOrder(t *testing.T) {
	srv := newBatchServer(t)
	defer srv.Close()

	var targets []Target
	for i := 0; i < 8; i++ {
		targets = append(targets, Target{URL: fmt.Sprintf("%s/page-%d", srv.URL, i)})
	}

	results := newBatchRunner().Run(context.Background(), targets)
	if len(results) != len(targets) {
		t.Fatalf("results = %d, want %d", len(results), len(targets))
	}
	for i, tr := range results {
		if tr.Target.URL != targets[i].URL {
			t.Errorf("result %d is for %s, want %s", i, tr.Target.URL, targets[i].URL)
		}
		if tr.Result == nil {
			t.Errorf("result %d missing audit result: %v", i, tr.Error)
		}
	}
}

func TestRunnerIsolatesFailures(t *testing.T) {
	srv := newBatchServer(t)
	defer srv.Close()

	targets := []Target{
		{URL: srv.URL + "/ok-1"},
		{URL: srv.URL + "/boom"},
		{URL: srv.URL + "/ok-2"},
	}

	results := newBatchRunner().Run(context.Background(), targets)

	if results[0].Error != nil || results[2].Error != nil {
		t.Errorf("healthy targets failed: %v / %v", results[0].Error, results[2].Error)
	}
	failed := results[1]
	if failed.Result != nil {
		t.Error("failed target should not carry a result")
	}
	if failed.Error == nil {
		t.Fatal("failed target should carry an error")
	}
	if failed.Error.Type != "fetch" {
		t.Errorf("error type = %q, want fetch", failed.Error.Type)
	}
	if failed.Duration <= 0 {
		t.Error("duration not recorded for failed target")
	}
}

func TestRunnerReportsProgress(t *testing.T) {
	srv := newBatchServer(t)
	defer srv.Close()

	var targets []Target
	for i := 0; i < 5; i++ {
		targets = append(targets, Target{URL: fmt.Sprintf("%s/p%d", srv.URL, i)})
	}

	var counts []int
	runner := newBatchRunner()
	runner.OnProgress = func(completed, total int, tr TargetResult) {
		if total != len(targets) {
			t.Errorf("total = %d, want %d", total, len(targets))
		}
		counts = append(counts, completed)
	}
	runner.Run(context.Background(), targets)

	if len(counts) != len(targets) {
		t.Fatalf("progress fired %d times, want %d", len(counts), len(targets))
	}
	for i, got := range counts {
		if got != i+1 {
			t.Errorf("completed[%d] = %d, want %d", i, got, i+1)
		}
	}
}

func TestRunnerHonorsConcurrencyBound(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		_, _ = w.Write([]byte(batchPage(r.URL.Path)))
	}))
	defer srv.Close()

	client := fetch.NewClient(fetch.Options{Timeout: 5 * time.Second})
	runner := &Runner{Auditor: New(client, nil), Concurrency: 2, RateLimit: 1000}

	var targets []Target
	for i := 0; i < 6; i++ {
		targets = append(targets, Target{URL: fmt.Sprintf("%s/c%d", srv.URL, i)})
	}
	runner.Run(context.Background(), targets)

	if peak > 2 {
		t.Errorf("peak in-flight = %d, want at most 2", peak)
	}
}

func TestRunnerPerTargetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(batchPage("slow")))
	}))
	defer srv.Close()

	client := fetch.NewClient(fetch.Options{Timeout: 5 * time.Second})
	runner := &Runner{
		Auditor:     New(client, nil),
		Concurrency: 1,
		RateLimit:   1000,
		Timeout:     50 * time.Millisecond,
	}

	results := runner.Run(context.Background(), []Target{{URL: srv.URL}})
	if results[0].Error == nil {
		t.Fatal("expected timeout error")
	}
	if results[0].Error.Type != "fetch" {
		t.Errorf("error type = %q, want fetch", results[0].Error.Type)
	}
}
