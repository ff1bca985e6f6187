package jobqueue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEnqueueSetsQStashHeaders(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://scores.example.com",
		Retries:          3,
		InternalJobToken: "job-secret",
		Timeout:          2 * time.Second,
	}, nil)

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/score-live", "live-2026-01-15-12:05", 5*time.Minute)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if captured == nil {
		t.Fatal("no request reached the server")
	}
	if got := captured.URL.Path; got != "/v2/publish/https://scores.example.com/v1/internal/jobs/score-live" {
		t.Errorf("publish path = %q", got)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer qstash-token" {
		t.Errorf("Authorization = %q", got)
	}
	if got := captured.Header.Get("Upstash-Delay"); got != "300s" {
		t.Errorf("Upstash-Delay = %q", got)
	}
	if got := captured.Header.Get("Upstash-Deduplication-Id"); got != "live-2026-01-15-12:05" {
		t.Errorf("Upstash-Deduplication-Id = %q", got)
	}
	if got := captured.Header.Get("Upstash-Forward-X-Internal-Job-Token"); got != "job-secret" {
		t.Errorf("forward token = %q", got)
	}
	if got := captured.Header.Get("Upstash-Retries"); got != "3" {
		t.Errorf("Upstash-Retries = %q", got)
	}
}

func TestEnqueueRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		Token:         "qstash-token",
		TargetBaseURL: "https://scores.example.com",
	}, nil)
	if err := publisher.Enqueue(context.Background(), "  ", "id", 0); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestEnqueueRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "ftp://qstash.upstash.io",
		Token:         "qstash-token",
		TargetBaseURL: "https://scores.example.com",
	}, nil)
	if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/score-daily", "id", 0); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
