package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cricbid/auction-platform/internal/realtime"
)

func TestWebhookPublisherEnqueue(t *testing.T) {
	var gotPath, gotAuth, gotDedup, gotRetries string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDedup = r.Header.Get("Upstash-Deduplication-Id")
		gotRetries = r.Header.Get("Upstash-Retries")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		BaseURL:       server.URL,
		Token:         "queue-token",
		TargetBaseURL: "https://consumer.example.com",
		Retries:       3,
	}, nil)

	err := publisher.Enqueue(context.Background(), "/hooks/auction/completed",
		map[string]any{"auction_id": "auc-1"}, 0, "auc-1/completed/1")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/v2/publish/") {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	if !strings.Contains(gotPath, "consumer.example.com/hooks/auction/completed") {
		t.Fatalf("target url missing from publish path: %s", gotPath)
	}
	if gotAuth != "Bearer queue-token" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotDedup != "auc-1/completed/1" {
		t.Fatalf("unexpected deduplication id: %s", gotDedup)
	}
	if gotRetries != "3" {
		t.Fatalf("unexpected retries header: %s", gotRetries)
	}
	if !strings.Contains(string(gotBody), "auc-1") {
		t.Fatalf("payload missing from body: %s", gotBody)
	}
}

func TestWebhookPublisherRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		BaseURL:       server.URL,
		TargetBaseURL: "https://consumer.example.com",
	}, nil)

	if err := publisher.Enqueue(context.Background(), "/hooks/auction/completed", nil, 0, ""); err == nil {
		t.Fatal("expected an error for non-2xx publish")
	}
}

type recordingEnqueuer struct {
	mu    sync.Mutex
	paths []string
	done  chan struct{}
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, path string, _ any, _ time.Duration, _ string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	select {
	case r.done <- struct{}{}:
	default:
	}
	return nil
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish(string, realtime.Event) {}
func (nopBroadcaster) CloseRoom(string)               {}

func TestEventNotifierForwardsLifecycleEvents(t *testing.T) {
	queue := &recordingEnqueuer{done: make(chan struct{}, 1)}
	notifier := NewEventNotifier(nopBroadcaster{}, queue, nil)

	notifier.Publish("auction:auc-1", realtime.Event{
		Name: realtime.EventTimerTick,
		At:   time.Now(),
	})
	notifier.Publish("auction:auc-1", realtime.Event{
		Name: realtime.EventAuctionCompleted,
		At:   time.Now(),
	})

	select {
	case <-queue.done:
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not enqueued")
	}

	queue.mu.Lock()
	defer queue.mu.Unlock()
	if len(queue.paths) != 1 {
		t.Fatalf("only lifecycle events should enqueue webhooks: %v", queue.paths)
	}
	if queue.paths[0] != "/hooks/auction/completed" {
		t.Fatalf("unexpected webhook path: %s", queue.paths[0])
	}
}
