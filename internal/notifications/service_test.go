package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tidy/internal/config"
	"tidy/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyMoveFailed(context.Background(), "/watch/file.jpg", errors.New("boom")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "watch started",
			notify: func(svc notifications.Service) error {
				return svc.NotifyWatchStarted(context.Background(), "/home/user/Inbox")
			},
			expectTitle:   "Tidy - Watching",
			expectMessage: "Watching for new files in /home/user/Inbox",
			expectTags:    "tidy,watch,started",
		},
		{
			name: "move failed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyMoveFailed(context.Background(), "/home/user/Inbox/report.pdf", errors.New("permission denied"))
			},
			expectTitle:    "Tidy - Move Failed",
			expectMessage:  "Failed to move /home/user/Inbox/report.pdf: permission denied",
			expectTags:     "tidy,move,error",
			expectPriority: "high",
		},
		{
			name: "sweep completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifySweepCompleted(context.Background(), 5, 2, 0, 3*time.Second)
			},
			expectTitle:   "Tidy - Sweep Complete",
			expectMessage: "Sweep complete: 5 moved, 2 skipped in 3s",
			expectTags:    "tidy,sweep,completed",
		},
		{
			name: "sweep completed with failures",
			notify: func(svc notifications.Service) error {
				return svc.NotifySweepCompleted(context.Background(), 4, 0, 1, 0)
			},
			expectTitle:   "Tidy - Sweep Complete (with errors)",
			expectMessage: "Sweep complete: 4 moved, 0 skipped, 1 failed in 0s",
			expectTags:    "tidy,sweep,completed",
		},
		{
			name: "test notification",
			notify: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "Tidy - Test",
			expectMessage:  "Notification system test",
			expectTags:     "tidy,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled notification: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Watch = false
	cfg.Notifications.MoveFailures = false
	cfg.Notifications.Sweep = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyWatchStarted(context.Background(), "/watch"); err != nil {
		t.Fatalf("expected nil for disabled watch notification, got %v", err)
	}
	if err := svc.NotifyMoveFailed(context.Background(), "/watch/x.jpg", errors.New("boom")); err != nil {
		t.Fatalf("expected nil for disabled move notification, got %v", err)
	}
	if err := svc.NotifySweepCompleted(context.Background(), 1, 0, 0, time.Second); err != nil {
		t.Fatalf("expected nil for disabled sweep notification, got %v", err)
	}
}

func TestNtfyServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx ntfy response")
	}
}
