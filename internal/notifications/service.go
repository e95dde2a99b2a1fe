package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tidy/internal/config"
)

const userAgent = "Tidy-Go/0.1.0"

// Service defines the notification surface exposed to daemon components.
type Service interface {
	NotifyWatchStarted(ctx context.Context, watchDir string) error
	NotifyMoveFailed(ctx context.Context, sourcePath string, err error) error
	NotifySweepCompleted(ctx context.Context, moved, skipped, failed int, duration time.Duration) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		watchEnabled: cfg.Notifications.Watch,
		moveEnabled:  cfg.Notifications.MoveFailures,
		sweepEnabled: cfg.Notifications.Sweep,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	watchEnabled bool
	moveEnabled  bool
	sweepEnabled bool
}

func (n *ntfyService) NotifyWatchStarted(ctx context.Context, watchDir string) error {
	if !n.watchEnabled {
		return nil
	}
	watchDir = strings.TrimSpace(watchDir)
	data := payload{
		title:   "Tidy - Watching",
		message: fmt.Sprintf("Watching for new files in %s", watchDir),
		tags:    []string{"tidy", "watch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyMoveFailed(ctx context.Context, sourcePath string, err error) error {
	if !n.moveEnabled {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Failed to move ")
	builder.WriteString(strings.TrimSpace(sourcePath))
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Tidy - Move Failed",
		message:  builder.String(),
		tags:     []string{"tidy", "move", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySweepCompleted(ctx context.Context, moved, skipped, failed int, duration time.Duration) error {
	if !n.sweepEnabled {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if failed == 0 {
		title = "Tidy - Sweep Complete"
		message = fmt.Sprintf("Sweep complete: %d moved, %d skipped in %s", moved, skipped, durationText)
	} else {
		title = "Tidy - Sweep Complete (with errors)"
		message = fmt.Sprintf("Sweep complete: %d moved, %d skipped, %d failed in %s", moved, skipped, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"tidy", "sweep", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Tidy - Test",
		message:  "Notification system test",
		tags:     []string{"tidy", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyWatchStarted(context.Context, string) error { return nil }
func (noopService) NotifyMoveFailed(context.Context, string, error) error {
	return nil
}
func (noopService) NotifySweepCompleted(context.Context, int, int, int, time.Duration) error {
	return nil
}
func (noopService) TestNotification(context.Context) error { return nil }
