package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadradar/internal/config"
	"leadradar/internal/signals"
)

const userAgent = "leadradar/0.1.0"

// Service defines the alerts the application emits.
type Service interface {
	NotifyHotLead(ctx context.Context, sig signals.Signal) error
	NotifyScanCompleted(ctx context.Context, found, stored, hot int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notifier backed by ntfy when a topic is configured and
// a no-op otherwise.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether svc actually delivers alerts.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
	click    string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyHotLead(ctx context.Context, sig signals.Signal) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "🔥 %s", strings.TrimSpace(sig.Name))
	if role := strings.TrimSpace(sig.RoleCompany); role != "" {
		fmt.Fprintf(&builder, " (%s)", role)
	}
	if trigger := strings.TrimSpace(sig.Trigger); trigger != "" {
		fmt.Fprintf(&builder, "\n%s", trigger)
	}
	if location := strings.TrimSpace(sig.Location); location != "" {
		fmt.Fprintf(&builder, "\n📍 %s", location)
	}
	data := payload{
		title:    "leadradar - Hot Lead",
		message:  builder.String(),
		tags:     []string{"leadradar", "lead", string(sig.Source)},
		priority: "high",
		click:    strings.TrimSpace(sig.SourceURL),
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyScanCompleted(ctx context.Context, found, stored, hot int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	message := fmt.Sprintf("Scan complete: %d of %d signals stored in %s", stored, found, duration)
	if hot > 0 {
		message = fmt.Sprintf("%s\n%d high-temperature lead(s)", message, hot)
	}
	data := payload{
		title:   "leadradar - Scan Complete",
		message: message,
		tags:    []string{"leadradar", "scan", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "leadradar - Error",
		message:  builder.String(),
		tags:     []string{"leadradar", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "leadradar - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"leadradar", "test"},
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
	if data.click != "" {
		req.Header.Set("Click", data.click)
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

func (noopService) NotifyHotLead(context.Context, signals.Signal) error { return nil }
func (noopService) NotifyScanCompleted(context.Context, int, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
