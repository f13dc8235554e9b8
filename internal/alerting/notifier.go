package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ge-lookup/internal/health"
)

// Notification captures one source status transition.
type Notification struct {
	Source Source
	From   Status
	To     Status
	At     time.Time
}

// Source and Status alias the health package types so notifier callers do
// not need a second import.
type (
	Source = health.Source
	Status = health.Status
)

// Notifier delivers source outage and recovery notices.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes notices through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls the sendMessage API with a rendered status notice.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().
		Str("source", string(note.Source)).
		Str("to", string(note.To)).
		Msg("status notice sent (Telegram)")
	return nil
}

func renderMessage(note Notification) string {
	builder := strings.Builder{}
	if note.To == health.StatusOffline {
		builder.WriteString("[ge-lookup] source outage\n")
	} else {
		builder.WriteString("[ge-lookup] source recovered\n")
	}
	builder.WriteString(fmt.Sprintf("Source: %s\n", note.Source))
	builder.WriteString(fmt.Sprintf("Status: %s -> %s\n", note.From, note.To))
	builder.WriteString(fmt.Sprintf("At: %s UTC\n", note.At.UTC().Format(time.RFC3339)))
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)

// StatusNotifier adapts a Notifier into a health transition listener with a
// per-source cooldown, so a flapping source does not spam the channel.
type StatusNotifier struct {
	notifier Notifier
	cooldown time.Duration
	logger   zerolog.Logger

	mu       sync.Mutex
	lastSent map[Source]time.Time
}

// NewStatusNotifier wraps a notifier with cooldown handling.
func NewStatusNotifier(notifier Notifier, cooldown time.Duration, logger zerolog.Logger) *StatusNotifier {
	return &StatusNotifier{
		notifier: notifier,
		cooldown: cooldown,
		logger:   logger.With().Str("component", "status_notifier").Logger(),
		lastSent: make(map[Source]time.Time),
	}
}

// OnTransition satisfies health.TransitionFunc. Transitions out of pending
// are initial load results, not outages, and are skipped unless offline.
func (s *StatusNotifier) OnTransition(ctx context.Context, source Source, from, to Status) {
	if from == health.StatusPending && to == health.StatusOnline {
		return
	}

	now := time.Now()
	s.mu.Lock()
	if last, ok := s.lastSent[source]; ok && now.Sub(last) < s.cooldown {
		s.mu.Unlock()
		return
	}
	s.lastSent[source] = now
	s.mu.Unlock()

	note := Notification{Source: source, From: from, To: to, At: now}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("source", string(source)).Msg("failed to dispatch status notice")
	}
}
