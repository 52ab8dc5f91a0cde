package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"supportbot/core/log"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
}

type webhookPoster func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// ErrorAlertMiddleware recovers panics in HTTP handlers and event tasks and reports them,
// together with task errors, to a Slack webhook
type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	post          webhookPoster
	now           func() time.Time
	pending       sync.WaitGroup
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
		post:          slack.PostWebhookContext,
		now:           time.Now,
	}
}

// HTTPMiddleware wraps HTTP handlers
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// WrapTask turns an event task into a worker pool job. A panic is recovered and alerted, a
// returned error is alerted with deduplication.
func (m *ErrorAlertMiddleware) WrapTask(taskName string, task func() error) func() {
	return func() {
		defer m.recoverAndAlert(taskName)

		if err := task(); err != nil {
			m.alertOnError(err, taskName)
		}
	}
}

// Wait blocks until alerts that are in flight have been sent
func (m *ErrorAlertMiddleware) Wait() {
	m.pending.Wait()
}

func (m *ErrorAlertMiddleware) alertOnError(err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	if lastAlert, exists := m.alertedErrors[hash]; exists && m.now().Sub(lastAlert) < m.alertCooldown {
		m.mutex.Unlock()
		return
	}
	m.alertedErrors[hash] = m.now()
	m.mutex.Unlock()

	m.sendAsync(errorMsg, source)
}

func (m *ErrorAlertMiddleware) recoverAndAlert(source string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", source, r)
		log.Error("❌ Recovered from panic", "context", source, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		m.sendAsync(errorMsg, source+" (PANIC)")
	}
}

func (m *ErrorAlertMiddleware) sendAsync(errorMsg, source string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		m.sendSlackAlert(errorMsg, source)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, source string) {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	header := slack.NewHeaderBlock(slack.NewTextBlockObject(
		slack.PlainTextType,
		fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
		true,
		false,
	))
	fields := slack.NewSectionBlock(nil, []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", source), false, false),
	}, nil)
	body := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
		nil,
		nil,
	)

	msg := &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{header, fields, body}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.post(ctx, m.config.WebhookURL, msg); err != nil {
		log.Error("❌ Failed to send Slack alert", "error", err)
	}
}
