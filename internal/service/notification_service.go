package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/config"
	"github.com/spec-kit/kanban-board/internal/events"
)

// NotificationService reports board events to the log and, when configured,
// to a webhook. Webhook deliveries run in the background; failures are logged.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	deliveries sync.WaitGroup
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// Wait blocks until pending webhook deliveries have finished.
func (n *NotificationService) Wait() {
	n.deliveries.Wait()
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSnapshotReplaced, n.handleSnapshotReplaced)
	n.dispatcher.Subscribe(events.EventFetchFailed, n.handleFetchFailed)
	n.dispatcher.Subscribe(events.EventPreferencesChanged, n.handlePreferencesChanged)
}

func (n *NotificationService) handleSnapshotReplaced(_ context.Context, event events.Event) error {
	n.logger.Info("SnapshotReplaced", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return n.postWebhook(event)
}

func (n *NotificationService) handleFetchFailed(_ context.Context, event events.Event) error {
	n.logger.Warn("FetchFailed", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return n.postWebhook(event)
}

func (n *NotificationService) handlePreferencesChanged(_ context.Context, event events.Event) error {
	n.logger.Info("PreferencesChanged", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

// postWebhook encodes the event and hands it to a background delivery.
func (n *NotificationService) postWebhook(event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	n.deliveries.Add(1)
	go func() {
		defer n.deliveries.Done()
		if err := n.deliver(url, event, body); err != nil {
			n.logger.Warn("webhook delivery failed",
				zap.String("url", url),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}()
	return nil
}

func (n *NotificationService) deliver(url string, event events.Event, body []byte) error {
	agent := fiber.Post(url)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Body(body)
	if n.cfg.WebhookTimeoutSeconds > 0 {
		agent.Timeout(time.Duration(n.cfg.WebhookTimeoutSeconds) * time.Second)
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("post webhook: %w", errs[0])
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("post webhook: status %d", code)
	}
	n.logger.Debug("webhook delivered",
		zap.String("url", url),
		zap.String("event_type", string(event.Type)),
		zap.Int("status", code))
	return nil
}
