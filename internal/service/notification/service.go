package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount    int           // default: 2
	QueueSize      int           // default: 1000
	PublishTimeout time.Duration // default: 5 seconds
}

type service struct {
	hub    *sse.Hub
	remote notification.Remote
	config Config

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates the dashboard event pipeline. With a remote,
// events travel through it and reach local subscribers via Deliver; without
// one they go straight to the hub.
func NewNotificationService(hub *sse.Hub, remote notification.Remote, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	s := &service{
		hub:    hub,
		remote: remote,
		config: cfg,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"queue_size", cfg.QueueSize,
		"remote", remote != nil,
	)

	return s
}

// Emit queues the event without waiting for delivery.
func (s *service) Emit(ctx context.Context, event notification.Event) error {
	if event.CompanyID == "" {
		return notification.ErrInvalidEvent
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	select {
	case <-s.stopCh:
		return notification.ErrSinkStopped
	default:
	}

	select {
	case s.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.deliver(event)
		case <-s.stopCh:
			for {
				select {
				case event := <-s.queue:
					s.deliver(event)
				default:
					slog.Debug("notification worker stopped", "worker", id)
					return
				}
			}
		}
	}
}

func (s *service) deliver(event notification.Event) {
	if s.remote == nil {
		s.publishLocal(event)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to encode dashboard event", "event_id", event.ID, "error", err)
		s.publishLocal(event)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.PublishTimeout)
	defer cancel()

	if err := s.remote.Publish(ctx, payload); err != nil {
		slog.Warn("remote publish failed, delivering locally",
			"event_id", event.ID,
			"company_id", event.CompanyID,
			"error", err,
		)
		s.publishLocal(event)
	}
}

// Deliver implements notification.Service.
func (s *service) Deliver(payload []byte) {
	var event notification.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.Warn("dropping malformed dashboard event", "error", err)
		return
	}
	s.publishLocal(event)
}

func (s *service) publishLocal(event notification.Event) {
	s.hub.Publish(notification.DashboardTopic(event.CompanyID), sse.Event{
		Event: string(event.Type),
		Data:  event,
	})
}

// Subscribe implements notification.Service.
func (s *service) Subscribe(companyID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(notification.DashboardTopic(companyID))
}

// Stop implements notification.Service.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	slog.Info("notification service stopped")
}
