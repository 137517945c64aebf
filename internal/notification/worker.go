package notification

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers notices in the background. Dispatch never blocks the
// workflow: when the queue is full the notice is logged and dropped.
type WorkerPool struct {
	size    int
	jobs    chan Notice
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	audit   *log.Entry
}

// NewWorkerPool creates a new worker pool. A nil webpushOptions disables
// push delivery; audit logging still happens.
func NewWorkerPool(size, queueSize int, st store.Store, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Notice, queueSize),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		audit:   log.WithField("component", "audit"),
	}
}

// WithSender replaces the push transport.
func (wp *WorkerPool) WithSender(s NotificationSender) *WorkerPool {
	wp.sender = s
	return wp
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.WithField("worker", id).Debug("notification worker started")
	for {
		select {
		case n := <-wp.jobs:
			wp.handle(ctx, n)
		case <-ctx.Done():
			log.WithField("worker", id).Debug("notification worker shutting down")
			return
		}
	}
}

// Dispatch queues a notice for delivery.
func (wp *WorkerPool) Dispatch(n Notice) {
	select {
	case wp.jobs <- n:
	default:
		log.WithFields(log.Fields{
			"event":      n.Event,
			"request_id": n.RequestID,
		}).Warn("notification queue full; dropping notice")
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Notice {
	return wp.jobs
}

func (wp *WorkerPool) handle(ctx context.Context, n Notice) {
	wp.audit.WithFields(log.Fields{
		"event":         n.Event,
		"request_id":    n.RequestID,
		"technician_id": n.TechnicianID,
		"actor":         n.Actor,
	}).Info(n.Body)

	if n.TechnicianID == 0 || wp.webpush == nil || wp.store == nil {
		return
	}
	wp.pushToTechnician(ctx, n)
}

func (wp *WorkerPool) pushToTechnician(ctx context.Context, n Notice) {
	subscriptions, err := wp.store.ListSubscriptions(ctx, n.TechnicianID)
	if err != nil {
		log.WithError(err).WithField("technician_id", n.TechnicianID).Error("failed to load push subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.WithFields(log.Fields{
		"technician_id": n.TechnicianID,
		"count":         len(subscriptions),
	}).Debug("sending push notifications")

	payload := n.Payload()
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.WithError(err).WithField("endpoint", sub.Endpoint).Warn("failed to send push notification")
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed.
	if resp.StatusCode == http.StatusGone {
		log.WithField("endpoint", sub.Endpoint).Info("push subscription expired; deleting")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.WithError(err).WithField("endpoint", sub.Endpoint).Error("failed to delete expired subscription")
		}
	}
}
