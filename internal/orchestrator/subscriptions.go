package orchestrator

import (
	"context"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
)

// SubscriptionInput is a browser push subscription as produced by the
// PushManager API.
type SubscriptionInput struct {
	Endpoint string `json:"endpoint" validate:"required,url,max=2048"`
	P256DH   string `json:"p256dh" validate:"required,max=255"`
	Auth     string `json:"auth" validate:"required,max=255"`
}

// SaveSubscription registers a browser for a technician's notices. An
// endpoint already registered to someone else moves to this technician.
func (o *Orchestrator) SaveSubscription(ctx context.Context, technicianID int64, in SubscriptionInput) (*model.PushSubscription, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}
	if _, err := o.store.GetTechnician(ctx, technicianID); err != nil {
		return nil, err
	}

	sub := &model.PushSubscription{
		Endpoint:     in.Endpoint,
		TechnicianID: technicianID,
		P256DH:       in.P256DH,
		Auth:         in.Auth,
		CreatedAt:    o.now(),
	}
	if err := o.store.UpsertSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscription returns the technician's subscription for endpoint.
func (o *Orchestrator) GetSubscription(ctx context.Context, technicianID int64, endpoint string) (*model.PushSubscription, error) {
	if endpoint == "" {
		return nil, apperr.Validation("endpoint is required")
	}
	sub, err := o.store.GetSubscription(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if sub.TechnicianID != technicianID {
		return nil, apperr.NotFound("subscription not found")
	}
	return sub, nil
}

// DeleteSubscription stops pushing to endpoint.
func (o *Orchestrator) DeleteSubscription(ctx context.Context, technicianID int64, endpoint string) error {
	if _, err := o.GetSubscription(ctx, technicianID, endpoint); err != nil {
		return err
	}
	return o.store.DeleteSubscription(ctx, endpoint)
}
