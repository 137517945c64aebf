package store

import (
	"context"

	"gorm.io/gorm/clause"

	"maintenance-orchestrator/internal/model"
)

func (s *gormStore) ListSubscriptions(ctx context.Context, technicianID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).Where("technician_id = ?", technicianID).Find(&subs).Error
	return subs, wrapWrite(err, "list push subscriptions")
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if err := translate(err, "subscription", endpoint); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"technician_id", "p256dh", "auth"}),
	}).Create(sub).Error
	return wrapWrite(err, "save push subscription")
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	return wrapWrite(err, "delete push subscription")
}
