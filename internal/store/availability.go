package store

import (
	"context"

	"maintenance-orchestrator/internal/model"
)

func (s *gormStore) CreateAvailability(ctx context.Context, slots []model.TechnicianAvailability) error {
	if len(slots) == 0 {
		return nil
	}
	return wrapWrite(s.db.WithContext(ctx).Omit("Technician").Create(&slots).Error, "create availability")
}

func (s *gormStore) ListAvailability(ctx context.Context, technicianID int64, fromDate, toDate string) ([]model.TechnicianAvailability, error) {
	var slots []model.TechnicianAvailability
	err := s.db.WithContext(ctx).
		Where("technician_id = ? AND work_date >= ? AND work_date <= ?", technicianID, fromDate, toDate).
		Order("work_date, start_minute, id").
		Find(&slots).Error
	return slots, wrapWrite(err, "list availability")
}

// ListSlots returns every AVAILABLE or BUSY slot of an active technician in
// the date range, with the technician and their skills preloaded.
func (s *gormStore) ListSlots(ctx context.Context, fromDate, toDate string) ([]model.TechnicianAvailability, error) {
	var slots []model.TechnicianAvailability
	err := s.db.WithContext(ctx).
		Preload("Technician.Skills").
		Joins("JOIN technicians t ON t.id = technician_availabilities.technician_id").
		Where("t.active = ?", true).
		Where("technician_availabilities.work_date >= ? AND technician_availabilities.work_date <= ?", fromDate, toDate).
		Where("technician_availabilities.status IN ?", []model.AvailabilityStatus{model.SlotAvailable, model.SlotBusy}).
		Order("technician_availabilities.work_date, technician_availabilities.start_minute, technician_availabilities.technician_id").
		Find(&slots).Error
	return slots, wrapWrite(err, "list availability slots")
}

func (s *gormStore) GetSlot(ctx context.Context, id int64) (*model.TechnicianAvailability, error) {
	var slot model.TechnicianAvailability
	if err := s.first(ctx, &slot, "availability slot", id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// SetSlotStatus claims or releases a slot.
func (s *gormStore) SetSlotStatus(ctx context.Context, id int64, from, to model.AvailabilityStatus) error {
	return s.compareAndSet(ctx, &model.TechnicianAvailability{}, id, map[string]any{"status": to},
		"availability slot", "status = ?", from)
}
