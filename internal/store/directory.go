package store

import (
	"context"

	"maintenance-orchestrator/internal/model"
)

func (s *gormStore) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	var d model.Device
	if err := s.first(ctx, &d, "device", id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *gormStore) ListDevices(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	err := s.db.WithContext(ctx).Order("id").Find(&devices).Error
	return devices, wrapWrite(err, "list devices")
}

func (s *gormStore) GetIssue(ctx context.Context, id int64) (*model.Issue, error) {
	var issue model.Issue
	err := s.db.WithContext(ctx).Preload("Skills").First(&issue, id).Error
	if err := translate(err, "issue", id); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *gormStore) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Employee{}).Where("id = ?", id).Count(&n).Error
	return n > 0, wrapWrite(err, "look up employee")
}

func (s *gormStore) CustomerExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Count(&n).Error
	return n > 0, wrapWrite(err, "look up customer")
}

func (s *gormStore) GetTechnician(ctx context.Context, id int64) (*model.Technician, error) {
	var t model.Technician
	err := s.db.WithContext(ctx).Preload("Skills").First(&t, id).Error
	if err := translate(err, "technician", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *gormStore) ListTechnicians(ctx context.Context) ([]model.Technician, error) {
	var techs []model.Technician
	err := s.db.WithContext(ctx).Preload("Skills").Order("id").Find(&techs).Error
	return techs, wrapWrite(err, "list technicians")
}

func (s *gormStore) GetShiftTemplate(ctx context.Context, id int64) (*model.ShiftTemplate, error) {
	var st model.ShiftTemplate
	if err := s.first(ctx, &st, "shift template", id); err != nil {
		return nil, err
	}
	return &st, nil
}
