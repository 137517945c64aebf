package store

import (
	"context"

	"maintenance-orchestrator/internal/model"
)

// AppendRejection inserts a rejection record. Records are never updated.
func (s *gormStore) AppendRejection(ctx context.Context, r *model.RejectionRecord) error {
	return wrapWrite(s.db.WithContext(ctx).Create(r).Error, "append rejection record")
}

func (s *gormStore) ListRejections(ctx context.Context, subject model.SubjectType, subjectID int64) ([]model.RejectionRecord, error) {
	var records []model.RejectionRecord
	err := s.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subject, subjectID).
		Order("rejected_at, id").
		Find(&records).Error
	return records, wrapWrite(err, "list rejection records")
}

func (s *gormStore) ListRequestRejections(ctx context.Context, requestID int64) ([]model.RejectionRecord, error) {
	var records []model.RejectionRecord
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("rejected_at, id").
		Find(&records).Error
	return records, wrapWrite(err, "list rejection records")
}
