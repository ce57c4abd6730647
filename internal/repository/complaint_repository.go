package repository

import (
	"context"
	"time"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/prometheus"

	"gorm.io/gorm"
)

// ComplaintRepository stores citizen complaints
type ComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a ComplaintRepository
func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create inserts a complaint
func (r *ComplaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	defer prometheus.TrackDBOperation("create_complaint")(time.Now())
	return translate(r.db.WithContext(ctx).Create(complaint).Error, "complaint")
}

// FindByID returns one complaint
func (r *ComplaintRepository) FindByID(ctx context.Context, id uint) (*model.Complaint, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var complaint model.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		return nil, translate(err, "complaint")
	}
	return &complaint, nil
}

// ListByUser returns the user's complaints, newest first
func (r *ComplaintRepository) ListByUser(ctx context.Context, userID uint) ([]model.Complaint, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var complaints []model.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, translate(err, "complaint")
}

// ListAll returns every complaint, optionally of one status, with submitters
func (r *ComplaintRepository) ListAll(ctx context.Context, status model.ComplaintStatus) ([]model.Complaint, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Preload("User", ownerSummary)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var complaints []model.Complaint
	err := query.Order("created_at DESC").Find(&complaints).Error
	return complaints, translate(err, "complaint")
}

// UpdateStatus moves a complaint from one status to another. A concurrent
// change that already moved the complaint away from from is an invalid transition.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id uint, from, to model.ComplaintStatus) error {
	defer prometheus.TrackDBOperation("update_complaint")(time.Now())

	result := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return translate(result.Error, "complaint")
	}
	if result.RowsAffected == 0 {
		return apperror.ErrInvalidTransition
	}
	return nil
}
