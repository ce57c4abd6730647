package service

import (
	"context"
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/logger"
	"waste-service/pkg/media"
	"waste-service/prometheus"

	"go.uber.org/zap"
)

// ComplaintInput carries a new complaint
type ComplaintInput struct {
	Title       string
	Description string
	Location    string
	Category    string
}

// ComplaintService handles citizen complaints
type ComplaintService struct {
	complaints ComplaintRepository
	uploader   media.Uploader
	dashboard  Invalidator
}

// NewComplaintService creates a ComplaintService
func NewComplaintService(complaints ComplaintRepository, uploader media.Uploader, dashboard Invalidator) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		uploader:   uploader,
		dashboard:  invalidatorOrNoop(dashboard),
	}
}

// CreateComplaint uploads the optional image and then records the complaint
func (s *ComplaintService) CreateComplaint(ctx context.Context, userID uint, in ComplaintInput, image *media.File) (*model.Complaint, error) {
	complaint := &model.Complaint{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Category:    strings.TrimSpace(in.Category),
		Status:      model.ComplaintPending,
	}

	switch {
	case complaint.Title == "":
		return nil, apperror.Validation("title is required")
	case complaint.Description == "":
		return nil, apperror.Validation("description is required")
	case complaint.Location == "":
		return nil, apperror.Validation("location is required")
	case !contains(model.ComplaintCategories, complaint.Category):
		return nil, apperror.Validation("category must be one of %s", strings.Join(model.ComplaintCategories, ", "))
	}

	if image != nil {
		url, err := s.uploader.Upload(ctx, media.FolderComplaints, *image)
		if err != nil {
			return nil, uploadError(err)
		}
		complaint.ImageURL = url
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	prometheus.RecordComplaintOperation("create")
	logger.FromContext(ctx).Info("Complaint created",
		zap.Uint("complaint_id", complaint.ID),
		zap.String("category", complaint.Category),
		zap.Bool("has_image", complaint.ImageURL != ""))
	return complaint, nil
}

// ListMyComplaints returns the user's complaints
func (s *ComplaintService) ListMyComplaints(ctx context.Context, userID uint) ([]model.Complaint, error) {
	complaints, err := s.complaints.ListByUser(ctx, userID)
	if complaints == nil && err == nil {
		complaints = []model.Complaint{}
	}
	return complaints, err
}

// ListAllComplaints returns every complaint, optionally of one status
func (s *ComplaintService) ListAllComplaints(ctx context.Context, status string) ([]model.Complaint, error) {
	filter := model.ComplaintStatus(strings.TrimSpace(status))
	if filter != "" && !filter.Valid() {
		return nil, apperror.Validation("unknown complaint status %q", status)
	}

	complaints, err := s.complaints.ListAll(ctx, filter)
	if complaints == nil && err == nil {
		complaints = []model.Complaint{}
	}
	return complaints, err
}

// UpdateComplaintStatus moves a complaint forward; the same status is a no-op
func (s *ComplaintService) UpdateComplaintStatus(ctx context.Context, id uint, status model.ComplaintStatus) (*model.Complaint, error) {
	if !status.Valid() {
		return nil, apperror.Validation("status must be pending, verified or resolved")
	}

	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.Status == status {
		return complaint, nil
	}
	if status.IsBackwardsFrom(complaint.Status) {
		return nil, apperror.ErrInvalidTransition.WithMessage("cannot move complaint from %s back to %s", complaint.Status, status)
	}

	if err := s.complaints.UpdateStatus(ctx, id, complaint.Status, status); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	prometheus.RecordComplaintOperation("status_" + string(status))
	logger.FromContext(ctx).Info("Complaint status updated",
		zap.Uint("complaint_id", id),
		zap.String("from", string(complaint.Status)),
		zap.String("to", string(status)))

	complaint.Status = status
	return complaint, nil
}
