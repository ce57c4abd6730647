package service

import (
	"context"
	"strings"
	"time"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"go.uber.org/zap"
)

// PickupInput carries a bulk pickup request
type PickupInput struct {
	Address           string
	WasteType         string
	EstimatedQuantity float64
	PreferredDate     time.Time
	Notes             string
}

// PickupService handles bulk pickup requests
type PickupService struct {
	pickups   PickupRepository
	dashboard Invalidator
	now       func() time.Time
}

// NewPickupService creates a PickupService
func NewPickupService(pickups PickupRepository, dashboard Invalidator) *PickupService {
	return &PickupService{
		pickups:   pickups,
		dashboard: invalidatorOrNoop(dashboard),
		now:       time.Now,
	}
}

// RequestPickup records a pending pickup request
func (s *PickupService) RequestPickup(ctx context.Context, userID uint, in PickupInput) (*model.PickupRequest, error) {
	address := strings.TrimSpace(in.Address)
	wasteType := strings.TrimSpace(in.WasteType)

	switch {
	case address == "":
		return nil, apperror.Validation("address is required")
	case !contains(model.WasteTypes, wasteType):
		return nil, apperror.Validation("waste type must be one of %s", strings.Join(model.WasteTypes, ", "))
	case in.EstimatedQuantity <= model.MinPickupQuantityKg:
		return nil, apperror.Validation("estimated quantity must be more than %d kg", model.MinPickupQuantityKg)
	case in.PreferredDate.IsZero():
		return nil, apperror.Validation("preferred date is required")
	}

	preferred := dateOf(in.PreferredDate)
	if preferred.Before(dateOf(s.now())) {
		return nil, apperror.Validation("preferred date cannot be in the past")
	}

	pickup := &model.PickupRequest{
		UserID:            userID,
		Address:           address,
		WasteType:         wasteType,
		EstimatedQuantity: in.EstimatedQuantity,
		PreferredDate:     preferred,
		Notes:             strings.TrimSpace(in.Notes),
		Status:            model.PickupPending,
	}
	if err := s.pickups.Create(ctx, pickup); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	prometheus.RecordFleetOperation("request_pickup")
	logger.FromContext(ctx).Info("Pickup requested",
		zap.Uint("pickup_id", pickup.ID),
		zap.String("waste_type", wasteType),
		zap.Float64("estimated_quantity", in.EstimatedQuantity))
	return pickup, nil
}

// ListMyPickups returns the user's requests
func (s *PickupService) ListMyPickups(ctx context.Context, userID uint) ([]model.PickupRequest, error) {
	pickups, err := s.pickups.ListByUser(ctx, userID)
	if pickups == nil && err == nil {
		pickups = []model.PickupRequest{}
	}
	return pickups, err
}

// ListAllPickups returns every request, optionally of one status
func (s *PickupService) ListAllPickups(ctx context.Context, status string) ([]model.PickupRequest, error) {
	filter := model.PickupStatus(strings.TrimSpace(status))
	switch filter {
	case "", model.PickupPending, model.PickupAssigned, model.PickupCompleted, model.PickupCancelled:
	default:
		return nil, apperror.Validation("unknown pickup status %q", status)
	}

	pickups, err := s.pickups.ListAll(ctx, filter)
	if pickups == nil && err == nil {
		pickups = []model.PickupRequest{}
	}
	return pickups, err
}

// dateOf truncates t to midnight UTC of its calendar day
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
