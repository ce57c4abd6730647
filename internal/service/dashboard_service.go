package service

import (
	"context"
	"encoding/json"
	"time"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/internal/repository"
	"waste-service/pkg/cache"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecentLimit is the length of each "most recent" list on the dashboard
const RecentLimit = 5

// RoleCounts are user totals by role
type RoleCounts struct {
	Users    int64 `json:"users"`
	Business int64 `json:"business"`
	Admins   int64 `json:"admins"`
	Total    int64 `json:"total"`
}

// ComplaintCounts are complaint totals by status
type ComplaintCounts struct {
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Resolved int64 `json:"resolved"`
	Total    int64 `json:"total"`
}

// RecentComplaint is a complaint resolved to its submitter
type RecentComplaint struct {
	ID        uint                  `json:"id"`
	Title     string                `json:"title"`
	Category  string                `json:"category"`
	Location  string                `json:"location"`
	Status    model.ComplaintStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	User      *model.UserSummary    `json:"user,omitempty"`
}

// RecentUser is a newly registered account
type RecentUser struct {
	model.UserSummary
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// RecentPickup is a pickup request resolved to its owner
type RecentPickup struct {
	ID                uint               `json:"id"`
	WasteType         string             `json:"waste_type"`
	EstimatedQuantity float64            `json:"estimated_quantity"`
	PreferredDate     time.Time          `json:"preferred_date"`
	Status            model.PickupStatus `json:"status"`
	CreatedAt         time.Time          `json:"created_at"`
	User              *model.UserSummary `json:"user,omitempty"`
}

// DashboardSnapshot is every admin statistic computed at one point in time
type DashboardSnapshot struct {
	Users            RoleCounts                 `json:"users"`
	Complaints       ComplaintCounts            `json:"complaints"`
	Fleet            repository.FleetCounts     `json:"fleet"`
	Pickups          repository.PickupCounts    `json:"pickups"`
	UsersPerWard     []repository.WardUserCount `json:"users_per_ward"`
	RouteCoverage    []repository.WardCoverage  `json:"route_coverage"`
	RecentComplaints []RecentComplaint          `json:"recent_complaints"`
	RecentUsers      []RecentUser               `json:"recent_users"`
	RecentPickups    []RecentPickup             `json:"recent_pickups"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// DashboardService computes the admin dashboard
type DashboardService struct {
	stats DashboardRepository
	cache cache.SnapshotCache
	now   func() time.Time
}

// NewDashboardService creates a DashboardService; a nil cache disables caching
func NewDashboardService(stats DashboardRepository, snapshots cache.SnapshotCache) *DashboardService {
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	return &DashboardService{stats: stats, cache: snapshots, now: time.Now}
}

// GetDashboardSnapshot returns the cached snapshot or computes a fresh one
func (s *DashboardService) GetDashboardSnapshot(ctx context.Context) (*DashboardSnapshot, error) {
	log := logger.FromContext(ctx)

	if data, ok, err := s.cache.Get(ctx); err != nil {
		prometheus.RecordDashboardCache("error")
		log.Warn("Dashboard cache read failed", zap.Error(err))
	} else if ok {
		var snapshot DashboardSnapshot
		if err := json.Unmarshal(data, &snapshot); err == nil {
			prometheus.RecordDashboardCache("hit")
			return &snapshot, nil
		}
		log.Warn("Discarding undecodable dashboard cache entry")
	} else {
		prometheus.RecordDashboardCache("miss")
	}

	// read before computing so a write landing mid-compute keeps this snapshot out of the cache
	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		log.Warn("Dashboard cache generation read failed", zap.Error(genErr))
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		log.Error("Failed to compute dashboard", zap.Error(err))
		return nil, apperror.Aggregation(err)
	}

	if genErr != nil {
		return snapshot, nil
	}
	if data, err := json.Marshal(snapshot); err == nil {
		if err := s.cache.Set(ctx, generation, data); err != nil {
			log.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot after a write; failures are only logged
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.FromContext(ctx).Warn("Dashboard cache invalidation failed", zap.Error(err))
	}
}

// compute runs every read concurrently; the first failure cancels the rest
func (s *DashboardService) compute(ctx context.Context) (*DashboardSnapshot, error) {
	g, ctx := errgroup.WithContext(ctx)
	snapshot := &DashboardSnapshot{GeneratedAt: s.now().UTC()}

	g.Go(func() error {
		counts, err := s.stats.UserRoleCounts(ctx)
		if err != nil {
			return err
		}
		snapshot.Users = RoleCounts{
			Users:    counts[model.RoleUser],
			Business: counts[model.RoleBusiness],
			Admins:   counts[model.RoleAdmin],
		}
		for _, n := range counts {
			snapshot.Users.Total += n
		}
		return nil
	})

	g.Go(func() error {
		counts, err := s.stats.ComplaintStatusCounts(ctx)
		if err != nil {
			return err
		}
		snapshot.Complaints = ComplaintCounts{
			Pending:  counts[model.ComplaintPending],
			Verified: counts[model.ComplaintVerified],
			Resolved: counts[model.ComplaintResolved],
		}
		for _, n := range counts {
			snapshot.Complaints.Total += n
		}
		return nil
	})

	g.Go(func() error {
		fleet, err := s.stats.FleetCounts(ctx)
		snapshot.Fleet = fleet
		return err
	})

	g.Go(func() error {
		pickups, err := s.stats.PickupCounts(ctx)
		snapshot.Pickups = pickups
		return err
	})

	g.Go(func() error {
		wards, err := s.stats.UsersPerWard(ctx)
		snapshot.UsersPerWard = nonNil(wards)
		return err
	})

	g.Go(func() error {
		coverage, err := s.stats.RouteCoverage(ctx)
		snapshot.RouteCoverage = nonNil(coverage)
		return err
	})

	g.Go(func() error {
		complaints, err := s.stats.RecentComplaints(ctx, RecentLimit)
		if err != nil {
			return err
		}
		snapshot.RecentComplaints = make([]RecentComplaint, 0, len(complaints))
		for _, c := range complaints {
			snapshot.RecentComplaints = append(snapshot.RecentComplaints, RecentComplaint{
				ID:        c.ID,
				Title:     c.Title,
				Category:  c.Category,
				Location:  c.Location,
				Status:    c.Status,
				CreatedAt: c.CreatedAt,
				User:      summaryOf(c.User),
			})
		}
		return nil
	})

	g.Go(func() error {
		users, err := s.stats.RecentUsers(ctx, RecentLimit)
		if err != nil {
			return err
		}
		snapshot.RecentUsers = make([]RecentUser, 0, len(users))
		for _, u := range users {
			snapshot.RecentUsers = append(snapshot.RecentUsers, RecentUser{
				UserSummary: u.Summary(),
				Role:        u.Role,
				CreatedAt:   u.CreatedAt,
			})
		}
		return nil
	})

	g.Go(func() error {
		pickups, err := s.stats.RecentPickups(ctx, RecentLimit)
		if err != nil {
			return err
		}
		snapshot.RecentPickups = make([]RecentPickup, 0, len(pickups))
		for _, p := range pickups {
			snapshot.RecentPickups = append(snapshot.RecentPickups, RecentPickup{
				ID:                p.ID,
				WasteType:         p.WasteType,
				EstimatedQuantity: p.EstimatedQuantity,
				PreferredDate:     p.PreferredDate,
				Status:            p.Status,
				CreatedAt:         p.CreatedAt,
				User:              summaryOf(p.User),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func summaryOf(user *model.User) *model.UserSummary {
	if user == nil {
		return nil
	}
	summary := user.Summary()
	return &summary
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
