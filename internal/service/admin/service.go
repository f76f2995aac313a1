package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	adminv1 "github.com/oggyb/sportly/internal/api/admin"
	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/auth"
	"github.com/oggyb/sportly/internal/cache"
	"github.com/oggyb/sportly/internal/db"
	svcErr "github.com/oggyb/sportly/internal/errors"
	"github.com/oggyb/sportly/internal/logger"
	"github.com/oggyb/sportly/internal/quota"
	"github.com/oggyb/sportly/internal/repository"
	"github.com/oggyb/sportly/internal/utils/pagination"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Service implements the Admin gRPC API.
// Every method requires an active caller holding the ADMIN role.
type Service struct {
	appCtx       *app.AppContext
	ledger       *quota.Ledger
	userRepo     *repository.UserRepository
	quotaRepo    *repository.QuotaRepository
	settingsRepo *repository.SettingsRepository
}

// NewAdminService creates a new Admin service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (users, quota usage, settings repositories)
//   - RedisCache for the stats counters
//   - the quota ledger for the current ledger day
func NewAdminService(appCtx *app.AppContext, ledger *quota.Ledger) *Service {
	return &Service{
		appCtx:       appCtx,
		ledger:       ledger,
		userRepo:     repository.NewUserRepository(appCtx.DB),
		quotaRepo:    repository.NewQuotaRepository(appCtx.DB),
		settingsRepo: repository.NewSettingsRepository(appCtx.DB),
	}
}

// GetUsers lists users newest first, each with today's quota row.
//
// Behavior:
//   - limit 0 means 50; values above 100 are capped.
//   - Supports cursor-based pagination with pageToken.
func (s *Service) GetUsers(ctx context.Context, req *adminv1.GetUsersRequest) (*adminv1.GetUsersResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	limit := int(req.Limit)
	switch {
	case limit < 0:
		return nil, svcErr.InvalidArgument("limit must not be negative")
	case limit == 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}

	users, next, err := s.userRepo.List(ctx, req.PageToken, limit)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidToken) {
			return nil, svcErr.InvalidArgument(err.Error())
		}
		return nil, svcErr.Map(err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	usage, err := s.quotaRepo.ForDay(ctx, ids, s.ledger.Today())
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &adminv1.GetUsersResponse{
		Users:         make([]adminv1.UserSummary, 0, len(users)),
		NextPageToken: next,
	}
	for _, u := range users {
		summary := adminv1.UserSummary{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			Role:        string(u.Role),
			Plan:        string(u.Plan),
			IsActive:    u.IsActive,
			PhoneNumber: u.PhoneNumber,
			Bio:         u.Bio,
			CreatedAt:   u.CreatedAt,
		}
		if row, ok := usage[u.ID]; ok {
			summary.Usage = &adminv1.TodayUsage{
				Feature:      row.Feature,
				DailyCount:   row.DailyCount,
				MonthlyCount: row.MonthlyCount,
				TokensUsed:   row.TokensUsed,
			}
		}
		resp.Users = append(resp.Users, summary)
	}
	return resp, nil
}

// BanUser toggles the target's active flag and returns the new value.
// Admins cannot suspend their own account.
func (s *Service) BanUser(ctx context.Context, req *adminv1.BanUserRequest) (*adminv1.BanUserResponse, error) {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, svcErr.InvalidArgument("userId is required")
	}
	if req.UserID == caller.ID {
		return nil, svcErr.InvalidArgument("admins cannot ban themselves")
	}

	active, err := s.userRepo.ToggleActive(ctx, req.UserID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.invalidateStats(ctx)

	logger.FromContext(ctx, s.appCtx.Logger).Info("user active flag toggled",
		"admin_id", caller.ID, "user_id", req.UserID, "is_active", active)
	return &adminv1.BanUserResponse{UserID: req.UserID, IsActive: active}, nil
}

// UpdateUserPlan assigns one of FREE, PRO or PREMIUM.
func (s *Service) UpdateUserPlan(ctx context.Context, req *adminv1.UpdateUserPlanRequest) (*adminv1.UpdateUserPlanResponse, error) {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	plan := db.Plan(strings.ToUpper(strings.TrimSpace(req.Plan)))
	if !plan.Valid() {
		return nil, svcErr.InvalidArgument("plan must be FREE, PRO or PREMIUM")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, svcErr.InvalidArgument("userId is required")
	}

	if err := s.userRepo.UpdatePlan(ctx, req.UserID, plan); err != nil {
		return nil, svcErr.Map(err)
	}
	s.invalidateStats(ctx)

	logger.FromContext(ctx, s.appCtx.Logger).Info("user plan updated",
		"admin_id", caller.ID, "user_id", req.UserID, "plan", plan)
	return &adminv1.UpdateUserPlanResponse{UserID: req.UserID, Plan: string(plan)}, nil
}

// GetStats returns user counters and today's request total.
// Cache-first strategy for the user counters:
//  1. Attempts to read from Redis (admin:stats).
//  2. On miss or a broken entry, falls back to DB counts.
//  3. On DB fetch, updates Redis with the configured TTL.
//
// RequestsToday moves with every admitted request, so it is never cached.
func (s *Service) GetStats(ctx context.Context, _ *adminv1.GetStatsRequest) (*adminv1.StatsResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	resp, err := s.userCounters(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	requests, err := s.quotaRepo.TotalRequestsSince(ctx, s.ledger.Today())
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp.RequestsToday = requests
	return resp, nil
}

func (s *Service) userCounters(ctx context.Context) (*adminv1.StatsResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)

	var cached adminv1.StatsResponse
	if s.appCtx.RedisCache != nil {
		hit, err := s.appCtx.RedisCache.GetJSON(ctx, cache.KeyAdminStats, &cached)
		if err != nil {
			log.Warn("stats cache read failed", "err", err)
		} else if hit {
			cached.RequestsToday = 0
			return &cached, nil
		}
	}

	counts, err := s.userRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	resp := &adminv1.StatsResponse{
		TotalUsers:   counts.TotalUsers,
		BannedUsers:  counts.BannedUsers,
		PremiumUsers: counts.PremiumUsers,
	}

	if s.appCtx.RedisCache != nil {
		if err := s.appCtx.RedisCache.SetJSON(ctx, cache.KeyAdminStats, resp, s.appCtx.Config.Cache.StatsTTL); err != nil {
			log.Warn("stats cache write failed", "err", err)
		}
	}
	return resp, nil
}

// SeedDatabase destructively replaces all users, usage and settings with
// the fixture set. Refused outside development.
func (s *Service) SeedDatabase(ctx context.Context, _ *adminv1.SeedDatabaseRequest) (*adminv1.SeedDatabaseResponse, error) {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !s.appCtx.Config.IsDevelopment() {
		return nil, svcErr.Map(fmt.Errorf("%w: seeding is only available when APP_ENV=development", svcErr.ErrPermissionDenied))
	}

	res, err := db.SeedTestData(s.appCtx.DB.WithContext(ctx), s.ledger.Today())
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.invalidateStats(ctx)

	logger.FromContext(ctx, s.appCtx.Logger).Warn("database reseeded",
		"admin_id", caller.ID, "users_created", res.UsersCreated)
	return &adminv1.SeedDatabaseResponse{
		Message:      "database reseeded with fixture data",
		UsersCreated: int32(res.UsersCreated),
	}, nil
}

// GetSettings lists admin key/value settings.
func (s *Service) GetSettings(ctx context.Context, _ *adminv1.GetSettingsRequest) (*adminv1.GetSettingsResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.List(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &adminv1.GetSettingsResponse{Settings: make([]adminv1.Setting, 0, len(settings))}
	for _, st := range settings {
		resp.Settings = append(resp.Settings, adminv1.Setting{Key: st.Key, Value: st.Value, Description: st.Description})
	}
	return resp, nil
}

// requireAdmin loads the caller and checks that it is an active admin.
// A demoted or banned admin is refused even with an unexpired token.
func (s *Service) requireAdmin(ctx context.Context) (*db.User, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, svcErr.Map(svcErr.ErrUnauthorized)
	}
	if !id.IsAdmin() {
		return nil, svcErr.PermissionDenied("admin role required")
	}

	caller, err := s.userRepo.FindByID(ctx, id.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Map(svcErr.ErrUnauthorized)
	} else if err != nil {
		return nil, svcErr.Map(err)
	}
	if caller.Role != db.RoleAdmin || !caller.IsActive {
		return nil, svcErr.PermissionDenied("admin role required")
	}
	return caller, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.appCtx.RedisCache == nil {
		return
	}
	if err := s.appCtx.RedisCache.Del(ctx, cache.KeyAdminStats); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Warn("stats cache invalidation failed", "err", err)
	}
}
