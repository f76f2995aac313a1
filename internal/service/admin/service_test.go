package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	adminv1 "github.com/oggyb/sportly/internal/api/admin"
	"github.com/oggyb/sportly/internal/cache"
	"github.com/oggyb/sportly/internal/db"
	"github.com/oggyb/sportly/internal/quota"
	"github.com/oggyb/sportly/internal/server"
	"github.com/oggyb/sportly/internal/server/servertest"
	"github.com/oggyb/sportly/internal/service/admin"
)

const adminEmail = "admin@sportly.app"

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*servertest.Env, *adminv1.Client) {
	t.Helper()
	env := servertest.New(t, now, func(env *servertest.Env) []server.Registrar {
		ledger, err := quota.New(env.AppCtx)
		require.NoError(t, err)
		return []server.Registrar{admin.NewRegistrar(env.AppCtx, ledger)}
	})
	return env, adminv1.NewClient(env.Conn)
}

func metadataWithToken(t *testing.T, value string) context.Context {
	t.Helper()
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", value)
}

func TestAdminOnly(t *testing.T) {
	env, client := setup(t)

	_, err := client.GetStats(context.Background(), &adminv1.GetStatsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := env.As(context.Background(), "marie.coach@example.com")
	_, err = client.GetStats(ctx, &adminv1.GetStatsRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	ctx = metadataWithToken(t, "Bearer not-a-jwt")
	_, err = client.GetStats(ctx, &adminv1.GetStatsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGetUsers_PaginatesWithTodayUsage(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)

	first, err := client.GetUsers(ctx, &adminv1.GetUsersRequest{Limit: 5})
	require.NoError(t, err)
	require.Len(t, first.Users, 5)
	require.NotNil(t, first.NextPageToken)

	second, err := client.GetUsers(ctx, &adminv1.GetUsersRequest{Limit: 5, PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Users, 4)
	assert.Nil(t, second.NextPageToken)

	all, err := client.GetUsers(ctx, &adminv1.GetUsersRequest{})
	require.NoError(t, err)
	require.Len(t, all.Users, 9)

	for _, u := range all.Users {
		switch u.Email {
		case "luc.dupont@example.com":
			require.NotNil(t, u.Usage)
			assert.Equal(t, int64(15), u.Usage.DailyCount)
			assert.Equal(t, int64(8500), u.Usage.TokensUsed)
		case adminEmail:
			assert.Nil(t, u.Usage)
		}
	}

	bad := "%%%"
	_, err = client.GetUsers(ctx, &adminv1.GetUsersRequest{PageToken: &bad})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestBanUser_TogglesAndInvalidatesStats(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)

	stats, err := client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.BannedUsers)
	assert.True(t, env.Redis.Exists(cache.KeyAdminStats))

	john := env.ID("john.doe@example.com")
	resp, err := client.BanUser(ctx, &adminv1.BanUserRequest{UserID: john})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, env.Redis.Exists(cache.KeyAdminStats), "ban drops the cached stats")

	stats, err = client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.BannedUsers)

	resp, err = client.BanUser(ctx, &adminv1.BanUserRequest{UserID: john})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	_, err = client.BanUser(ctx, &adminv1.BanUserRequest{UserID: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.BanUser(ctx, &adminv1.BanUserRequest{UserID: env.ID(adminEmail)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetStats_ServedFromCache(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)

	require.NoError(t, env.Redis.Set(cache.KeyAdminStats, `{"totalUsers":42}`))

	stats, err := client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalUsers)
	assert.Equal(t, int64(3+12+5+8+15+20+2+10), stats.RequestsToday)

	env.Redis.Del(cache.KeyAdminStats)
	stats, err = client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(9), stats.TotalUsers)
	assert.Equal(t, int64(6), stats.PremiumUsers)
	assert.Equal(t, int64(3+12+5+8+15+20+2+10), stats.RequestsToday)
}

func TestGetStats_RequestsTodayIsLive(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)

	stats, err := client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	before := stats.RequestsToday
	require.True(t, env.Redis.Exists(cache.KeyAdminStats))

	ledger, err := quota.New(env.AppCtx)
	require.NoError(t, err)
	_, err = ledger.CheckAndUpdate(context.Background(), env.ID("john.doe@example.com"), db.SeedFeature, 10)
	require.NoError(t, err)

	stats, err = client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.True(t, env.Redis.Exists(cache.KeyAdminStats), "user counters stay cached")
	assert.Equal(t, before+1, stats.RequestsToday)
}

func TestUpdateUserPlan(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)
	john := env.ID("john.doe@example.com")

	resp, err := client.UpdateUserPlan(ctx, &adminv1.UpdateUserPlanRequest{UserID: john, Plan: "pro"})
	require.NoError(t, err)
	assert.Equal(t, "PRO", resp.Plan)

	stats, err := client.GetStats(ctx, &adminv1.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.PremiumUsers)

	_, err = client.UpdateUserPlan(ctx, &adminv1.UpdateUserPlanRequest{UserID: john, Plan: "GOLD"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.UpdateUserPlan(ctx, &adminv1.UpdateUserPlanRequest{UserID: "missing", Plan: "PRO"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSeedDatabase(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)
	john := env.ID("john.doe@example.com")

	_, err := client.BanUser(ctx, &adminv1.BanUserRequest{UserID: john})
	require.NoError(t, err)

	resp, err := client.SeedDatabase(ctx, &adminv1.SeedDatabaseRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(9), resp.UsersCreated)

	var users []db.User
	require.NoError(t, env.AppCtx.DB.Order("email").Find(&users).Error)
	require.Len(t, users, 9)

	var reseededAdmin db.User
	for _, u := range users {
		assert.NotEqual(t, john, u.ID, "old rows are gone")
		if u.Email == adminEmail {
			reseededAdmin = u
		}
	}

	// the old token names a deleted account
	_, err = client.GetSettings(ctx, &adminv1.GetSettingsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, _, err := env.Tokens.Issue(reseededAdmin.ID, reseededAdmin.Role)
	require.NoError(t, err)
	ctx = metadataWithToken(t, "Bearer "+token)

	env.AppCtx.Config.App.ENV = "production"
	_, err = client.SeedDatabase(ctx, &adminv1.SeedDatabaseRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestGetSettings(t *testing.T) {
	env, client := setup(t)
	ctx := env.As(context.Background(), adminEmail)

	resp, err := client.GetSettings(ctx, &adminv1.GetSettingsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Settings, 2)
	assert.Equal(t, "5", resp.Settings[0].Value)
}
