// Package servertest boots the full gRPC stack in-process for tests:
// seeded in-memory SQLite, miniredis, JWT auth and a bufconn listener.
package servertest

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/auth"
	"github.com/oggyb/sportly/internal/cache"
	"github.com/oggyb/sportly/internal/config"
	"github.com/oggyb/sportly/internal/db"
	"github.com/oggyb/sportly/internal/logger"
	"github.com/oggyb/sportly/internal/server"
)

// Env is a running test server and its backing stores.
type Env struct {
	AppCtx *app.AppContext
	Tokens *auth.Manager
	Redis  *miniredis.Miniredis
	Conn   *grpc.ClientConn
	// Users holds the seeded fixtures keyed by email.
	Users map[string]db.User

	t testing.TB
}

// New seeds the fixtures for the UTC day of now, pins every clock to now
// and serves the registrars returned by register.
func New(t testing.TB, now time.Time, register func(env *Env) []server.Registrar) *Env {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{NowFunc: db.NowFunc})
	require.NoError(t, err)
	require.NoError(t, db.Prepare(database))

	seeded, err := db.SeedTestData(database, now.UTC().Format(time.DateOnly))
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.App.ENV = "development"
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Quota.Timezone = "UTC"

	clock := func() time.Time { return now }
	appCtx := app.New(cfg, database, cache.NewRedisCache(cfg), logger.Discard())
	appCtx.Now = clock

	env := &Env{
		AppCtx: appCtx,
		Tokens: auth.NewManager(cfg).WithClock(clock),
		Redis:  mr,
		Users:  map[string]db.User{},
		t:      t,
	}
	for _, u := range seeded.Users {
		env.Users[u.Email] = u
	}

	lis := bufconn.Listen(1 << 20)
	srv := server.NewGRPCServer(appCtx, env.Tokens, register(env)...)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	env.Conn = conn

	return env
}

// ID returns the seeded user id for email.
func (e *Env) ID(email string) string {
	u, ok := e.Users[email]
	require.True(e.t, ok, "no fixture user %s", email)
	return u.ID
}

// As returns ctx carrying a bearer token for the fixture user email.
func (e *Env) As(ctx context.Context, email string) context.Context {
	e.t.Helper()
	u, ok := e.Users[email]
	require.True(e.t, ok, "no fixture user %s", email)

	token, _, err := e.Tokens.Issue(u.ID, u.Role)
	require.NoError(e.t, err)
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}
