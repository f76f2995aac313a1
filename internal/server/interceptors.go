package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/sportly/internal/auth"
	"github.com/oggyb/sportly/internal/logger"
)

// publicPrefixes lists methods callable without a bearer token.
var publicPrefixes = []string{
	"/grpc.health.v1.Health/",
}

// LoggingInterceptor attaches a request-scoped logger to the context and
// logs method, status code and latency once the handler returns.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqLog := log.With("method", info.FullMethod)
		ctx = logger.IntoContext(ctx, reqLog)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelInfo
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
			level = slog.LevelError
		default:
			level = slog.LevelWarn
		}
		reqLog.Log(ctx, level, "grpc request", "code", code.String(), "duration", time.Since(start))
		return resp, err
	}
}

// AuthInterceptor verifies the "authorization: Bearer <jwt>" metadata and
// stores the caller's identity in the context.
func AuthInterceptor(tokens *auth.Manager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublic(info.FullMethod) {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		raw := bearerToken(md.Get("authorization"))
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = auth.WithIdentity(ctx, auth.Identity{UserID: claims.UserID, Role: claims.Role})
		return handler(ctx, req)
	}
}

func bearerToken(values []string) string {
	for _, v := range values {
		scheme, token, ok := strings.Cut(strings.TrimSpace(v), " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

func isPublic(fullMethod string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(fullMethod, p) {
			return true
		}
	}
	return false
}
