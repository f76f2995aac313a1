package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/sportly/internal/errors"
)

func TestMap_Codes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"unauthorized", fmt.Errorf("lookup: %w", svcErr.ErrUnauthorized), codes.Unauthenticated},
		{"permission", svcErr.ErrPermissionDenied, codes.PermissionDenied},
		{"not found", svcErr.ErrNotFound, codes.NotFound},
		{"gorm not found", gorm.ErrRecordNotFound, codes.NotFound},
		{"invalid", svcErr.ErrInvalidArgument, codes.InvalidArgument},
		{"unconfigured", svcErr.Unconfigured("database", "set DB_DSN"), codes.FailedPrecondition},
		{"upstream", svcErr.Upstream("openai", errors.New("boom")), codes.Unavailable},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"other", errors.New("disk on fire"), codes.Internal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, status.Code(svcErr.Map(tc.err)))
		})
	}
}

func TestMap_NilAndPassThrough(t *testing.T) {
	assert.NoError(t, svcErr.Map(nil))

	already := status.Error(codes.Aborted, "keep me")
	assert.Equal(t, already, svcErr.Map(already))
}

func TestMap_UnconfiguredKeepsHint(t *testing.T) {
	err := svcErr.Map(svcErr.Unconfigured("database", "run cmd/seed"))
	assert.Contains(t, status.Convert(err).Message(), "run cmd/seed")
}

func TestMap_UpstreamKeepsProviderMessage(t *testing.T) {
	err := svcErr.Map(svcErr.Upstream("openai", errors.New("model overloaded")))
	assert.Contains(t, status.Convert(err).Message(), "model overloaded")
}

func TestMap_RateLimitedDetails(t *testing.T) {
	rl := &svcErr.RateLimitedError{
		UserID:   "u1",
		Feature:  "ai.generate",
		Plan:     "FREE",
		Boundary: svcErr.BoundaryDaily,
		Limit:    5,
		// Far from the wall clock; the delay must come from RetryAfter.
		ResetAt:    time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		RetryAfter: 3*time.Hour + 400*time.Millisecond,
	}

	st := status.Convert(svcErr.Map(fmt.Errorf("check: %w", rl)))
	require.Equal(t, codes.ResourceExhausted, st.Code())

	var info *errdetails.ErrorInfo
	var failure *errdetails.QuotaFailure
	var retry *errdetails.RetryInfo
	for _, d := range st.Details() {
		switch v := d.(type) {
		case *errdetails.ErrorInfo:
			info = v
		case *errdetails.QuotaFailure:
			failure = v
		case *errdetails.RetryInfo:
			retry = v
		}
	}

	require.NotNil(t, info)
	assert.Equal(t, "RATE_LIMITED", info.GetReason())
	assert.Equal(t, "daily", info.GetMetadata()["boundary"])
	assert.Equal(t, "5", info.GetMetadata()["limit"])

	require.NotNil(t, failure)
	assert.Equal(t, "user:u1", failure.GetViolations()[0].GetSubject())

	require.NotNil(t, retry)
	assert.Equal(t, 3*time.Hour, retry.GetRetryDelay().AsDuration())
}
