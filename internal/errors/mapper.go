// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/durationpb"
	"gorm.io/gorm"
)

// ErrorDomain tags ErrorInfo details produced by this service.
const ErrorDomain = "sportly.app"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnconfigured     = errors.New("backend not configured")
	ErrUpstream         = errors.New("upstream failure")
)

// Boundary names the quota window a RateLimitedError was raised for.
type Boundary string

const (
	BoundaryDaily   Boundary = "daily"
	BoundaryMonthly Boundary = "monthly"
)

// RateLimitedError reports that a quota boundary was met or exceeded.
type RateLimitedError struct {
	UserID   string
	Feature  string
	Plan     string
	Boundary Boundary
	Limit    int64
	// ResetAt is when the violated window starts over.
	ResetAt time.Time
	// RetryAfter is the wait until ResetAt, measured on the ledger's clock.
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s quota exceeded (%d/%d) for plan %s", e.Boundary, e.Limit, e.Limit, e.Plan)
}

// Unconfigured wraps ErrUnconfigured with a remediation hint for the operator.
func Unconfigured(what, hint string) error {
	return fmt.Errorf("%w: %s (%s)", ErrUnconfigured, what, hint)
}

// Upstream wraps a downstream provider failure, keeping its message.
func Upstream(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, provider, err)
}

// Map converts domain/repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var rl *RateLimitedError
	switch {
	case errors.As(err, &rl):
		return rateLimited(rl)

	case errors.Is(err, ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())

	case errors.Is(err, ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrUnconfigured):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, ErrUpstream):
		return status.Error(codes.Unavailable, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// rateLimited builds a ResourceExhausted status carrying the boundary and
// limit as ErrorInfo metadata, a QuotaFailure violation and a RetryInfo.
func rateLimited(rl *RateLimitedError) error {
	st := status.New(codes.ResourceExhausted, rl.Error())

	details := []protoadapt.MessageV1{
		&errdetails.ErrorInfo{
			Reason: "RATE_LIMITED",
			Domain: ErrorDomain,
			Metadata: map[string]string{
				"boundary": string(rl.Boundary),
				"limit":    strconv.FormatInt(rl.Limit, 10),
				"plan":     rl.Plan,
				"feature":  rl.Feature,
			},
		},
		&errdetails.QuotaFailure{
			Violations: []*errdetails.QuotaFailure_Violation{{
				Subject:     "user:" + rl.UserID,
				Description: rl.Error(),
			}},
		},
	}
	if rl.RetryAfter > 0 {
		details = append(details, &errdetails.RetryInfo{
			RetryDelay: durationpb.New(rl.RetryAfter.Round(time.Second)),
		})
	}

	withDetails, err := st.WithDetails(details...)
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// PermissionDenied creates a gRPC PermissionDenied error.
func PermissionDenied(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}
