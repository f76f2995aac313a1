// Package admin defines the sportly.admin.v1.AdminService wire contract.
package admin

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/oggyb/sportly/internal/api/rpc"
)

const ServiceName = "sportly.admin.v1.AdminService"

type GetUsersRequest struct {
	PageToken *string `json:"pageToken,omitempty"`
	// Limit defaults to 50 and is capped at 100.
	Limit int32 `json:"limit,omitempty"`
}

// TodayUsage is a user's quota row for the current ledger day.
type TodayUsage struct {
	Feature      string `json:"feature"`
	DailyCount   int64  `json:"dailyCount"`
	MonthlyCount int64  `json:"monthlyCount"`
	TokensUsed   int64  `json:"tokensUsed"`
}

type UserSummary struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        string      `json:"role"`
	Plan        string      `json:"plan"`
	IsActive    bool        `json:"isActive"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	Usage       *TodayUsage `json:"usage,omitempty"`
}

type GetUsersResponse struct {
	Users         []UserSummary `json:"users"`
	NextPageToken *string       `json:"nextPageToken,omitempty"`
}

type BanUserRequest struct {
	UserID string `json:"userId"`
}

type BanUserResponse struct {
	UserID   string `json:"userId"`
	IsActive bool   `json:"isActive"`
}

type UpdateUserPlanRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

type UpdateUserPlanResponse struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

type GetStatsRequest struct{}

type StatsResponse struct {
	TotalUsers    int64 `json:"totalUsers"`
	BannedUsers   int64 `json:"bannedUsers"`
	PremiumUsers  int64 `json:"premiumUsers"`
	RequestsToday int64 `json:"requestsToday"`
}

type SeedDatabaseRequest struct{}

type SeedDatabaseResponse struct {
	Message      string `json:"message"`
	UsersCreated int32  `json:"usersCreated"`
}

type GetSettingsRequest struct{}

type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

type GetSettingsResponse struct {
	Settings []Setting `json:"settings"`
}

// AdminServiceServer is the server API for AdminService.
type AdminServiceServer interface {
	GetUsers(context.Context, *GetUsersRequest) (*GetUsersResponse, error)
	BanUser(context.Context, *BanUserRequest) (*BanUserResponse, error)
	UpdateUserPlan(context.Context, *UpdateUserPlanRequest) (*UpdateUserPlanResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*StatsResponse, error)
	SeedDatabase(context.Context, *SeedDatabaseRequest) (*SeedDatabaseResponse, error)
	GetSettings(context.Context, *GetSettingsRequest) (*GetSettingsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "GetUsers", AdminServiceServer.GetUsers),
		rpc.Unary(ServiceName, "BanUser", AdminServiceServer.BanUser),
		rpc.Unary(ServiceName, "UpdateUserPlan", AdminServiceServer.UpdateUserPlan),
		rpc.Unary(ServiceName, "GetStats", AdminServiceServer.GetStats),
		rpc.Unary(ServiceName, "SeedDatabase", AdminServiceServer.SeedDatabase),
		rpc.Unary(ServiceName, "GetSettings", AdminServiceServer.GetSettings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sportly/admin/v1/admin.json",
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls AdminService over a shared connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetUsers(ctx context.Context, in *GetUsersRequest, opts ...grpc.CallOption) (*GetUsersResponse, error) {
	return rpc.Invoke[GetUsersResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "GetUsers"), in, opts...)
}

func (c *Client) BanUser(ctx context.Context, in *BanUserRequest, opts ...grpc.CallOption) (*BanUserResponse, error) {
	return rpc.Invoke[BanUserResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "BanUser"), in, opts...)
}

func (c *Client) UpdateUserPlan(ctx context.Context, in *UpdateUserPlanRequest, opts ...grpc.CallOption) (*UpdateUserPlanResponse, error) {
	return rpc.Invoke[UpdateUserPlanResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "UpdateUserPlan"), in, opts...)
}

func (c *Client) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*StatsResponse, error) {
	return rpc.Invoke[StatsResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "GetStats"), in, opts...)
}

func (c *Client) SeedDatabase(ctx context.Context, in *SeedDatabaseRequest, opts ...grpc.CallOption) (*SeedDatabaseResponse, error) {
	return rpc.Invoke[SeedDatabaseResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "SeedDatabase"), in, opts...)
}

func (c *Client) GetSettings(ctx context.Context, in *GetSettingsRequest, opts ...grpc.CallOption) (*GetSettingsResponse, error) {
	return rpc.Invoke[GetSettingsResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "GetSettings"), in, opts...)
}
