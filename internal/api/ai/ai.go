// Package ai defines the sportly.ai.v1.AIService wire contract.
package ai

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/oggyb/sportly/internal/api/rpc"
)

const ServiceName = "sportly.ai.v1.AIService"

// Supported models.
const (
	ModelGPT4    = "gpt-4"
	ModelGPT35   = "gpt-3.5-turbo"
	DefaultModel = ModelGPT35
)

type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	Model     string `json:"model,omitempty"`
	MaxTokens int32  `json:"maxTokens,omitempty"`
}

type GenerateResponse struct {
	Content    string         `json:"content"`
	TokensUsed int64          `json:"tokensUsed"`
	Model      string         `json:"model"`
	Quota      *QuotaSnapshot `json:"quota,omitempty"`
}

type GetRemainingQuotaRequest struct{}

// QuotaSnapshot reports usage against the caller's plan.
// Remaining fields are -1 when Unlimited is set.
type QuotaSnapshot struct {
	Plan             string    `json:"plan"`
	Unlimited        bool      `json:"unlimited"`
	DailyLimit       int64     `json:"dailyLimit"`
	MonthlyLimit     int64     `json:"monthlyLimit"`
	DailyUsed        int64     `json:"dailyUsed"`
	MonthlyUsed      int64     `json:"monthlyUsed"`
	DailyRemaining   int64     `json:"dailyRemaining"`
	MonthlyRemaining int64     `json:"monthlyRemaining"`
	TokensUsedToday  int64     `json:"tokensUsedToday"`
	DailyResetAt     time.Time `json:"dailyResetAt"`
	MonthlyResetAt   time.Time `json:"monthlyResetAt"`
}

type GetUsageHistoryRequest struct {
	// Days is the window size, 1..90; zero means 7.
	Days int32 `json:"days,omitempty"`
}

type UsageDay struct {
	Date       string `json:"date"`
	Feature    string `json:"feature"`
	Requests   int64  `json:"requests"`
	TokensUsed int64  `json:"tokensUsed"`
}

type GetUsageHistoryResponse struct {
	Days []UsageDay `json:"days"`
}

// AIServiceServer is the server API for AIService.
type AIServiceServer interface {
	Generate(context.Context, *GenerateRequest) (*GenerateResponse, error)
	GetRemainingQuota(context.Context, *GetRemainingQuotaRequest) (*QuotaSnapshot, error)
	GetUsageHistory(context.Context, *GetUsageHistoryRequest) (*GetUsageHistoryResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AIServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "Generate", AIServiceServer.Generate),
		rpc.Unary(ServiceName, "GetRemainingQuota", AIServiceServer.GetRemainingQuota),
		rpc.Unary(ServiceName, "GetUsageHistory", AIServiceServer.GetUsageHistory),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sportly/ai/v1/ai.json",
}

func RegisterAIServiceServer(s grpc.ServiceRegistrar, srv AIServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls AIService over a shared connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Generate(ctx context.Context, in *GenerateRequest, opts ...grpc.CallOption) (*GenerateResponse, error) {
	return rpc.Invoke[GenerateResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "Generate"), in, opts...)
}

func (c *Client) GetRemainingQuota(ctx context.Context, in *GetRemainingQuotaRequest, opts ...grpc.CallOption) (*QuotaSnapshot, error) {
	return rpc.Invoke[QuotaSnapshot](ctx, c.cc, rpc.FullMethod(ServiceName, "GetRemainingQuota"), in, opts...)
}

func (c *Client) GetUsageHistory(ctx context.Context, in *GetUsageHistoryRequest, opts ...grpc.CallOption) (*GetUsageHistoryResponse, error) {
	return rpc.Invoke[GetUsageHistoryResponse](ctx, c.cc, rpc.FullMethod(ServiceName, "GetUsageHistory"), in, opts...)
}
