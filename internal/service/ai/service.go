package ai

import (
	"context"
	"strings"

	aiv1 "github.com/oggyb/sportly/internal/api/ai"
	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/auth"
	svcErr "github.com/oggyb/sportly/internal/errors"
	"github.com/oggyb/sportly/internal/logger"
	"github.com/oggyb/sportly/internal/provider"
	"github.com/oggyb/sportly/internal/quota"
)

// Feature is the metered name every generation is charged under.
const Feature = "ai.generate"

// defaultCharge is the token cost recorded when the caller sets no maxTokens.
const defaultCharge = 100

// Service implements the AI gRPC API.
// Every generation passes through the quota ledger before the provider is
// called.
type Service struct {
	appCtx *app.AppContext
	ledger *quota.Ledger
	gen    provider.Generator
}

// NewAIService creates a new AI service.
// Dependencies include:
//   - the quota ledger (DB-backed, per-actor serialized)
//   - the upstream text generator
func NewAIService(appCtx *app.AppContext, ledger *quota.Ledger, gen provider.Generator) *Service {
	return &Service{appCtx: appCtx, ledger: ledger, gen: gen}
}

// Generate produces a completion for the caller's prompt.
//
// Behavior:
//   - Rejects an empty prompt, an unknown model or a negative maxTokens.
//   - Fails with FailedPrecondition when no provider key is configured,
//     before any quota is spent.
//   - Charges one request and maxTokens (or 100) tokens; a limit hit
//     returns ResourceExhausted with boundary details.
//   - Provider failures surface as Unavailable; the request stays counted.
//
// Example:
//
//	svc.Generate(ctx, &aiv1.GenerateRequest{Prompt: "Plan a 5k week"})
func (s *Service) Generate(ctx context.Context, req *aiv1.GenerateRequest) (*aiv1.GenerateResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)

	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, svcErr.Map(svcErr.ErrUnauthorized)
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, svcErr.InvalidArgument("prompt must not be empty")
	}
	model := req.Model
	if model == "" {
		model = aiv1.DefaultModel
	}
	if model != aiv1.ModelGPT4 && model != aiv1.ModelGPT35 {
		return nil, svcErr.InvalidArgument("model must be gpt-4 or gpt-3.5-turbo")
	}
	if req.MaxTokens < 0 {
		return nil, svcErr.InvalidArgument("maxTokens must not be negative")
	}

	if !s.gen.Configured() {
		return nil, svcErr.Map(svcErr.Unconfigured("AI provider", "set OPENAI_API_KEY"))
	}

	charge := int64(req.MaxTokens)
	if charge == 0 {
		charge = defaultCharge
	}
	snap, err := s.ledger.CheckAndUpdate(ctx, id.UserID, Feature, charge)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	log.Debug("generate admitted", "user_id", id.UserID, "model", model, "daily_used", snap.DailyUsed)

	completion, err := s.gen.Generate(ctx, model, prompt, int(req.MaxTokens))
	if err != nil {
		log.Error("provider call failed", "user_id", id.UserID, "err", err)
		return nil, svcErr.Map(err)
	}

	return &aiv1.GenerateResponse{
		Content:    completion.Content,
		TokensUsed: completion.TokensUsed,
		Model:      model,
		Quota:      toSnapshot(snap),
	}, nil
}

// GetRemainingQuota reports the caller's usage against their plan.
func (s *Service) GetRemainingQuota(ctx context.Context, _ *aiv1.GetRemainingQuotaRequest) (*aiv1.QuotaSnapshot, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, svcErr.Map(svcErr.ErrUnauthorized)
	}

	snap, err := s.ledger.Remaining(ctx, id.UserID, Feature)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toSnapshot(snap), nil
}

// GetUsageHistory returns the caller's per-day usage, newest first.
func (s *Service) GetUsageHistory(ctx context.Context, req *aiv1.GetUsageHistoryRequest) (*aiv1.GetUsageHistoryResponse, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, svcErr.Map(svcErr.ErrUnauthorized)
	}

	days, err := s.ledger.History(ctx, id.UserID, int(req.Days))
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &aiv1.GetUsageHistoryResponse{Days: make([]aiv1.UsageDay, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, aiv1.UsageDay{
			Date:       d.Date,
			Feature:    d.Feature,
			Requests:   d.Requests,
			TokensUsed: d.TokensUsed,
		})
	}
	return resp, nil
}

func toSnapshot(s quota.Snapshot) *aiv1.QuotaSnapshot {
	return &aiv1.QuotaSnapshot{
		Plan:             string(s.Plan),
		Unlimited:        s.Unlimited,
		DailyLimit:       s.Limits.Daily,
		MonthlyLimit:     s.Limits.Monthly,
		DailyUsed:        s.DailyUsed,
		MonthlyUsed:      s.MonthlyUsed,
		DailyRemaining:   s.DailyRemaining,
		MonthlyRemaining: s.MonthlyRemaining,
		TokensUsedToday:  s.TokensUsedToday,
		DailyResetAt:     s.DailyResetAt,
		MonthlyResetAt:   s.MonthlyResetAt,
	}
}
