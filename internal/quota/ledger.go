// Package quota meters per-actor feature usage against plan limits.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/db"
	svcErr "github.com/oggyb/sportly/internal/errors"
	"github.com/oggyb/sportly/internal/repository"
)

// Limits is the request allowance of one plan.
type Limits struct {
	Daily   int64 `json:"daily"`
	Monthly int64 `json:"monthly"`
}

var planLimits = map[db.Plan]Limits{
	db.PlanFree:    {Daily: 5, Monthly: 100},
	db.PlanPro:     {Daily: 50, Monthly: 1000},
	db.PlanPremium: {Daily: 1000, Monthly: 10000},
}

// LimitsFor returns the allowance of plan. Unknown plans get FREE limits.
func LimitsFor(plan db.Plan) Limits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits[db.PlanFree]
}

// Snapshot is the usage state of one actor and feature at a point in time.
type Snapshot struct {
	Plan             db.Plan   `json:"plan"`
	Unlimited        bool      `json:"unlimited"`
	Limits           Limits    `json:"limits"`
	DailyUsed        int64     `json:"dailyUsed"`
	MonthlyUsed      int64     `json:"monthlyUsed"`
	DailyRemaining   int64     `json:"dailyRemaining"`
	MonthlyRemaining int64     `json:"monthlyRemaining"`
	TokensUsedToday  int64     `json:"tokensUsedToday"`
	DailyResetAt     time.Time `json:"dailyResetAt"`
	MonthlyResetAt   time.Time `json:"monthlyResetAt"`
}

// HistoryDay is one day of recorded usage.
type HistoryDay struct {
	Date       string `json:"date"`
	Feature    string `json:"feature"`
	Requests   int64  `json:"requests"`
	TokensUsed int64  `json:"tokensUsed"`
}

const (
	DefaultHistoryDays = 7
	MaxHistoryDays     = 90
)

// Ledger checks and records quota usage.
//
// Each check runs in its own transaction that locks the actor row first,
// so two concurrent checks for the same actor never count the same slot.
type Ledger struct {
	db     *gorm.DB
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// New builds a ledger from the shared app context.
// Fails if QUOTA_TZ does not name a loadable location.
func New(appCtx *app.AppContext) (*Ledger, error) {
	loc, err := time.LoadLocation(appCtx.Config.Quota.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load quota timezone %q: %w", appCtx.Config.Quota.Timezone, err)
	}
	now := appCtx.Now
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		db:     appCtx.DB,
		loc:    loc,
		now:    now,
		logger: appCtx.Logger.With("component", "quota"),
	}, nil
}

// Location is the calendar location day boundaries are computed in.
func (l *Ledger) Location() *time.Location { return l.loc }

// Today is the current ledger date ("YYYY-MM-DD").
func (l *Ledger) Today() string { return repository.DayKey(l.now(), l.loc) }

// CheckAndUpdate admits one request of feature for userID and records it.
//
// Behavior:
//   - Unknown user → ErrUnauthorized; banned user → ErrPermissionDenied.
//   - ADMIN role is never limited; usage is still recorded.
//   - Otherwise fails with *RateLimitedError when today's count or the
//     month-to-date count has already reached the plan limit.
//   - On success today's row is incremented (requests and tokensUsed).
//
// Returns the snapshot after the increment.
func (l *Ledger) CheckAndUpdate(ctx context.Context, userID, feature string, tokensUsed int64) (Snapshot, error) {
	now := l.now()
	day := repository.DayKey(now, l.loc)
	monthStart := repository.MonthStartKey(now, l.loc)

	var snap Snapshot
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		usage := repository.NewQuotaRepository(tx)

		user, err := users.LockByID(ctx, userID)
		if err != nil {
			return actorError(userID, err)
		}
		if !user.IsActive {
			return fmt.Errorf("%w: account %s is suspended", svcErr.ErrPermissionDenied, userID)
		}

		daily, err := usage.DailyCount(ctx, userID, feature, day)
		if err != nil {
			return fmt.Errorf("count daily usage: %w", err)
		}
		monthly, err := usage.MonthlyCount(ctx, userID, feature, monthStart, day)
		if err != nil {
			return fmt.Errorf("count monthly usage: %w", err)
		}

		unlimited := user.Role == db.RoleAdmin
		limits := LimitsFor(user.Plan)
		if !unlimited {
			if daily >= limits.Daily {
				return l.rejected(user, feature, svcErr.BoundaryDaily, limits.Daily, now)
			}
			if monthly >= limits.Monthly {
				return l.rejected(user, feature, svcErr.BoundaryMonthly, limits.Monthly, now)
			}
		}

		if err := usage.Increment(ctx, userID, feature, day, tokensUsed); err != nil {
			return fmt.Errorf("record usage: %w", err)
		}

		snap = l.snapshot(user, now, daily+1, monthly+1)
		row, err := usage.Find(ctx, userID, feature, day)
		if err != nil {
			return fmt.Errorf("reload usage: %w", err)
		}
		if row != nil {
			snap.TokensUsedToday = row.TokensUsed
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	l.logger.Debug("quota admitted",
		"user_id", userID, "feature", feature, "daily", snap.DailyUsed, "monthly", snap.MonthlyUsed, "tokens", tokensUsed)
	return snap, nil
}

// Remaining reports the actor's usage without recording anything.
func (l *Ledger) Remaining(ctx context.Context, userID, feature string) (Snapshot, error) {
	now := l.now()
	day := repository.DayKey(now, l.loc)
	monthStart := repository.MonthStartKey(now, l.loc)

	user, err := repository.NewUserRepository(l.db).FindByID(ctx, userID)
	if err != nil {
		return Snapshot{}, actorError(userID, err)
	}

	usage := repository.NewQuotaRepository(l.db)
	daily, err := usage.DailyCount(ctx, userID, feature, day)
	if err != nil {
		return Snapshot{}, fmt.Errorf("count daily usage: %w", err)
	}
	monthly, err := usage.MonthlyCount(ctx, userID, feature, monthStart, day)
	if err != nil {
		return Snapshot{}, fmt.Errorf("count monthly usage: %w", err)
	}

	snap := l.snapshot(user, now, daily, monthly)
	row, err := usage.Find(ctx, userID, feature, day)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load today's usage: %w", err)
	}
	if row != nil {
		snap.TokensUsedToday = row.TokensUsed
	}
	return snap, nil
}

// History returns the actor's recorded usage over the last days calendar
// days (today included), newest first.
// days == 0 means DefaultHistoryDays; values outside 1..MaxHistoryDays fail.
func (l *Ledger) History(ctx context.Context, userID string, days int) ([]HistoryDay, error) {
	if days == 0 {
		days = DefaultHistoryDays
	}
	if days < 1 || days > MaxHistoryDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", svcErr.ErrInvalidArgument, MaxHistoryDays)
	}

	if _, err := repository.NewUserRepository(l.db).FindByID(ctx, userID); err != nil {
		return nil, actorError(userID, err)
	}

	today := l.now().In(l.loc)
	since := repository.DayKey(today.AddDate(0, 0, -(days - 1)), l.loc)

	rows, err := repository.NewQuotaRepository(l.db).History(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load usage history: %w", err)
	}

	out := make([]HistoryDay, 0, len(rows))
	for _, r := range rows {
		out = append(out, HistoryDay{
			Date:       r.Date,
			Feature:    r.Feature,
			Requests:   r.DailyCount,
			TokensUsed: r.TokensUsed,
		})
	}
	return out, nil
}

func (l *Ledger) snapshot(user *db.User, now time.Time, daily, monthly int64) Snapshot {
	limits := LimitsFor(user.Plan)
	s := Snapshot{
		Plan:           user.Plan,
		Unlimited:      user.Role == db.RoleAdmin,
		Limits:         limits,
		DailyUsed:      daily,
		MonthlyUsed:    monthly,
		DailyResetAt:   l.nextDay(now),
		MonthlyResetAt: l.nextMonth(now),
	}
	if s.Unlimited {
		s.DailyRemaining, s.MonthlyRemaining = -1, -1
		return s
	}
	s.DailyRemaining = max(limits.Daily-daily, 0)
	s.MonthlyRemaining = max(limits.Monthly-monthly, 0)
	return s
}

func (l *Ledger) rejected(user *db.User, feature string, b svcErr.Boundary, limit int64, now time.Time) error {
	reset := l.nextDay(now)
	if b == svcErr.BoundaryMonthly {
		reset = l.nextMonth(now)
	}
	l.logger.Info("quota exceeded",
		"user_id", user.ID, "feature", feature, "plan", user.Plan, "boundary", b, "limit", limit)
	return &svcErr.RateLimitedError{
		UserID:     user.ID,
		Feature:    feature,
		Plan:       string(user.Plan),
		Boundary:   b,
		Limit:      limit,
		ResetAt:    reset,
		RetryAfter: reset.Sub(now),
	}
}

func (l *Ledger) nextDay(now time.Time) time.Time {
	t := now.In(l.loc)
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, l.loc)
}

func (l *Ledger) nextMonth(now time.Time) time.Time {
	t := now.In(l.loc)
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, l.loc)
}

func actorError(userID string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: unknown user %s", svcErr.ErrUnauthorized, userID)
	}
	return fmt.Errorf("load user %s: %w", userID, err)
}
