package repository

import (
	"context"
	"time"

	"github.com/oggyb/sportly/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaRepository provides data access methods for the QuotaUsage model.
// All dates are "YYYY-MM-DD" strings; callers pick the calendar location.
type QuotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new repository bound to the given DB connection.
func NewQuotaRepository(database *gorm.DB) *QuotaRepository {
	return &QuotaRepository{db: database}
}

// DailyCount returns the number of requests recorded for (user, feature, day).
// A missing row counts as zero.
func (r *QuotaRepository) DailyCount(ctx context.Context, userID, feature, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.QuotaUsage{}).
		Select("COALESCE(SUM(daily_count), 0)").
		Where(map[string]any{"user_id": userID, "feature": feature, "date": day}).
		Scan(&count).Error
	return count, err
}

// Find returns the usage row for (user, feature, day), or nil when the day
// has no usage yet.
func (r *QuotaRepository) Find(ctx context.Context, userID, feature, day string) (*db.QuotaUsage, error) {
	var rows []db.QuotaUsage
	err := r.db.WithContext(ctx).
		Where(map[string]any{"user_id": userID, "feature": feature, "date": day}).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// MonthlyCount sums daily counts from monthStart through day inclusive.
//
// Behavior:
//   - The monthly figure is always derived from daily rows, so it cannot
//     drift from them.
//   - monthly_count columns written by the seed are informational only.
func (r *QuotaRepository) MonthlyCount(ctx context.Context, userID, feature, monthStart, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.QuotaUsage{}).
		Select("COALESCE(SUM(daily_count), 0)").
		Where(map[string]any{"user_id": userID, "feature": feature}).
		Where(clause.Gte{Column: "date", Value: monthStart}).
		Where(clause.Lte{Column: "date", Value: day}).
		Scan(&count).Error
	return count, err
}

// Increment records one request and its token cost for (user, feature, day).
//
// Behavior:
//   - First request of the day inserts the row.
//   - Later requests bump the counters in place (unique key upsert).
//
// Example:
//
//	repo.Increment(ctx, "u-1", "ai.generate", "2026-10-18", 250)
func (r *QuotaRepository) Increment(ctx context.Context, userID, feature, day string, tokens int64) error {
	usage := db.QuotaUsage{
		UserID:       userID,
		Feature:      feature,
		Date:         day,
		DailyCount:   1,
		MonthlyCount: 1,
		TokensUsed:   tokens,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "feature"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"daily_count":   gorm.Expr("quota_usages.daily_count + ?", 1),
				"monthly_count": gorm.Expr("quota_usages.monthly_count + ?", 1),
				"tokens_used":   gorm.Expr("quota_usages.tokens_used + ?", tokens),
				"updated_at":    db.NowFunc(),
			}),
		}).
		Create(&usage).Error
}

// History returns every usage row of a user on or after since, newest day
// first.
func (r *QuotaRepository) History(ctx context.Context, userID, since string) ([]db.QuotaUsage, error) {
	var rows []db.QuotaUsage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(clause.Gte{Column: "date", Value: since}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Order("feature ASC").
		Find(&rows).Error
	return rows, err
}

// ForDay returns the most recently updated usage row of the given day for
// each of userIDs. Users without a row are absent from the map.
func (r *QuotaRepository) ForDay(ctx context.Context, userIDs []string, day string) (map[string]db.QuotaUsage, error) {
	out := make(map[string]db.QuotaUsage, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []db.QuotaUsage
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Where(clause.Eq{Column: "date", Value: day}).
		Order("updated_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if _, seen := out[row.UserID]; !seen {
			out[row.UserID] = row
		}
	}
	return out, nil
}

// TotalRequestsSince sums daily counts of all users from since onward.
func (r *QuotaRepository) TotalRequestsSince(ctx context.Context, since string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db.QuotaUsage{}).
		Select("COALESCE(SUM(daily_count), 0)").
		Where(clause.Gte{Column: "date", Value: since}).
		Scan(&total).Error
	return total, err
}

// DayKey formats t as a ledger date in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// MonthStartKey formats the first day of t's month in loc.
func MonthStartKey(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).Format(time.DateOnly)
}
