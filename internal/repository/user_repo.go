package repository

import (
	"context"
	"fmt"

	"github.com/oggyb/sportly/internal/db"
	"github.com/oggyb/sportly/internal/utils/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository provides data access methods for the User model.
// Bind it to a transaction (NewUserRepository(tx)) to take part in one.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// FindByID loads a user by primary key.
// Returns gorm.ErrRecordNotFound when no row matches.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// LockByID loads a user with a row lock held until the surrounding
// transaction ends.
//
// Behavior:
//   - MySQL/Postgres: SELECT ... FOR UPDATE, so concurrent lockers of the
//     same user queue behind each other.
//   - SQLite: the clause is dropped by the driver; the single-connection
//     pool (db.Prepare) serializes transactions instead.
//
// Must be called on a repository bound to a transaction.
func (r *UserRepository) LockByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns users ordered by created_at DESC, id DESC.
//
// Behavior:
//   - Supports cursor-based pagination via paginationToken.
//   - Returns the next token when more rows exist.
//
// Example:
//
//	repo.List(ctx, nil, 20) // first 20 users, newest first
func (r *UserRepository) List(
	ctx context.Context,
	paginationToken *string,
	limit int,
) ([]db.User, *string, error) {
	var users []db.User

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := cursor.CreatedAt()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(users) > limit {
		last := users[limit-1]
		token, _ := pagination.Encode(pagination.After(last.ID, last.CreatedAt))
		nextToken = &token
		users = users[:limit]
	}

	return users, nextToken, nil
}

// ToggleActive flips is_active and returns the new value.
func (r *UserRepository) ToggleActive(ctx context.Context, id string) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := NewUserRepository(tx).LockByID(ctx, id)
		if err != nil {
			return err
		}
		active = !u.IsActive
		return tx.Model(u).Update("is_active", active).Error
	})
	return active, err
}

// UpdatePlan sets the user's plan.
// Returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) UpdatePlan(ctx context.Context, id string, plan db.Plan) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("plan", plan)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports 0 for an unchanged row, so confirm the user exists.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Stats holds aggregate user counters.
type Stats struct {
	TotalUsers   int64 `json:"totalUsers"`
	BannedUsers  int64 `json:"bannedUsers"`
	PremiumUsers int64 `json:"premiumUsers"`
}

// Stats counts all users, banned users, and users on a paid plan.
func (r *UserRepository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	base := r.db.WithContext(ctx).Model(&db.User{})

	if err := base.Session(&gorm.Session{}).Count(&s.TotalUsers).Error; err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_active = ?", false).Count(&s.BannedUsers).Error; err != nil {
		return Stats{}, fmt.Errorf("count banned users: %w", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("plan IN ?", []db.Plan{db.PlanPro, db.PlanPremium}).
		Count(&s.PremiumUsers).Error; err != nil {
		return Stats{}, fmt.Errorf("count premium users: %w", err)
	}
	return s, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
