package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the persisted actor role.
type Role string

const (
	RoleUser    Role = "USER"
	RolePartner Role = "PARTNER"
	// RoleAdmin is the unrestricted administrative tier: no quota limits apply.
	RoleAdmin Role = "ADMIN"
)

// Plan is the subscription plan that selects quota limits.
type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanPro     Plan = "PRO"
	PlanPremium Plan = "PREMIUM"
)

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanPremium:
		return true
	}
	return false
}

// User table
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	Name         string    `gorm:"size:128;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         Role      `gorm:"size:16;not null;default:USER"`
	Plan         Plan      `gorm:"size:16;not null;default:FREE;index"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	PhoneNumber  string    `gorm:"size:32"`
	Bio          string    `gorm:"size:512"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a random UUID when the caller did not set one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// QuotaUsage is one counter row per (user, feature, calendar day).
//
// Unique index: idx_quota_user_feature_date(user_id, feature, date)
//   - Guarantees a single row per day so increments are upserts.
//   - Also serves the monthly sum (date range scan on the same prefix).
//
// Date is "YYYY-MM-DD" in the ledger's location; string dates compare
// lexicographically in the same order as calendar days on every driver.
type QuotaUsage struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UserID       string    `gorm:"size:36;not null;uniqueIndex:idx_quota_user_feature_date,priority:1"`
	Feature      string    `gorm:"size:64;not null;uniqueIndex:idx_quota_user_feature_date,priority:2"`
	Date         string    `gorm:"size:10;not null;uniqueIndex:idx_quota_user_feature_date,priority:3;index"`
	DailyCount   int64     `gorm:"not null;default:0"`
	MonthlyCount int64     `gorm:"not null;default:0"`
	TokensUsed   int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// AdminSetting is a free-form key/value knob managed by admins.
type AdminSetting struct {
	Key         string `gorm:"primaryKey;size:64"`
	Value       string `gorm:"size:255;not null"`
	Description string `gorm:"size:255"`
}

// Models lists every table AutoMigrate has to manage.
func Models() []any {
	return []any{&User{}, &QuotaUsage{}, &AdminSetting{}}
}
