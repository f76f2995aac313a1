package db

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FixturePassword is the clear-text password of every seeded account.
const FixturePassword = "password"

// SeedFeature is the metered feature the fixture usage rows are recorded under.
const SeedFeature = "ai.generate"

type fixtureUser struct {
	User
	daily, monthly, tokens int64
}

var fixtureUsers = []fixtureUser{
	{User{Email: "admin@sportly.app", Name: "Sportly Admin", Role: RoleAdmin, Plan: PlanPremium, PhoneNumber: "+41 79 000 00 00", Bio: "Platform administrator", IsActive: true}, 0, 0, 0},
	{User{Email: "john.doe@example.com", Name: "John Doe", Role: RoleUser, Plan: PlanFree, PhoneNumber: "+41 79 123 45 67", Bio: "Sport enthusiast", IsActive: true}, 3, 45, 1200},
	{User{Email: "marie.coach@example.com", Name: "Marie Coach", Role: RolePartner, Plan: PlanPro, PhoneNumber: "+41 79 234 56 78", Bio: "Certified personal coach", IsActive: true}, 12, 180, 5400},
	{User{Email: "pierre.martin@example.com", Name: "Pierre Martin", Role: RoleUser, Plan: PlanFree, PhoneNumber: "+41 79 345 67 89", Bio: "Fitness beginner", IsActive: false}, 5, 5, 200},
	{User{Email: "sophie.trainer@example.com", Name: "Sophie Trainer", Role: RolePartner, Plan: PlanPro, PhoneNumber: "+41 79 456 78 90", Bio: "Yoga and pilates specialist", IsActive: true}, 8, 120, 3200},
	{User{Email: "luc.dupont@example.com", Name: "Luc Dupont", Role: RoleUser, Plan: PlanPremium, PhoneNumber: "+41 79 567 89 01", Bio: "Amateur runner", IsActive: true}, 15, 280, 8500},
	{User{Email: "emma.coach@example.com", Name: "Emma Coach", Role: RolePartner, Plan: PlanPremium, PhoneNumber: "+41 79 678 90 12", Bio: "Nutrition and fitness coach", IsActive: true}, 20, 350, 12000},
	{User{Email: "thomas.sport@example.com", Name: "Thomas Sport", Role: RoleUser, Plan: PlanFree, PhoneNumber: "+41 79 789 01 23", Bio: "Into weight training", IsActive: true}, 2, 18, 600},
	{User{Email: "lisa.wellness@example.com", Name: "Lisa Wellness", Role: RolePartner, Plan: PlanPro, PhoneNumber: "+41 79 890 12 34", Bio: "Wellness and meditation coach", IsActive: true}, 10, 145, 4200},
}

var fixtureSettings = []AdminSetting{
	{Key: "free_daily_limit", Value: "5", Description: "Daily limit for FREE users"},
	{Key: "pro_daily_limit", Value: "50", Description: "Daily limit for PRO users"},
}

// SeedResult summarizes a reseed.
type SeedResult struct {
	UsersCreated int
	Users        []User
}

// SeedTestData destructively replaces users, quota usage and admin settings
// with the fixture set.
//
// Behavior:
//  1. Clears `quota_usages`, `admin_settings` and `users`.
//  2. Creates the fixture users with bcrypt-hashed FixturePassword.
//  3. Records one usage row per non-admin user for `today` ("YYYY-MM-DD").
//  4. Inserts the default admin settings.
//
// Runs in one transaction: a failure leaves the previous data in place.
func SeedTestData(db *gorm.DB, today string) (SeedResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.DefaultCost)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var result SeedResult
	err = db.Transaction(func(tx *gorm.DB) error {
		// --- Fresh start ---
		for _, table := range []string{"quota_usages", "admin_settings", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, f := range fixtureUsers {
			user := f.User
			user.PasswordHash = string(hash)
			// gorm skips zero-value bools that carry a default, so the
			// banned fixture is flipped after insert.
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", user.Email, err)
			}
			if !f.IsActive {
				if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
					return fmt.Errorf("failed to deactivate %s: %w", user.Email, err)
				}
			}
			result.Users = append(result.Users, user)

			if f.daily == 0 && f.monthly == 0 {
				continue
			}
			usage := QuotaUsage{
				UserID:       user.ID,
				Feature:      SeedFeature,
				Date:         today,
				DailyCount:   f.daily,
				MonthlyCount: f.monthly,
				TokensUsed:   f.tokens,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return fmt.Errorf("failed to seed usage for %s: %w", user.Email, err)
			}
		}

		if err := tx.Create(&fixtureSettings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	result.UsersCreated = len(result.Users)
	return result, nil
}
