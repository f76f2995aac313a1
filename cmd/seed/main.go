package main

import (
	"fmt"
	"log"
	"time"

	"github.com/oggyb/sportly/internal/auth"
	"github.com/oggyb/sportly/internal/config"
	"github.com/oggyb/sportly/internal/db"
	"github.com/oggyb/sportly/internal/repository"
)

func main() {
	// Load configuration
	cfg := config.New()
	if !cfg.IsDevelopment() {
		log.Fatalf("refusing to seed: APP_ENV=%s (only development may be reseeded)", cfg.App.ENV)
	}

	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		log.Fatalf("invalid QUOTA_TZ: %v", err)
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	res, err := db.SeedTestData(database, repository.DayKey(time.Now(), loc))
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	log.Printf("Seeding completed: %d users.", res.UsersCreated)

	// Print bearer tokens so the fixtures can be used right away.
	tokens := auth.NewManager(cfg)
	if !tokens.Configured() {
		log.Println("JWT_SECRET is not set; skipping token output.")
		return
	}
	for _, u := range res.Users {
		token, _, err := tokens.Issue(u.ID, u.Role)
		if err != nil {
			log.Fatalf("failed to issue token for %s: %v", u.Email, err)
		}
		fmt.Printf("%-28s %-8s %s\n", u.Email, u.Role, token)
	}
}
