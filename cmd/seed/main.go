// seed inserts development sample data: a manager, a new hire with a provisioned preboarding
// checklist, and the demo team roster.
// Idempotent: skips inserts if the demo manager profile already exists.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"onboardflow/internal/config"
	"onboardflow/internal/content/catalog"
	"onboardflow/internal/db"
	"onboardflow/internal/logging"
	preboarding "onboardflow/internal/preboarding/domain"
	preboardingrepo "onboardflow/internal/preboarding/repository"
	preboardingsvc "onboardflow/internal/preboarding/service"
	profile "onboardflow/internal/profile/domain"
	profilerepo "onboardflow/internal/profile/repository"
	profilesvc "onboardflow/internal/profile/service"
	teamrepo "onboardflow/internal/team/repository"
	"onboardflow/internal/team/roster"
	teamsvc "onboardflow/internal/team/service"
)

const (
	devEmployeeID = "alice"
	// blockedTemplate is marked BLOCKED so the readiness score and escalation flow have something to show.
	blockedTemplate = "laptop"
)

func main() {
	rosterPath := flag.String("roster", "", "YAML team roster (default: embedded demo roster)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer conn.Close()

	team, err := roster.Load(*rosterPath)
	if err != nil {
		logger.Fatal("roster", zap.Error(err))
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("catalog", zap.Error(err))
	}

	profiles := profilerepo.NewPostgresRepository(conn)
	existing, err := profiles.Get(ctx, team.ManagerID)
	if err != nil {
		logger.Fatal("seed check", zap.Error(err))
	}
	if existing != nil {
		logger.Info("seed already applied, skipping", zap.String("manager_id", team.ManagerID))
		os.Exit(0)
	}

	store := profilesvc.NewStore(profiles, logger)
	if _, err := store.Enroll(ctx, team.ManagerID, profile.UserProfile{
		Name: "Maria Garcia", Role: profile.RoleManager, JobTitle: "Engineering Manager", Department: "Platform", RoleCategory: "DESK",
	}); err != nil && !errors.Is(err, profilesvc.ErrAlreadyEnrolled) {
		logger.Fatal("enroll manager", zap.Error(err))
	}
	if _, err := store.Enroll(ctx, devEmployeeID, profile.UserProfile{
		Name: "Alice Martin", Email: "alice@example.com", Role: profile.RoleEmployee,
		JobTitle: "Product Manager", Department: "Platform", RoleCategory: "DESK",
	}); err != nil && !errors.Is(err, profilesvc.ErrAlreadyEnrolled) {
		logger.Fatal("enroll employee", zap.Error(err))
	}

	items := preboardingsvc.NewService(preboardingrepo.NewPostgresRepository(conn), logger)
	if _, err := items.Provision(ctx, devEmployeeID, cat.PreboardingTemplates); err != nil {
		logger.Fatal("provision preboarding", zap.Error(err))
	}
	if _, err := items.UpdateStatus(ctx, devEmployeeID+":"+blockedTemplate, preboarding.StatusBlocked); err != nil {
		logger.Warn("mark blocked item", zap.Error(err))
	}

	members := teamsvc.NewService(teamrepo.NewPostgresRepository(conn), logger)
	for _, m := range team.Members {
		if err := members.AddMember(ctx, m); err != nil {
			logger.Fatal("add team member", zap.String("member_id", m.ID), zap.Error(err))
		}
	}

	logger.Info("seed applied",
		zap.String("manager_id", team.ManagerID),
		zap.String("employee_id", devEmployeeID),
		zap.Int("team_members", len(team.Members)))
}
