package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/stickerdash/stickerdash-backend/internal/users"
	"github.com/stickerdash/stickerdash-backend/pkg/config"
	"github.com/stickerdash/stickerdash-backend/pkg/db"
	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
	"github.com/stickerdash/stickerdash-backend/pkg/enums"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, id string, role string) error
	SetBanned(ctx context.Context, id string, banned bool) error
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "useradmin"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "", "user command: set-role|ban|unban")
	userID := flag.String("user", "", "provider subject of the user")
	role := flag.String("role", "", "role for -cmd=set-role: admin|user")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "useradmin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"cmd":     *cmd,
		"user_id": *userID,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := execute(ctx, users.NewRepository(dbClient.DB()), *cmd, *userID, *role); err != nil {
		logg.Error(ctx, "user command failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "user updated")
}

// execute applies one operator command to an existing user.
func execute(ctx context.Context, store userStore, cmd, userID, role string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("missing -user")
	}
	if _, err := store.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("load user %s: %w", userID, err)
	}

	switch cmd {
	case "set-role":
		if strings.TrimSpace(role) == "" {
			return fmt.Errorf("missing -role for set-role")
		}
		parsed, err := enums.ParseUserRole(role)
		if err != nil {
			return err
		}
		return store.SetRole(ctx, userID, parsed.String())
	case "ban":
		return store.SetBanned(ctx, userID, true)
	case "unban":
		return store.SetBanned(ctx, userID, false)
	default:
		return fmt.Errorf("unknown -cmd value: %q", cmd)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
