package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	identityapp "github.com/eventi/backend/internal/application/identity"
	"github.com/eventi/backend/internal/infrastructure/config"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// passwordEnv is read when -password is not given, keeping it out of the shell history
const passwordEnv = "EVENTI_CREATEUSER_PASSWORD"

func main() {
	var (
		username string
		password string
		staff    bool
	)
	flag.StringVar(&username, "username", "", "Username of the new account (required)")
	flag.StringVar(&password, "password", "", "Password of the new account (default: $"+passwordEnv+")")
	flag.BoolVar(&staff, "staff", false, "Grant staff rights: see and edit every event")
	flag.Parse()

	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser -username <name> [-password <password>] [-staff]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel("warn"))))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	users := identityapp.NewUserService(persistence.NewGormUserRepository(db.DB), log)
	info, err := users.Create(context.Background(), identityapp.CreateUserInput{
		Username: username,
		Password: password,
		IsStaff:  staff,
	})
	if err != nil {
		log.Fatal("Failed to create user", zap.Error(err))
	}

	fmt.Printf("Created user %q (id %d, staff: %t)\n", info.Username, info.ID, info.IsStaff)
}
