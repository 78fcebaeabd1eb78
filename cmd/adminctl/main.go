package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"campusconnect/internal/accounts"
	"campusconnect/internal/adapter/repo"
	"campusconnect/internal/domain"
	"campusconnect/internal/infra"
)

func main() {
	var (
		usernameFlag string
		passwordFlag string
		nameFlag     string
		emailFlag    string
		phoneFlag    string
		countryFlag  string
	)

	flag.StringVar(&usernameFlag, "username", "", "admin username to create or update")
	flag.StringVar(&passwordFlag, "password", "", "new password (falls back to ADMIN_PASSWORD)")
	flag.StringVar(&nameFlag, "name", "", "display name (defaults to the username)")
	flag.StringVar(&emailFlag, "email", "", "contact email")
	flag.StringVar(&phoneFlag, "phone", "", "contact phone")
	flag.StringVar(&countryFlag, "country", "", "ISO country code")
	flag.Parse()

	_ = godotenv.Load()

	username := strings.TrimSpace(usernameFlag)
	if username == "" {
		exitWithError(errors.New("-username is required"))
	}
	password := passwordFlag
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		exitWithError(errors.New("-password or ADMIN_PASSWORD is required"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "adminctl").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	if err := repo.EnsureSchema(ctx, runner); err != nil {
		exitWithError(fmt.Errorf("failed to apply schema: %w", err))
	}

	svc := accounts.NewService(repo.NewUserRepository(runner), repo.NewAdminRepository(runner), nil, logger)
	admin, err := svc.EnsureAdmin(ctx, domain.Admin{
		Username: username,
		Name:     strings.TrimSpace(nameFlag),
		Email:    emailFlag,
		Phone:    strings.TrimSpace(phoneFlag),
		Country:  strings.ToUpper(strings.TrimSpace(countryFlag)),
	}, password)
	if err != nil {
		exitWithError(fmt.Errorf("failed to save admin: %w", err))
	}

	fmt.Printf("Admin %s (%s) saved, id %s\n", admin.Username, admin.Name, admin.ID)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
