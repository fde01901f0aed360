package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agro-market.backend/internal/config"
	"agro-market.backend/internal/domain/entities"
	domainerrors "agro-market.backend/internal/domain/errors"
	domainrepo "agro-market.backend/internal/domain/repositories"
	pgsource "agro-market.backend/internal/infrastructure/datasources/postgres"
	"agro-market.backend/internal/infrastructure/repositories"
	"agro-market.backend/pkg/crypto"
	"agro-market.backend/pkg/utils"
)

const minPasswordLength = 8

var openAdminSQLDB = func(cfg config.DatabaseConfig) (*sql.DB, error) {
	return pgsource.NewConnection(cfg)
}

var openAdminDB = func(conn *sql.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: conn, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false})
}

type createAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error)
	getenv  func(string) string
	now     func() time.Time
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultCreateAdminDeps() createAdminDeps {
	return createAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (domainrepo.UserRepository, io.Closer, error) {
			sqlDB, err := openAdminSQLDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			db, err := openAdminDB(sqlDB)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to init gorm: %w", err)
			}
			return repositories.NewUserRepository(db), sqlDB, nil
		},
		getenv: os.Getenv,
		now:    func() time.Time { return time.Now().UTC() },
		out:    os.Stdout,
	}
}

// runCreateAdmin creates an administrador account, or promotes the existing
// account with that email. The password comes from ADMIN_PASSWORD so it
// stays out of shell history.
func runCreateAdmin(args []string, deps createAdminDeps) error {
	def := defaultCreateAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.getenv == nil {
		deps.getenv = def.getenv
	}
	if deps.now == nil {
		deps.now = def.now
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "admin email (required)")
	nameFlag := fs.String("name", "Administrador", "display name for new accounts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(*emailFlag))
	if email == "" {
		return errors.New("--email is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	users, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	now := deps.now()

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == entities.UserRoleAdmin {
			_, _ = fmt.Fprintf(deps.out, "user %s is already administrador\n", existing.ID)
			return nil
		}
		existing.Role = entities.UserRoleAdmin
		existing.Verified = true
		existing.UpdatedAt = now
		if err := users.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed promoting user: %w", err)
		}
		_, _ = fmt.Fprintf(deps.out, "promoted user_id=%s to administrador\n", existing.ID)
		return nil
	case !errors.Is(err, domainerrors.ErrNotFound):
		return fmt.Errorf("failed to load user %s: %w", email, err)
	}

	password := deps.getenv("ADMIN_PASSWORD")
	if len(password) < minPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must have at least %d characters", minPasswordLength)
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:                utils.GenerateUUIDv7(),
		Email:             email,
		Name:              strings.TrimSpace(*nameFlag),
		PasswordHash:      hash,
		Role:              entities.UserRoleAdmin,
		Verified:          true,
		Active:            true,
		DailyListingLimit: cfg.Marketplace.DailyListingLimit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed creating admin: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "created administrador user_id=%s email=%s\n", user.ID, user.Email)
	return nil
}

func main() {
	if err := runCreateAdmin(os.Args[1:], defaultCreateAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
