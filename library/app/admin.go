package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/database"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/validate"
)

// Migrate runs a goose command without applying pending migrations first.
func Migrate(ctx context.Context, cfg *config.Config, command string, args ...string) error {
	log := logger.NewLogger(cfg.Log, "libraryctl")
	db, err := database.NewDB(ctx, &cfg.Database, nil, log)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(db.DB, cfg.Database.Driver, migrations.MigrationFiles, log, command, args...)
}

func SeedSampleBooks(ctx context.Context, cfg *config.Config) error {
	svc, db, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return svc.SeedSampleBooks(ctx)
}

// CreateLibrarian applies the same account rules as self-registration.
func CreateLibrarian(ctx context.Context, cfg *config.Config, username, email, password string) (int64, error) {
	req := model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}
	req.Normalize()
	if err := validate.NewCustomValidator().Struct(&req); err != nil {
		return 0, err
	}
	svc, db, err := openService(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	id, err := svc.CreateLibrarian(ctx, req)
	return id, errors.Wrap(err, "create librarian")
}

func openService(ctx context.Context, cfg *config.Config) (*service.Service, *sqlx.DB, error) {
	log := logger.NewLogger(cfg.Log, "libraryctl")
	db, err := database.NewDB(ctx, &cfg.Database, migrations.MigrationFiles, log)
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return service.NewService(repo, auth.NewTokens(cfg.Auth), log), db, nil
}
