package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/config"
	boltInfra "github.com/fastygo/taskboard/internal/infrastructure/bolt"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskboard/internal/infrastructure/postgres"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
	"github.com/fastygo/taskboard/repository/postgres"
	"github.com/fastygo/taskboard/usecase"
	workspaceUC "github.com/fastygo/taskboard/usecase/workspace"
)

// storage is the repository set of the configured driver.
type storage struct {
	driver     string
	tasks      repository.TaskRepository
	tags       repository.TagRepository
	workspaces repository.WorkspaceRepository
	invites    repository.InviteRepository
	pinger     monitor.Pinger
}

// openStorage connects the configured driver, applies pending migrations and
// registers its shutdown with manager.
func openStorage(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		})
		return &storage{
			driver:     config.DriverPostgres,
			tasks:      postgres.NewTaskRepository(pool),
			tags:       postgres.NewTagRepository(pool),
			workspaces: postgres.NewWorkspaceRepository(pool),
			invites:    postgres.NewInviteRepository(pool),
			pinger:     pool,
		}, nil

	case config.DriverBolt:
		store, err := boltInfra.Open(cfg.Storage.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("bolt: %w", err)
		}
		manager.Register("bolt", func(context.Context) error {
			return store.Close()
		})
		if cfg.Migrations.Enabled {
			if err := boltRepo.Migrate(store, logger); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		logger.Info("opened bolt store", zap.String("path", cfg.Storage.BoltPath))
		return &storage{
			driver:     config.DriverBolt,
			tasks:      boltRepo.NewTaskRepository(store),
			tags:       boltRepo.NewTagRepository(store),
			workspaces: boltRepo.NewWorkspaceRepository(store),
			invites:    boltRepo.NewInviteRepository(store),
			pinger:     store,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func newWorkspaceUseCase(cfg *config.Config, st *storage, logger *zap.Logger) *workspaceUC.UseCase {
	return workspaceUC.New(st.workspaces, st.invites, workspaceUC.Options{
		DefaultName:   cfg.Workspace.DefaultName,
		PreferenceKey: cfg.Workspace.CookieName,
		Preference: usecase.PreferenceOptions{
			Path:     "/",
			HTTPOnly: true,
			SameSite: "lax",
			Secure:   cfg.Workspace.CookieSecure,
			MaxAge:   cfg.Workspace.CookieMaxAge,
		},
		InviteTTL: cfg.Invite.TTL,
	}, logger)
}
