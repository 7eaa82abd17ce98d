package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskboard/internal/infrastructure/redis"
	"github.com/fastygo/taskboard/internal/middleware"
	"github.com/fastygo/taskboard/internal/router"
	"github.com/fastygo/taskboard/internal/services"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/logger"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	"github.com/fastygo/taskboard/usecase"
	"github.com/fastygo/taskboard/usecase/actions"
	authUC "github.com/fastygo/taskboard/usecase/auth"
	boardUC "github.com/fastygo/taskboard/usecase/board"
	tagUC "github.com/fastygo/taskboard/usecase/tag"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "taskboard",
		Short:        "Multi-tenant kanban board service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	invites := &cobra.Command{
		Use:   "invites",
		Short: "Manage workspace invites",
	}
	invites.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired invites once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return purgeInvites(cmd.Context())
		},
	})

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending storage migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context())
			},
		},
		invites,
	)
	return root
}

// bootstrap loads configuration and the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}
	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger error: %w", err)
	}
	return cfg, zapLogger, nil
}

func migrate(ctx context.Context) error {
	cfg, zapLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	cfg.Migrations.Enabled = true
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	defer manager.Shutdown(context.Background())

	if _, err := openStorage(ctx, cfg, manager, zapLogger); err != nil {
		return err
	}
	zapLogger.Info("storage is up to date", zap.String("driver", cfg.Storage.Driver))
	return nil
}

func purgeInvites(ctx context.Context) error {
	cfg, zapLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	defer manager.Shutdown(context.Background())

	st, err := openStorage(ctx, cfg, manager, zapLogger)
	if err != nil {
		return err
	}
	n, err := newWorkspaceUseCase(cfg, st, zapLogger).PurgeExpiredInvites(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("purged %d expired invite(s)\n", n)
	return nil
}

func serve() error {
	cfg, zapLogger, err := bootstrap()
	if err != nil {
		log.Print(err)
		return err
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	stopListening := manager.Listen(cancel)
	defer stopListening()

	st, err := openStorage(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Error("storage unavailable", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		return err
	}

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
	if err != nil {
		zapLogger.Error("redis connection failed", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		return err
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(st.pinger, st.driver, redisClient, zapLogger)
	_ = mon.Refresh(appCtx)

	boardCache := redisRepo.NewBoardCache(redisClient, cfg.Cache.BoardTTL)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)

	workspaceUseCase := newWorkspaceUseCase(cfg, st, zapLogger)
	authUseCase := authUC.New(sessionRepo, zapLogger)
	taskUseCase := taskUC.New(st.tasks, st.tags, workspaceUseCase, boardCache, zapLogger)
	tagUseCase := tagUC.New(st.tags, workspaceUseCase, boardCache, zapLogger)
	boardUseCase := boardUC.New(st.tasks, st.tags, workspaceUseCase, boardCache, zapLogger)

	scheduler := services.NewScheduler(time.Minute, zapLogger)
	if err := scheduler.Add("health_refresh", cfg.Cache.HealthSchedule, mon.Refresh); err != nil {
		zapLogger.Error("invalid health schedule", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		return err
	}
	if err := scheduler.Add("invite_purge", cfg.Invite.PurgeSchedule, func(ctx context.Context) error {
		_, err := workspaceUseCase.PurgeExpiredInvites(ctx)
		return err
	}); err != nil {
		zapLogger.Error("invalid invite purge schedule", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		return err
	}
	scheduler.Start()
	manager.Register("scheduler", scheduler.Stop)

	dispatcher := usecase.NewDispatcher(zapLogger)
	actions.Register(dispatcher, actions.Services{
		Tasks:      taskUseCase,
		Tags:       tagUseCase,
		Board:      boardUseCase,
		Workspaces: workspaceUseCase,
		Auth:       authUseCase,
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.Cookie),
		Board:     apiHandler.NewBoardHandler(boardUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, boardUseCase, ctxAdapter, zapLogger),
		Tag:       apiHandler.NewTagHandler(tagUseCase, boardUseCase, ctxAdapter, zapLogger),
		Workspace: apiHandler.NewWorkspaceHandler(workspaceUseCase, ctxAdapter, zapLogger),
		Action:    apiHandler.NewActionHandler(dispatcher, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(middleware.AuthConfig{
		Secret:      cfg.JWT.Secret,
		Issuer:      cfg.JWT.Issuer,
		Revocations: authUseCase,
		Cookie:      cfg.JWT.Cookie,
	}, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", st.driver),
			zap.Strings("actions", dispatcher.Actions()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server crashed", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
		return err
	}
	return nil
}
