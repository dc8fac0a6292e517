package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/config"
	"github.com/arcaneplugins/levelledmobs/internal/debug"
	"github.com/arcaneplugins/levelledmobs/internal/handlers"
	"github.com/arcaneplugins/levelledmobs/internal/metrics"
	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/queue"
	"github.com/arcaneplugins/levelledmobs/internal/server"
	"github.com/arcaneplugins/levelledmobs/internal/server/middlewares"
	"github.com/arcaneplugins/levelledmobs/internal/services"
	"github.com/arcaneplugins/levelledmobs/internal/store"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

const (
	shutdownTimeout = 10 * time.Second
	pruneInterval   = time.Hour
)

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the mob processing queue and the admin API",
		PreRunE: cobrautil.SyncViperPreRunE(config.EnvPrefix),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			zap.S().Infow("configuration loaded", "config", cfg.DebugMap())

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the configuration file")

	return cmd
}

func run(ctx context.Context, cfg *config.Configuration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(cfg.DBPath())
	if err != nil {
		return err
	}
	st := store.NewStore(db)
	defer func() { _ = st.Close() }()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate the store: %w", err)
	}

	sched := scheduler.NewScheduler()
	defer sched.Close()

	debugMgr, err := newDebugManager(sched, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	journal := services.NewRestartJournal(st)
	leveler := services.NewLeveler(
		services.RangeApplier{Min: cfg.Levelling.MinLevel, Max: cfg.Levelling.MaxLevel},
		cfg.Queue.ProcessTimeout,
		debugMgr,
	)

	manager := queue.New(sched, leveler,
		queue.WithWorkers(cfg.Queue.NumWorkers),
		queue.WithSaturationThreshold(cfg.Queue.SaturationThreshold),
		queue.WithPollInterval(cfg.Queue.PollInterval),
		queue.WithDebugSink(debugMgr),
		queue.WithRules(queue.StaticRules(cfg.Queue.PlayerLevellingEnabled)),
		queue.WithMetrics(m),
		queue.WithRestartHook(journal.Record),
		queue.WithIgnoreMobsWithNoPlayerContext(cfg.Queue.IgnoreMobsWithNoPlayerContext),
	)

	queueSrv := services.NewQueueService(manager, sched, st, cfg.Queue.HealthCheckInterval)
	if err := queueSrv.RestoreSettings(ctx); err != nil {
		return err
	}

	startup := services.NewStartup(sched,
		services.WithItemsDelay(cfg.Startup.ItemsDelay),
		services.WithMaxTries(cfg.Startup.PendingItemsMaxTries),
		services.WithDropsReporter(services.NewDebugDropsReporter(debugMgr, cfg.Startup.CustomDrops), cfg.Startup.ShowCustomDropsDebug),
	)

	h := handlers.New(queueSrv, journal, debugMgr, startup)

	opts := []server.Option{server.WithMetrics(reg)}
	if cfg.Auth.Enabled {
		secret, err := middlewares.ReadSecret(cfg.Auth.SecretFile)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithAuth(middlewares.Auth(secret)))
	}

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlersWithOptions(router, h, v1.RegisterOptions{
			EnqueueMiddlewares: []gin.HandlerFunc{
				middlewares.RateLimit(cfg.Server.EnqueueRateLimit, cfg.Server.EnqueueBurst),
			},
		})
	}, opts...)
	if err != nil {
		return err
	}

	queueSrv.Start()

	if cfg.Store.RestartRetention > 0 {
		sched.RunAtFixedRate(pruneInterval, pruneInterval, func(ctx context.Context) error {
			_, err := journal.Prune(ctx, cfg.Store.RestartRetention)
			return err
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down")

		queueSrv.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	return g.Wait()
}

func newDebugManager(sched *scheduler.Scheduler, cfg *config.Configuration) (*debug.Manager, error) {
	types, err := cfg.DebugTypes()
	if err != nil {
		return nil, err
	}

	debugMgr := debug.NewManager(sched)
	if len(types) > 0 {
		debugMgr.SetFilters(models.DebugFilters{Types: types})
	}
	debugMgr.SetDisableAfter(cfg.Debug.DisableAfter)
	if cfg.Debug.Enabled {
		debugMgr.Enable(cfg.Debug.DisableAfter > 0, cfg.Debug.BypassAllFilters)
	}

	return debugMgr, nil
}
