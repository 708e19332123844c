package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"policy-data/internal/config"
	"policy-data/internal/database"
	"policy-data/internal/events"
	httpapi "policy-data/internal/http"
	"policy-data/internal/importer"
	"policy-data/internal/logger"
	"policy-data/internal/repository"
	"policy-data/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "policy-data")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	// 导入事件的下游：Redis Stream（可选）、webhook（可选）
	var sinks []httpapi.EventSink
	var redisClient *redis.Client
	if cfg.Import.EventsStream != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		publisher := events.NewStreamPublisher(redisClient, cfg.Import.EventsStream, log)
		sinks = append(sinks, publisher.Publish)
	}
	if cfg.Import.WebhookURL != "" {
		notifier := service.NewWebhookNotifier(cfg.Import.WebhookURL, log)
		sinks = append(sinks, func(_ context.Context, event importer.Event) {
			notifier.NotifyTerminal(event)
		})
	}

	// Optional DB-backed mode; fall back to in-memory repos so the service
	// still starts for local dev without Postgres.
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for policy-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}

	var usersRepo repository.UsersRepo
	var policiesRepo repository.PoliciesRepo
	var messagesRepo repository.MessagesRepo
	var storeFactory importer.StoreFactory

	if db != nil {
		usersRepo = repository.NewPostgresUsersRepo(db)
		policiesRepo = repository.NewPostgresPoliciesRepo(db)
		messagesRepo = repository.NewPostgresMessagesRepo(db)
		// 每次导入运行独立建连（与请求路径隔离，退出路径统一释放）
		storeFactory = importer.NewPostgresStoreFactory(cfg.Database.GetDSN())
	} else {
		agents := repository.NewMemoryAgentsRepo()
		users := repository.NewMemoryUsersRepo()
		accounts := repository.NewMemoryAccountsRepo()
		lobs := repository.NewMemoryLOBsRepo()
		carriers := repository.NewMemoryCarriersRepo()
		policies := repository.NewMemoryPoliciesRepo(users, agents, accounts, lobs, carriers)
		memStore := importer.NewMemoryStore(agents, users, accounts, lobs, carriers, policies)

		usersRepo = users
		policiesRepo = policies
		messagesRepo = repository.NewMemoryMessagesRepo()
		storeFactory = func() (*importer.Store, error) { return memStore, nil }
	}

	runner := importer.NewRunner(storeFactory, log)
	policyHandler := httpapi.NewPolicyHandler(usersRepo, policiesRepo, runner, cfg.Import.UploadDir, sinks, log)
	scheduleHandler := httpapi.NewScheduleHandler(messagesRepo, log)

	router := httpapi.NewRouter(log)
	router.RegisterPolicyRoutes(policyHandler)
	router.RegisterScheduleRoutes(scheduleHandler)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)

	scheduleHandler.StopAll()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
