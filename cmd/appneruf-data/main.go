package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/common/database"
	"github.com/nerufirm/appneruf/internal/common/logger"
	commonmqtt "github.com/nerufirm/appneruf/internal/common/mqtt"
	commonredis "github.com/nerufirm/appneruf/internal/common/redis"
	"github.com/nerufirm/appneruf/internal/config"
	httpapi "github.com/nerufirm/appneruf/internal/http"
	chatmqtt "github.com/nerufirm/appneruf/internal/mqtt"
	"github.com/nerufirm/appneruf/internal/repository"
	"github.com/nerufirm/appneruf/internal/scheduler"
	"github.com/nerufirm/appneruf/internal/service"
	"github.com/nerufirm/appneruf/internal/store"
)

const serviceName = "appneruf-data"

// repositories 一组数据访问实现（Postgres 或内存）
type repositories struct {
	residents    repository.ResidentsRepository
	staff        repository.StaffRepository
	chatLogs     repository.ChatLogsRepository
	dailyRecords repository.DailyRecordsRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis：session + 同步事件流；不可用时 session 退回内存，事件不发布
	redisClient := commonredis.NewRedisClient(&cfg.Redis)
	var kv store.KV
	var notifier service.SyncNotifier
	if err := commonredis.Ping(ctx, redisClient); err != nil {
		log.Warn("Redis unavailable, using in-memory sessions", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = commonredis.Close(redisClient)
		redisClient = nil
		kv = store.NewMemoryKV()
	} else {
		kv = store.NewRedisKV(redisClient)
		notifier = store.NewSyncStreamPublisher(redisClient, cfg.Chatwork.SyncStream)
	}

	db := openDatabase(cfg, log)
	repos := buildRepositories(db, cfg, log)

	names := service.NewNameMapResolver(repos.residents, nil, cfg.Chatwork.NameMapTTL, log)
	syncService := service.NewChatworkSyncService(names, repos.chatLogs, notifier, log)
	sessions := store.NewSessionStore(kv, cfg.SessionTTL)
	authService := service.NewAuthService(repos.staff, sessions, log)
	residentService := service.NewResidentService(repos.residents, repos.dailyRecords, repos.chatLogs, log)
	recordService := service.NewRecordService(repos.residents, repos.dailyRecords, log)
	dashboardService := service.NewDashboardService(repos.dailyRecords, repos.chatLogs, nil, log)

	if cfg.Chatwork.WebhookSecret == "" {
		log.Warn("CHATWORK_WEBHOOK_SECRET is empty, /api/chatwork-sync will reject every request")
	}

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterChatworkSyncRoutes(httpapi.NewChatworkSyncHandler(syncService, cfg.Chatwork.WebhookSecret, log))
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, cfg.SessionTTL, cfg.HTTP.SecureCookie, log), authService)
	router.RegisterResidentRoutes(httpapi.NewResidentHandler(residentService, recordService, log), authService)
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(dashboardService, log), authService)

	sched, err := scheduler.New(log)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if cfg.Chatwork.NameMapRefresh > 0 {
		if err := sched.AddNameMapRefresh(names, cfg.Chatwork.NameMapRefresh); err != nil {
			log.Fatal("Failed to schedule name map refresh", zap.Error(err))
		}
	}
	sched.Start()

	// MQTT 入口（可选）
	var mqttClient *commonmqtt.Client
	if cfg.MQTT.Enabled {
		broker := chatmqtt.NewChatworkMQTTBroker(syncService, log)
		c, err := commonmqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Warn("MQTT enabled but connection failed, skipping MQTT ingestion", zap.Error(err))
		} else if err := c.Subscribe(cfg.MQTT.Topic, cfg.MQTT.QoS, broker.HandleMessage); err != nil {
			log.Warn("MQTT subscribe failed", zap.String("topic", cfg.MQTT.Topic), zap.Error(err))
			c.Disconnect()
		} else {
			mqttClient = c
			log.Info("MQTT ingestion enabled", zap.String("topic", cfg.MQTT.Topic))
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if err := sched.Stop(); err != nil {
		log.Warn("Scheduler shutdown failed", zap.Error(err))
	}
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	if redisClient != nil {
		_ = commonredis.Close(redisClient)
	}
	if db != nil {
		_ = database.Close(db)
	}
}

// openDatabase DB_ENABLED 时连接并迁移；失败返回 nil（回退内存模式）
func openDatabase(cfg *config.Config, log *zap.Logger) *sqlx.DB {
	if !cfg.DBEnabled {
		return nil
	}
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		return nil
	}
	if cfg.DBMigrate {
		if err := database.ApplyMigrations(db.DB, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}
	log.Info("DB enabled for appneruf-data")
	return db
}

func buildRepositories(db *sqlx.DB, cfg *config.Config, log *zap.Logger) repositories {
	if db != nil {
		return repositories{
			residents:    repository.NewPostgresResidentsRepository(db),
			staff:        repository.NewPostgresStaffRepository(db),
			chatLogs:     repository.NewPostgresChatLogsRepository(db),
			dailyRecords: repository.NewPostgresDailyRecordsRepository(db),
		}
	}

	// DB 未就绪：内存 repo 支持联测
	mem := repository.NewMemoryStore()
	if cfg.SeedDemo {
		seedDemo(mem)
		log.Info("Seeded in-memory demo roster")
	}
	return repositories{
		residents:    mem,
		staff:        mem,
		chatLogs:     mem,
		dailyRecords: mem,
	}
}
