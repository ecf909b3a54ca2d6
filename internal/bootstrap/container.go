package bootstrap

import (
	"context"
	"log"
	"sync"
	"time"

	"chatroom-be/internal/config"
	"chatroom-be/internal/controller"
	"chatroom-be/internal/pkg/logger"
	"chatroom-be/internal/pkg/serverutils"
	"chatroom-be/internal/repository/memory"
	"chatroom-be/internal/service"
	pktNats "chatroom-be/pkg/nats"
	"chatroom-be/pkg/snapshot"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	PresenceController controller.IPresenceController
	StatusController   controller.IStatusController

	// Auth middleware shared by every protected route group
	SessionMiddleware fiber.Handler

	// Background Services (run by Start)
	BackupService service.IBackupService

	accounts      *memory.AccountStore
	sysLogger     logger.ILogger
	backupLogger  logger.ILogger
	sweepInterval time.Duration
	loops         sync.WaitGroup
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Owned State Stores
	accounts := memory.NewAccountStore(cfg.Chat.SessionTTL)
	messageLog := memory.NewMessageLog(cfg.Chat.MessageCap)
	presence := memory.NewPresenceRepository(cfg.Chat.PresenceTTL, cfg.Chat.TypingTTL, cfg.Chat.SweepInterval)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(cfg.App.StateChangedTopic, pubSub)

	// NATS (optional; the engine runs without it)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// 4. Durability Backend
	snapStore := newSnapshotStore(cfg, sysLogger)

	backupLogger := logger.NewIsolatedLogger("logs/backup.log")
	backupService := service.NewBackupService(
		accounts,
		messageLog,
		snapStore,
		pubSub,
		cfg.App.StateChangedTopic,
		cfg.Snapshot.Interval,
		backupLogger,
	)

	// 5. Services
	authService := service.NewAuthService(accounts, presence, publisherService, natsPub, cfg.Chat.HashIterations)
	chatService := service.NewChatService(accounts, messageLog, publisherService, natsPub, cfg.Chat.MessageMaxLen)
	presenceService := service.NewPresenceService(accounts, presence)

	// 6. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(chatService),
		PresenceController: controller.NewPresenceController(presenceService),
		StatusController:   controller.NewStatusController(messageLog),

		SessionMiddleware: serverutils.SessionMiddleware(accounts, presence),

		BackupService: backupService,

		accounts:      accounts,
		sysLogger:     sysLogger,
		backupLogger:  backupLogger,
		sweepInterval: cfg.Chat.SweepInterval,
	}
}

// Start restores state from the durability backend and launches the
// background loops. It must be called before serving traffic.
func (c *Container) Start(ctx context.Context) error {
	if err := c.BackupService.Restore(ctx); err != nil {
		return err
	}

	c.loops.Add(2)
	go func() {
		defer c.loops.Done()
		if err := c.BackupService.Run(ctx); err != nil {
			c.sysLogger.Error("Bootstrap", "Backup loop stopped", map[string]interface{}{"error": err.Error()})
		}
	}()
	go func() {
		defer c.loops.Done()
		c.runSessionSweep(ctx)
	}()

	return nil
}

// Shutdown waits for the background loops to drain (the backup loop takes a
// final snapshot on the way out) and flushes the loggers. The loops stop
// when the context passed to Start is cancelled.
func (c *Container) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.loops.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		c.sysLogger.Warn("Bootstrap", "Timed out waiting for background loops", nil)
	}

	_ = c.sysLogger.Sync()
	_ = c.backupLogger.Sync()
}

func (c *Container) runSessionSweep(ctx context.Context) {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.accounts.SweepExpiredSessions(); removed > 0 {
				c.sysLogger.Info("Sweep", "Expired sessions removed", map[string]interface{}{"count": removed})
			}
		case <-ctx.Done():
			return
		}
	}
}

func newSnapshotStore(cfg *config.Config, sysLogger logger.ILogger) snapshot.Store {
	switch cfg.Snapshot.Provider {
	case "redis":
		store, err := snapshot.NewRedisStore(cfg.Snapshot.RedisURL, cfg.Snapshot.RedisKey)
		if err != nil {
			log.Printf("[WARN] Failed to create Redis snapshot store: %v", err)
			return nil
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			// Not fatal: pushes will be retried every tick.
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		return store
	case "s3":
		store, err := snapshot.NewS3Store(context.Background(), snapshot.S3Config{
			Region:    cfg.Snapshot.S3Region,
			Endpoint:  cfg.Snapshot.S3Endpoint,
			AccessKey: cfg.Snapshot.S3AccessKey,
			SecretKey: cfg.Snapshot.S3SecretKey,
			Bucket:    cfg.Snapshot.S3Bucket,
			Key:       cfg.Snapshot.S3Key,
		})
		if err != nil {
			log.Printf("[WARN] Failed to create S3 snapshot store: %v", err)
			return nil
		}
		return store
	case "none":
		return nil
	default:
		sysLogger.Warn("Bootstrap", "Unknown snapshot provider, backups disabled", map[string]interface{}{
			"provider": cfg.Snapshot.Provider,
		})
		return nil
	}
}
