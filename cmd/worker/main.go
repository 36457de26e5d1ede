// cmd/worker/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/config"
	"github.com/unclebandit/walink-backend/internal/db"
	"github.com/unclebandit/walink-backend/internal/logger"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/queue"
	"github.com/unclebandit/walink-backend/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}

	lg := logger.Named(logger.New(cfg.Logging.Level, cfg.Logging.Format), "worker")
	defer lg.Sync()

	ctx := context.Background()

	// Connect to DB
	sqlDB, err := db.Open(ctx, cfg.Database.Postgres)
	if err != nil {
		lg.Fatal("❌ postgres unavailable", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := db.OpenRedis(ctx, cfg.Database.Redis)
	if err != nil {
		lg.Fatal("❌ redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	// Connect to RabbitMQ
	q, err := queue.NewAMQPQueue(cfg.Queue.AMQPURL, lg, cfg.Queue.MaxRetries)
	if err != nil {
		lg.Fatal("❌ failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()

	if err := register(q, &repository.MessageRepository{DB: sqlDB}, &notify.RedisInbox{Client: rdb}, lg); err != nil {
		lg.Fatal("❌ failed to register consumers", zap.Error(err))
	}

	lg.Info("👷 Worker running, waiting for messages...")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	lg.Info("👋 worker stopped")
}

// register attaches the send-log and notification consumers to q.
func register(q queue.Queue, messages repository.MessageRepositoryInterface, inbox notify.Notifier, lg *zap.Logger) error {
	if err := queue.StartMessageSendSubscriber(q, messages, lg); err != nil {
		return err
	}
	return notify.StartInboxSubscriber(q, inbox, lg)
}
