// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/config"
	"github.com/unclebandit/walink-backend/internal/controller"
	"github.com/unclebandit/walink-backend/internal/db"
	"github.com/unclebandit/walink-backend/internal/handler"
	"github.com/unclebandit/walink-backend/internal/logger"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/queue"
	"github.com/unclebandit/walink-backend/internal/repository"
	"github.com/unclebandit/walink-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer lg.Sync()

	ctx := context.Background()

	// Init DB
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

	userRepo := &repository.UserRepository{DB: sqlDB}
	templateRepo := &repository.TemplateRepository{DB: sqlDB}
	contactRepo := &repository.ContactRepository{DB: sqlDB}
	campaignRepo := &repository.CampaignRepository{DB: sqlDB}
	messageRepo := &repository.MessageRepository{DB: sqlDB}

	inbox := &notify.RedisInbox{Client: rdb}
	q, closeQueue := openQueue(cfg.Queue, messageRepo, inbox, lg)
	defer closeQueue()

	notifier := &notify.QueueNotifier{
		Queue:    q,
		Fallback: &notify.LogNotifier{Log: logger.Named(lg, "notices")},
	}

	sessions := &service.SessionStore{
		TemplateRepo: templateRepo,
		ContactRepo:  contactRepo,
		CampaignRepo: campaignRepo,
		Redis:        rdb,
		TTL:          config.GetSeconds(cfg.Session.SnapshotTTL),
		Log:          logger.Named(lg, "sessions"),
	}

	authService := service.NewAuthService(cfg.Auth, userRepo, rdb, logger.Named(lg, "auth"))
	unsubscribe := authService.Subscribe(sessions.OnIdentityChange)
	defer unsubscribe()

	renderer := service.NewRenderer(cfg.Renderer, cfg.Messaging)

	progress := service.NewProgressSimulator(
		campaignRepo,
		notifier,
		cfg.Campaign.ProgressStep,
		config.GetDuration(cfg.Campaign.ProgressInterval),
		logger.Named(lg, "progress"),
	)
	progress.OnWrite = func(ownerID string) {
		sessions.Invalidate(context.Background(), ownerID)
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		Sessions:     sessions,
		Progress:     progress,
		Renderer:     renderer,
		Log:          logger.Named(lg, "campaigns"),
	}
	templateService := service.NewTemplateService(templateRepo, sessions, renderer, logger.Named(lg, "templates"))
	contactService := service.NewContactService(contactRepo, sessions, logger.Named(lg, "contacts"))
	messagingService := &service.MessagingService{
		Sessions:  sessions,
		Renderer:  renderer,
		Queue:     q,
		TestPhone: cfg.Messaging.TestPhone,
		Log:       logger.Named(lg, "messaging"),
	}
	statsService := &service.StatsService{Sessions: sessions, MessageRepo: messageRepo, Log: lg}

	r := controller.NewRouter(controller.Routes{
		Auth:      &controller.AuthController{AuthService: authService, Log: lg},
		Campaigns: &controller.CampaignController{CampaignService: campaignService, Log: lg},
		Templates: &controller.TemplateController{TemplateService: templateService, Log: lg},
		Contacts:  &controller.ContactController{ContactService: contactService, MessagingService: messagingService, Log: lg},
		Messaging: &controller.MessagingController{MessagingService: messagingService, StatsService: statsService, Inbox: inbox, Log: lg},
		Views:     handler.NewCampaignHandler(campaignService, lg),

		Authenticator: authService,
		Log:           logger.Named(lg, "http"),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("🚀 Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("❌ server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lg.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("❌ graceful shutdown failed", zap.Error(err))
	}
	campaignService.Shutdown()
	lg.Info("👋 server stopped")
}

// openQueue returns the configured queue. The in-memory queue is consumed in-process; with
// RabbitMQ the consumers run in cmd/worker.
func openQueue(cfg config.QueueConfig, messages repository.MessageRepositoryInterface, inbox *notify.RedisInbox, lg *zap.Logger) (queue.Queue, func()) {
	qlog := logger.Named(lg, "queue")

	if cfg.Driver == "amqp" {
		aq, err := queue.NewAMQPQueue(cfg.AMQPURL, qlog, cfg.MaxRetries)
		if err != nil {
			lg.Fatal("❌ rabbitmq unavailable", zap.Error(err))
		}
		return aq, func() { aq.Close() }
	}

	mq := queue.NewInMemoryQueue(qlog, cfg.MaxRetries)
	if err := queue.StartMessageSendSubscriber(mq, messages, qlog); err != nil {
		lg.Fatal("❌ failed to subscribe to send-log topic", zap.Error(err))
	}
	if err := notify.StartInboxSubscriber(mq, inbox, qlog); err != nil {
		lg.Fatal("❌ failed to subscribe to notifications topic", zap.Error(err))
	}
	return mq, mq.Wait
}
