package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lingofolio/internal/config"
	"lingofolio/internal/database"
	"lingofolio/internal/extract"
	"lingofolio/internal/handlers"
	"lingofolio/internal/logger"
	"lingofolio/internal/notify"
	"lingofolio/internal/repository"
	"lingofolio/internal/security"
	"lingofolio/internal/service"
	"lingofolio/internal/storage"
)

// app holds everything that has to be stopped on shutdown
type app struct {
	db       *database.DB
	practice *service.PracticeService
	cron     *cron.Cron
	handler  http.Handler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Serve the probes right away and swap in the API once startup has finished.
	var current atomic.Value
	current.Store(handlers.BootHandler(log))

	server := &http.Server{
		Addr: ":" + cfg.ServerPort,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current.Load().(http.Handler).ServeHTTP(w, r)
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := initialize(ctx, cfg, log)
	if err != nil {
		log.Fatal("Startup failed", zap.Error(err))
	}
	current.Store(a.handler)
	handlers.MarkReady()
	log.Info("Server ready")

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	<-a.cron.Stop().Done()
	a.practice.Shutdown()
	if err := a.db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
}

func initialize(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	handlers.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection established", zap.String("type", db.Dialect.Name()))
	handlers.CompleteStep(handlers.StepDatabase)

	handlers.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(ctx, cfg.MigrationsPath, log); err != nil {
		db.Close()
		return nil, err
	}
	handlers.CompleteStep(handlers.StepMigrations)

	handlers.SetCurrentStep(handlers.StepServices)

	vocabularyRepo := repository.NewVocabularyRepository(db)
	verbRepo := repository.NewVerbRepository(db)
	grammarRepo := repository.NewGrammarRepository(db)
	notebookRepo := repository.NewNotebookRepository(db)
	contactRepo := repository.NewContactRepository(db)

	vocabularyService := service.NewVocabularyService(vocabularyRepo, log)
	practiceService := service.NewPracticeService(vocabularyService, service.PracticeOptions{
		QuizAdvanceDelay:   cfg.Practice.QuizAdvanceDelay,
		MatchFeedbackDelay: cfg.Practice.MatchFeedbackDelay,
		IdleTTL:            cfg.Practice.SessionIdleTTL,
	}, log)
	referenceService := service.NewReferenceService(verbRepo, grammarRepo, notebookRepo, log)

	// AWS is only needed for uploads and email notifications.
	var awsCfg aws.Config
	if cfg.S3.Bucket != "" || cfg.SES.FromEmail != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	var objects storage.ObjectStore
	if cfg.S3.Bucket != "" {
		objects = storage.NewS3Store(awsCfg, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
		log.Info("Uploads enabled", zap.String("bucket", cfg.S3.Bucket))
	} else {
		log.Info("Uploads disabled: s3.bucket not configured")
	}
	uploadService := service.NewUploadService(objects, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes, log)

	email := notify.NewEmailNotifier(awsCfg, cfg.SES.FromEmail, cfg.SES.FromName, cfg.Contact.Recipient, log)
	telegram, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
	if err != nil {
		// The contact form still stores messages without Telegram.
		log.Warn("Telegram notifications unavailable", zap.Error(err))
		telegram = nil
	}
	var notifiers []notify.Notifier
	notifiers = append(notifiers, email)
	if telegram != nil {
		notifiers = append(notifiers, telegram)
	}
	contactService := service.NewContactService(contactRepo, log, notifiers...)

	limiter := security.NewRateLimiter(cfg.Contact.RateLimit, cfg.Contact.RateLimitWindow)

	scheduler := cron.New()
	if _, err := practiceService.ScheduleSweep(scheduler, cfg.Practice.SweepSchedule); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := vocabularyService.ScheduleRefresh(scheduler, cfg.Vocabulary.RefreshSchedule); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := scheduler.AddFunc("@every "+cfg.Contact.RateLimitWindow.String(), func() {
		if removed := limiter.Cleanup(); removed > 0 {
			log.Debug("Rate limiter cleaned up", zap.Int("removed", removed))
		}
	}); err != nil {
		db.Close()
		return nil, err
	}
	scheduler.Start()

	router := handlers.Router{
		Health:         handlers.NewHealthHandler(db),
		Words:          handlers.NewWordsHandler(vocabularyService, extract.New(nil, log), log),
		Practice:       handlers.NewPracticeHandler(practiceService, log),
		Reference:      handlers.NewReferenceHandler(referenceService, log),
		Contact:        handlers.NewContactHandler(contactService, log),
		Uploads:        handlers.NewUploadHandler(uploadService, log),
		ContactLimiter: limiter,
		Logger:         log,
	}
	handlers.CompleteStep(handlers.StepServices)

	return &app{
		db:       db,
		practice: practiceService,
		cron:     scheduler,
		handler:  router.Handler(),
	}, nil
}
