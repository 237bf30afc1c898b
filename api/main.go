package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayres-originals/originals-api/internal/auth"
	"github.com/ayres-originals/originals-api/internal/config"
	"github.com/ayres-originals/originals-api/internal/db"
	"github.com/ayres-originals/originals-api/internal/http/ban"
	"github.com/ayres-originals/originals-api/internal/http/handlers"
	rl "github.com/ayres-originals/originals-api/internal/http/rate_limiter"
	"github.com/ayres-originals/originals-api/internal/http/router"
	"github.com/ayres-originals/originals-api/internal/mail"
	"github.com/ayres-originals/originals-api/internal/redissvc"
	"github.com/ayres-originals/originals-api/internal/repo"
	"github.com/ayres-originals/originals-api/internal/storage"
	"github.com/ayres-originals/originals-api/internal/verify"
	"github.com/joho/godotenv"
)

// @title Ayres Originals API
// @version 1.0
// @description Luxury product collection, AI verification and digital twin records.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		log.Println("auth.jwt_secret is empty, using the development secret")
	}
	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	handlers.SetRefreshTTL(cfg.Auth.RefreshTTL)
	handlers.SetResetLinkURL(cfg.Auth.ResetURL)

	mailer := newMailer(cfg)
	handlers.SetMailer(mailer)

	var bans *ban.Tracker
	if cfg.Redis.Addr != "" {
		redisService, err := redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer redisService.Close()

		handlers.SetTokenStore(auth.NewRedisTokenStore(redisService))
		bans = ban.NewTracker(redisService, mailer, ban.Options{
			MaxStrikes: cfg.RateLimit.MaxStrikes,
			Window:     cfg.RateLimit.Window,
			BanTTL:     cfg.RateLimit.BanTTL,
			AlertTo:    cfg.Mail.AlertTo,
		})
		go bans.StartDailySummary(ctx)
	} else {
		log.Println("redis.addr is empty, keeping tokens in memory and disabling bans")
		tokens := auth.NewInMemoryTokenStore()
		go tokens.StartCleaner(ctx, 30*time.Minute)
		handlers.SetTokenStore(tokens)
	}

	if cfg.Database.URL != "" {
		database, err := db.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatal("Could not connect to database:", err)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			log.Fatal(err)
		}
		usePostgres(database)
	} else {
		log.Println("database.url is empty, using in-memory repositories")
		useInMemory()
	}

	handlers.SetVerifier(verify.NewVerifier(
		verify.NewHTTPGateway(cfg.Gateway.URL, cfg.Gateway.APIKey, cfg.Gateway.Timeout),
		cfg.Gateway.Model,
	))
	if cfg.Gateway.APIKey == "" {
		log.Println("gateway.api_key is empty, verification requests will fail")
	}

	if cfg.S3.Endpoint != "" {
		store, err := storage.NewMinioImageStore(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.UseSSL)
		if err != nil {
			log.Fatalf("Could not create image store: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("Could not prepare bucket: %v", err)
		}
		handlers.SetImageStore(store)
	} else {
		log.Println("s3.endpoint is empty, image uploads are disabled")
	}

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx)

	server := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: router.NewRouter(router.Options{
			Limiter:        limiter,
			Bans:           bans,
			AccessPassword: cfg.Access.Password,
			RequestLogging: cfg.Server.RequestLogging,
			TrustProxy:     cfg.Server.TrustProxy,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutdown signal received")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

func newMailer(cfg config.Config) mail.Mailer {
	switch cfg.Mail.Provider {
	case "smtp":
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Server:       cfg.SMTP.Server,
			Port:         cfg.SMTP.Port,
			User:         cfg.SMTP.User,
			Password:     cfg.SMTP.Password,
			From:         cfg.SMTP.From,
			AuthDisabled: cfg.SMTP.AuthDisabled,
		})
	case "resend":
		return mail.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.SMTP.From)
	default:
		return mail.LogMailer{}
	}
}

func usePostgres(database *sql.DB) {
	handlers.SetProductRepo(repo.NewPostgresProductRepository(database))
	handlers.SetProfileRepo(repo.NewPostgresProfileRepository(database))
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))
	handlers.SetVerificationRepo(repo.NewPostgresVerificationRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
}

func useInMemory() {
	products := repo.NewInMemoryProductRepository()
	verifications := repo.NewInMemoryVerificationRepository()
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, verifications)

	handlers.SetProductRepo(products)
	handlers.SetProfileRepo(repo.NewInMemoryProfileRepository())
	handlers.SetUserRepo(repo.NewInMemoryUserRepository())
	handlers.SetVerificationRepo(verifications)
	handlers.SetMetricsRepo(metrics)
}
