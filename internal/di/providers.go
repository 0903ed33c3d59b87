package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"account-auth-service/internal/app"
	"account-auth-service/internal/config"
	"account-auth-service/internal/database"
	"account-auth-service/internal/http/handler"
	"account-auth-service/internal/http/middleware"
	"account-auth-service/internal/http/router"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/repository"
	"account-auth-service/internal/security"
	"account-auth-service/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var RepositorySet = wire.NewSet(
	provideOpenDB,
	repository.NewStore,
	provideAccountRepository,
	provideLoginLinkRepository,
	provideEmailVerificationRepository,
	providePhoneVerificationRepository,
	provideSessionTokenRepository,
)

var SecuritySet = wire.NewSet(provideGoogleVerifier)

var ServiceSet = wire.NewSet(
	provideNotifier,
	provideVerificationService,
	service.NewTokenService,
	service.NewAuthService,
	provideAccountService,
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	provideUserHandler,
	provideVerificationHandler,
	provideRateLimitBackend,
	provideRouterDependencies,
	provideRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	logger := observability.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideAccountRepository(s *repository.Store) repository.AccountRepository {
	return s.Accounts
}

func provideLoginLinkRepository(s *repository.Store) repository.LoginLinkRepository {
	return s.Links
}

func provideEmailVerificationRepository(s *repository.Store) repository.EmailVerificationRepository {
	return s.EmailVerifications
}

func providePhoneVerificationRepository(s *repository.Store) repository.PhoneVerificationRepository {
	return s.PhoneVerifications
}

func provideSessionTokenRepository(s *repository.Store) repository.SessionTokenRepository {
	return s.Tokens
}

func provideGoogleVerifier(cfg *config.Config) security.IDTokenVerifier {
	return security.NewGoogleVerifier(cfg.GoogleWebClientID)
}

// provideNotifier binds the log-only notifier for every deployment mode; it
// is the seam where a provider-backed implementation slots in.
func provideNotifier(logger *slog.Logger) service.Notifier {
	return service.NewDevNotifier(logger)
}

func provideVerificationService(
	emails repository.EmailVerificationRepository,
	phones repository.PhoneVerificationRepository,
	accounts repository.AccountRepository,
	links repository.LoginLinkRepository,
	notifier service.Notifier,
	logger *slog.Logger,
	cfg *config.Config,
) *service.VerificationService {
	return service.NewVerificationService(emails, phones, accounts, links, notifier, logger, cfg.Production())
}

func provideAccountService(
	accounts repository.AccountRepository,
	links repository.LoginLinkRepository,
	tokens *service.TokenService,
) *service.AccountService {
	return service.NewAccountService(accounts, links, tokens)
}

func provideAuthHandler(authSvc *service.AuthService, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(authSvc, cfg.DefaultLocale)
}

func provideUserHandler(accountSvc *service.AccountService, cfg *config.Config) *handler.UserHandler {
	return handler.NewUserHandler(accountSvc, cfg.DefaultLocale)
}

func provideVerificationHandler(
	verificationSvc *service.VerificationService,
	authSvc *service.AuthService,
	cfg *config.Config,
) *handler.VerificationHandler {
	return handler.NewVerificationHandler(verificationSvc, authSvc, cfg.DefaultLocale)
}

// provideRateLimitBackend picks the shared-counter backend: redis when an
// address is configured, otherwise an in-process fixed window.
func provideRateLimitBackend(cfg *config.Config) middleware.Limiter {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return middleware.NewRedisFixedWindowLimiter(client, "ratelimit")
	}
	return middleware.NewLocalFixedWindowLimiter()
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	verificationHandler *handler.VerificationHandler,
	authenticator *service.TokenService,
	backend middleware.Limiter,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		VerificationHandler: verificationHandler,
		Authenticator:       authenticator,
		RateLimitBackend:    backend,
		AuthRateLimitRPM:    cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:     cfg.APIRateLimitPerMin,
		DefaultLocale:       cfg.DefaultLocale,
	}
}

func provideRouter(dep router.Dependencies) http.Handler {
	return router.New(dep)
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// MigrationRunner applies the schema as an explicit startup step instead of
// migrating on every boot.
type MigrationRunner struct {
	db *gorm.DB
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

func (m *MigrationRunner) Run() error {
	return database.Migrate(m.db)
}
