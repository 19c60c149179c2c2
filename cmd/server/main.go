// The authcore server issues, verifies and revokes encrypted device-bound
// credentials over HTTP.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	appService "github.com/linegroup/authcore/internal/application/service"
	"github.com/linegroup/authcore/internal/config"
	domainService "github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/infrastructure/audit"
	"github.com/linegroup/authcore/internal/infrastructure/consumers"
	"github.com/linegroup/authcore/internal/infrastructure/crypto"
	"github.com/linegroup/authcore/internal/infrastructure/directory"
	"github.com/linegroup/authcore/internal/infrastructure/fingerprint"
	"github.com/linegroup/authcore/internal/infrastructure/monitoring"
	"github.com/linegroup/authcore/internal/infrastructure/ratelimit"
	redisinfra "github.com/linegroup/authcore/internal/infrastructure/redis"
	httpiface "github.com/linegroup/authcore/internal/interfaces/http"
	"github.com/linegroup/authcore/internal/interfaces/http/handlers"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	ctx := context.Background()

	// Hot-reload the log level on config changes; everything else stays
	// fixed for the process lifetime.
	config.Watch(func(level string) {
		appLogger.SetLevel(monitoring.ParseLevel(level))
		appLogger.Info(ctx, "log level updated", logger.String("level", level))
	})

	keyMaterial, err := crypto.NewKeyMaterial(cfg.Token.SecretKey)
	if err != nil {
		appLogger.Fatal(ctx, "failed to derive key material", err)
	}
	cipher, err := crypto.NewTokenCipher(cfg.Token.Algorithm, keyMaterial)
	if err != nil {
		appLogger.Fatal(ctx, "failed to initialize token cipher", err)
	}
	codec := crypto.NewClaimsCodec()
	fingerprinter := fingerprint.New(cfg.Fingerprint.RequiredAttributes)

	redisClient, err := redisinfra.NewClient(&cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "failed to connect to redis", err)
	}
	defer redisClient.Close()

	opTimeout := cfg.Redis.OpTimeout
	if opTimeout <= 0 {
		opTimeout = constants.DefaultStoreTimeout
	}
	revocations := redisinfra.NewRevocationStore(redisClient, cfg.Token.RevocationKeyPrefix, opTimeout, appLogger)
	refreshes := redisinfra.NewRefreshStore(redisClient, cfg.Token.RefreshKeyPrefix, opTimeout)

	tokens := domainService.NewTokenService(cipher, codec, fingerprinter, revocations, domainService.TokenOptions{
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		TTL:      cfg.Token.TTL,
	}, appLogger)

	metrics := monitoring.NewMetrics()

	auditPublisher := audit.NewKafkaPublisher(cfg.Audit, appLogger)
	defer auditPublisher.Close()

	users := directory.NewStaticDirectory(cfg.Users)

	authService := appService.NewAuthAppService(
		tokens,
		cipher,
		refreshes,
		users,
		users,
		auditPublisher,
		metrics,
		cfg.Token.EffectiveRefreshTTL(),
		appLogger,
	)

	limiter := ratelimit.NewLoginLimiter(redisClient, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow)

	router := httpiface.NewRouter(
		cfg,
		appLogger,
		tokens,
		metrics,
		limiter,
		handlers.NewAuthHandler(authService, appLogger),
		handlers.NewHealthHandler(redisClient),
	)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(router.Start)
	if len(cfg.Audit.Brokers) > 0 {
		consumer := consumers.NewRevocationConsumer(cfg.Audit, revocations, cfg.Token.TTL, appLogger)
		defer consumer.Close()
		group.Go(func() error { return consumer.Run(groupCtx) })
	}
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		appLogger.Info(ctx, "shutting down")
		return router.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		appLogger.Fatal(ctx, "server exited", err)
	}
}
