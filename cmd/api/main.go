// Command api runs the storefront HTTP API.
//
// @title                       Storefront Commerce API
// @version                     1.0
// @description                 Users, catalog, carts and orders behind JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/api"
	"github.com/storefront/commerce-api/internal/api/handler"
	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
	"github.com/storefront/commerce-api/internal/infrastructure/crypto"
	"github.com/storefront/commerce-api/internal/infrastructure/db/gormdb"
	"github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	"github.com/storefront/commerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/commerce-api/internal/infrastructure/jwt"
	"github.com/storefront/commerce-api/internal/infrastructure/messaging/kafka"
	"github.com/storefront/commerce-api/internal/infrastructure/queue"
	"github.com/storefront/commerce-api/internal/infrastructure/search/elastic"
	"github.com/storefront/commerce-api/internal/pkg/config"
	"github.com/storefront/commerce-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := logger.Init(logger.Options{Service: "storefront-api"})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// infra holds the optional backends. A nil field means the backend is not
// configured.
type infra struct {
	sql    *gorm.DB
	mongo  *mongo.Store
	redis  *goredis.Client
	kafka  *kafka.Publisher
	search *elastic.ProductIndex
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	in, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer in.close(log)

	// --- Event sinks and dispatcher ---
	var sinks []ports.EventSink
	if in.mongo != nil {
		audit := mongo.NewAuditRepository(in.mongo.Database())
		if err := audit.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}
		sinks = append(sinks, metrics.Instrument(audit))
	}
	if in.kafka != nil {
		sinks = append(sinks, metrics.Instrument(in.kafka))
	}
	if in.search != nil {
		sinks = append(sinks, metrics.Instrument(in.search))
	}
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, sinks, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Optional collaborators, left as nil interfaces when absent ---
	var (
		images   ports.ImageStore
		idem     ports.IdempotencyStore
		searcher ports.ProductSearcher
	)
	if in.mongo != nil {
		images = mongo.NewImageStore(in.mongo.Database())
	}
	if in.redis != nil {
		idem = redis.NewIdempotencyStore(in.redis, 0)
	}
	if in.search != nil {
		searcher = in.search
	}

	// --- Services ---
	signer, err := jwt.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration.Duration())
	if err != nil {
		return err
	}
	hasher := crypto.NewBcryptHasher()

	userRepo := gormdb.NewUserRepository(in.sql)
	categoryRepo := gormdb.NewCategoryRepository(in.sql)
	productRepo := gormdb.NewProductRepository(in.sql)

	authService := service.NewAuthService(userRepo, hasher, signer, dispatcher, log)
	userService := service.NewUserService(userRepo, hasher, dispatcher, log)
	categoryService := service.NewCategoryService(categoryRepo, dispatcher, log)
	productService := service.NewProductService(productRepo, categoryRepo, searcher, dispatcher, log)
	imageService := service.NewImageService(images, log)
	cartService := service.NewCartService(gormdb.NewCartRepository(in.sql), productRepo, dispatcher, log)
	orderService := service.NewOrderService(gormdb.NewOrderRepository(in.sql), productRepo, idem, dispatcher, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Users:        userService,
		Categories:   categoryService,
		Products:     productService,
		Images:       imageService,
		Carts:        cartService,
		Orders:       orderService,
		HealthChecks: in.healthChecks(),
		Logger:       log,
		SecureCookie: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("event dispatcher did not drain")
	}

	log.Info().Msg("shutdown complete")
	return nil
}

// connect opens the SQL store, which is required, and every optional
// backend whose address is configured.
func connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*infra, error) {
	in := &infra{}

	db, err := gormdb.Open(gormdb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.URL}, log)
	if err != nil {
		return nil, err
	}
	in.sql = db
	if err := gormdb.Migrate(db); err != nil {
		in.close(log)
		return nil, err
	}

	if cfg.Mongo.URI != "" {
		store, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			in.close(log)
			return nil, err
		}
		in.mongo = store
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			in.close(log)
			return nil, err
		}
		in.redis = client
	}

	if len(cfg.Kafka.Brokers) > 0 {
		in.kafka = kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
	}

	if cfg.Elasticsearch.URL != "" {
		index, err := elastic.NewProductIndex(elastic.Config{
			URL:      cfg.Elasticsearch.URL,
			Username: cfg.Elasticsearch.Username,
			Password: cfg.Elasticsearch.Password,
			Index:    cfg.Elasticsearch.Index,
		})
		if err != nil {
			in.close(log)
			return nil, err
		}
		in.search = index
	}

	log.Info().
		Str("db_driver", cfg.Database.Driver).
		Bool("mongo", in.mongo != nil).
		Bool("redis", in.redis != nil).
		Bool("kafka", in.kafka != nil).
		Bool("elasticsearch", in.search != nil).
		Msg("backends connected")
	return in, nil
}

func (in *infra) healthChecks() []handler.HealthCheck {
	checks := []handler.HealthCheck{{
		Name: "sql",
		Ping: func(ctx context.Context) error { return gormdb.Ping(ctx, in.sql) },
	}}
	if in.mongo != nil {
		checks = append(checks, handler.HealthCheck{
			Name: "mongodb",
			Ping: in.mongo.Ping,
		})
	}
	if in.redis != nil {
		checks = append(checks, handler.HealthCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redis.Ping(ctx, in.redis) },
		})
	}
	return checks
}

// close releases the backends in reverse dependency order: the Kafka writer
// flushes first, then the stores.
func (in *infra) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if in.kafka != nil {
		if err := in.kafka.Close(); err != nil {
			log.Error().Err(err).Msg("kafka close")
		}
	}
	if in.mongo != nil {
		if err := in.mongo.Close(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	if in.sql != nil {
		if err := gormdb.Close(in.sql); err != nil {
			log.Error().Err(err).Msg("sql close")
		}
	}
}
