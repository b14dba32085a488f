package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/smart-hospital/internal/config"
	"github.com/wolfman30/smart-hospital/internal/store"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// AWSLoader returns the shared AWS config. It is only called for backends and
// providers that live in AWS.
type AWSLoader func(ctx context.Context) (aws.Config, error)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildStore opens the document store selected by STORE_BACKEND. The returned
// close func releases the backend's connections and is never nil.
func BuildStore(ctx context.Context, cfg *appconfig.Config, loadAWS AWSLoader, logger *logging.Logger) (*store.Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	switch cfg.StoreBackend {
	case "", "file":
		logger.Info("document store: file", "dir", cfg.DataDir)
		return store.New(store.NewFileBackend(cfg.DataDir), logger), noop, nil

	case "redis":
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, nil, fmt.Errorf("bootstrap: redis unavailable at %q", cfg.RedisAddr)
		}
		logger.Info("document store: redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisKeyPrefix)
		return store.New(store.NewRedisBackend(client, cfg.RedisKeyPrefix), logger), func() { _ = client.Close() }, nil

	case "s3":
		if loadAWS == nil {
			return nil, nil, fmt.Errorf("bootstrap: aws config loader required for s3")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.S3PathStyle
		})
		backend, err := store.NewS3Backend(client, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("document store: s3", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return store.New(backend, logger), noop, nil

	case "postgres":
		pool, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("document store: postgres")
		return store.New(store.NewPostgresBackend(pool), logger), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown store backend %q", cfg.StoreBackend)
	}
}

// ConnectPostgres opens and pings a pgx pool.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres backend")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return pool, nil
}
