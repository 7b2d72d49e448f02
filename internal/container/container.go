package container

import (
	"context"
	"fmt"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/client"
	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/queue"
	"sanskaar/booking/internal/repository"
	"sanskaar/booking/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.BookingClient
	Repository repository.BookingRepository
	Queue      queue.Queue
	TokenStore auth.TokenStore

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. Redis and
// the database are only connected when enabled in the configuration.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
	}
	log.SetLevel(level)

	container := &Container{
		Config: cfg,
		Client: client.NewBookingClient(cfg.API),
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		container.redis = rdb

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Debug("✅ Connected to Redis successfully")

		redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.Queue = redisQueue
		container.TokenStore = auth.NewRedisTokenStore(rdb, cfg.Redis.TokenPrefix)
	} else {
		container.TokenStore = localTokenStore(cfg.Auth)
		log.Debug("Redis disabled: no events are published")
	}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db

		if err := repository.Migrate(ctx, db); err != nil {
			container.Close()
			return nil, err
		}
		container.Repository = repository.NewBookingRepository(db)
		log.Debug("✅ Booking journal ready")
	}

	container.Service = service.NewService(
		container.Client,
		container.TokenStore,
		container.Queue,
		container.Repository,
		cfg.Auth,
		cfg.Booking,
	)

	return container, nil
}

// localTokenStore keeps tokens in the configured file so a login outlives the
// process; without a file they only last for this run.
func localTokenStore(cfg config.AuthConfig) auth.TokenStore {
	if cfg.TokenFile == "" {
		log.Warn("⚠️ auth.token_file is empty: logins will not be kept between runs")
		return auth.NewMemoryTokenStore()
	}
	log.Debugf("Storing tokens in %s", cfg.TokenFile)
	return auth.NewFileTokenStore(cfg.TokenFile)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}
	return nil
}
