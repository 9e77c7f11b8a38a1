package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"market-catalog/internal/config"
	"market-catalog/internal/delivery/http/route"
	entity "market-catalog/internal/domain"
	"market-catalog/internal/media"
	"market-catalog/internal/repository/cache"
	"market-catalog/internal/repository/memory"
	mongorepo "market-catalog/internal/repository/mongodb"
	pgrepo "market-catalog/internal/repository/postgresql"
	"market-catalog/internal/service"
	utils "market-catalog/pkg"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type userStore interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	SaveUser(ctx context.Context, u entity.User) error
}

// backend bundles the repositories of one database driver.
type backend struct {
	offers   service.OfferRepository
	users    userStore
	activity service.ActivityRecorder
	health   map[string]route.HealthCheck
	closers  []func() error
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			slog.Warn("close failed", "event", "backend_close_failed", "module", "cmd/server", "layer", "infrastructure", "error", err.Error())
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{health: map[string]route.HealthCheck{}}

	switch cfg.Database.Driver {
	case "mongo":
		client, err := mongorepo.Connect(ctx, cfg.Database.MongoURI)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })
		db := client.Database(cfg.Database.MongoDatabase)

		offers := mongorepo.NewOfferRepository(db)
		if err := offers.EnsureIndexes(ctx); err != nil {
			logger.Warn("offer indexes not created", "event", "mongo_indexes_failed", "module", "cmd/server", "layer", "infrastructure", "error", err.Error())
		}
		b.offers = offers
		b.users = mongorepo.NewUserRepository(db)
		b.activity = mongorepo.NewActivityRepository(db)
		b.health["database"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	case "postgres":
		db, err := pgrepo.Connect(cfg.Database.PostgresDSN)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { return pgrepo.Close(db) })
		b.offers = pgrepo.NewOfferRepository(db, logger)
		b.users = pgrepo.NewUserRepository(db)
		b.health["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}

	case "memory":
		repo := memory.NewOfferRepository()
		b.offers = repo
		b.users = repo
		b.activity = memory.NewActivityLog()
		if err := seedDemoUser(ctx, repo, cfg.JWT, os.Stdout, logger); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, client.Close)
		b.offers = cache.NewOfferRepository(b.offers, cache.NewCache("market:offer", client), cfg.Redis.TTL, logger)
		b.health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return b, nil
}

func openMedia(ctx context.Context, cfg config.MediaConfig, reg prometheus.Registerer, logger *slog.Logger) (service.MediaStore, error) {
	switch cfg.Driver {
	case "memory":
		return media.NewMemoryStore(cfg.PublicBaseURL), nil
	case "s3":
		observer, err := media.NewPrometheusObserver("offer_media", reg)
		if err != nil {
			return nil, err
		}
		return media.NewS3Store(ctx, media.S3Config{
			Bucket:        cfg.Bucket,
			Region:        cfg.Region,
			Endpoint:      cfg.Endpoint,
			AccessKeyID:   cfg.AccessKeyID,
			SecretKey:     cfg.SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
			UsePathStyle:  cfg.UsePathStyle,
		}, observer, logger)
	default:
		return nil, errors.New("unknown media driver " + cfg.Driver)
	}
}

// seedDemoUser gives the process-local backend an account to publish with.
// The bearer token goes to out and never into the process log.
func seedDemoUser(ctx context.Context, users userStore, jwtCfg config.JWTConfig, out io.Writer, logger *slog.Logger) error {
	demo := entity.User{ID: uuid.New(), Email: "demo@example.com", Account: entity.Account{Username: "demo"}}
	if err := users.SaveUser(ctx, demo); err != nil {
		return err
	}
	token, err := utils.GenerateToken(demo.ID, jwtCfg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "demo bearer token: %s\n", token); err != nil {
		return err
	}
	logger.Info("demo account ready",
		"event", "demo_user_seeded",
		"module", "cmd/server",
		"layer", "infrastructure",
		"user_id", demo.ID.String(),
	)
	return nil
}
