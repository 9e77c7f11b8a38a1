package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	entity "market-catalog/internal/domain"
	"market-catalog/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

// tombstone marks a deleted offer so a late read-through cannot bring it back.
var tombstone = []byte("deleted")

// OfferRepository caches single-offer reads in front of another repository.
// Writes go to the backing store first. Read-through only fills an empty slot,
// while Update overwrites it with the row read back after the write, so a
// reader that loaded the previous row cannot replace the newer entry. Cache
// failures never fail the call.
type OfferRepository struct {
	next   service.OfferRepository
	cache  *Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewOfferRepository(next service.OfferRepository, cache *Cache, ttl time.Duration, logger *slog.Logger) *OfferRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OfferRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *OfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	return r.next.Create(ctx, offer)
}

func (r *OfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	raw, err := r.cache.Get(ctx, id.String())
	switch {
	case err == nil && bytes.Equal(raw, tombstone):
		return nil, entity.ErrOfferNotFound
	case err == nil:
		var offer entity.Offer
		jsonErr := json.Unmarshal(raw, &offer)
		if jsonErr == nil {
			return &offer, nil
		}
		r.warn("offer_cache_decode_failed", id, jsonErr)
		r.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		r.warn("offer_cache_get_failed", id, err)
	}

	offer, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(offer); err == nil {
		if _, err := r.cache.StoreIfAbsent(ctx, id.String(), r.ttl, raw); err != nil {
			r.warn("offer_cache_store_failed", id, err)
		}
	}
	return offer, nil
}

func (r *OfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	if err := r.next.Update(ctx, offer); err != nil {
		return err
	}
	fresh, err := r.next.FindByID(ctx, offer.ID)
	if err != nil {
		r.evict(ctx, offer.ID)
		return nil
	}
	raw, err := json.Marshal(fresh)
	if err != nil {
		r.evict(ctx, offer.ID)
		return nil
	}
	if err := r.cache.Store(ctx, offer.ID.String(), r.ttl, raw); err != nil {
		r.warn("offer_cache_store_failed", offer.ID, err)
		r.evict(ctx, offer.ID)
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Store(ctx, id.String(), r.ttl, tombstone); err != nil {
		r.warn("offer_cache_store_failed", id, err)
		r.evict(ctx, id)
	}
	return nil
}

func (r *OfferRepository) FindMany(ctx context.Context, query entity.OfferQuery) ([]entity.Offer, error) {
	return r.next.FindMany(ctx, query)
}

func (r *OfferRepository) Count(ctx context.Context, filter entity.OfferFilter) (int64, error) {
	return r.next.Count(ctx, filter)
}

func (r *OfferRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Remove(ctx, id.String()); err != nil {
		r.warn("offer_cache_evict_failed", id, err)
	}
}

func (r *OfferRepository) warn(event string, id uuid.UUID, err error) {
	r.logger.Warn("offer cache degraded",
		"event", event,
		"module", "repository/cache",
		"layer", "infrastructure",
		"offer_id", id.String(),
		"error", err.Error(),
	)
}
