package cache

import (
	"context"
	"testing"
	"time"

	entity "market-catalog/internal/domain"
	"market-catalog/internal/repository/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	*memory.OfferRepository
	finds int
}

func (c *countingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	c.finds++
	return c.OfferRepository.FindByID(ctx, id)
}

func setup(t *testing.T) (*OfferRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	owner := entity.User{ID: uuid.New(), Account: entity.Account{Username: "alice"}}
	backing := &countingRepo{OfferRepository: memory.NewOfferRepository(owner)}
	repo := NewOfferRepository(backing, NewCache("offers", client), time.Minute, nil)
	return repo, backing, mr
}

func newOffer(title string, price float64) *entity.Offer {
	return &entity.Offer{ID: uuid.New(), Title: title, Price: price, CreatedAt: time.Now().UTC()}
}

func TestFindByID_ReadThrough(t *testing.T) {
	ctx := context.Background()
	repo, backing, mr := setup(t)

	offer := newOffer("Jean Veste", 20)
	require.NoError(t, repo.Create(ctx, offer))

	first, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.finds)
	assert.Equal(t, first.Title, second.Title)
	assert.True(t, mr.Exists("offers:"+offer.ID.String()))
}

func TestUpdate_WritesThrough(t *testing.T) {
	ctx := context.Background()
	repo, backing, mr := setup(t)

	offer := newOffer("Jean Veste", 20)
	require.NoError(t, repo.Create(ctx, offer))
	_, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)

	offer.Price = 35
	require.NoError(t, repo.Update(ctx, offer))
	assert.True(t, mr.Exists("offers:"+offer.ID.String()))

	got, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 35, got.Price, 0)
	assert.Equal(t, 2, backing.finds)
}

// interleavedRepo runs onFind once, after the backing row was loaded and
// before the read-through stores it.
type interleavedRepo struct {
	*memory.OfferRepository
	onFind func()
}

func (r *interleavedRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	offer, err := r.OfferRepository.FindByID(ctx, id)
	if f := r.onFind; f != nil {
		r.onFind = nil
		f()
	}
	return offer, err
}

func setupInterleaved(t *testing.T) (*OfferRepository, *interleavedRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &interleavedRepo{OfferRepository: memory.NewOfferRepository()}
	return NewOfferRepository(backing, NewCache("offers", client), time.Minute, nil), backing
}

func TestFindByID_SlowReadDoesNotOverwriteUpdate(t *testing.T) {
	ctx := context.Background()
	repo, backing := setupInterleaved(t)

	offer := newOffer("Jean Veste", 20)
	require.NoError(t, repo.Create(ctx, offer))

	backing.onFind = func() {
		updated := *offer
		updated.Price = 35
		require.NoError(t, repo.Update(ctx, &updated))
	}
	stale, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20, stale.Price, 0)

	got, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 35, got.Price, 0)
}

func TestFindByID_SlowReadDoesNotResurrectDeleted(t *testing.T) {
	ctx := context.Background()
	repo, backing := setupInterleaved(t)

	offer := newOffer("Pantalon", 10)
	require.NoError(t, repo.Create(ctx, offer))

	backing.onFind = func() {
		require.NoError(t, repo.Delete(ctx, offer.ID))
	}
	_, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, offer.ID)
	assert.ErrorIs(t, err, entity.ErrOfferNotFound)
}

func TestDelete_EvictsAndReportsNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := setup(t)

	offer := newOffer("Pantalon", 10)
	require.NoError(t, repo.Create(ctx, offer))
	_, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, offer.ID))
	_, err = repo.FindByID(ctx, offer.ID)
	assert.ErrorIs(t, err, entity.ErrOfferNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, offer.ID), entity.ErrOfferNotFound)
}

func TestFindByID_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	repo, backing, mr := setup(t)

	offer := newOffer("Jean", 5)
	require.NoError(t, repo.Create(ctx, offer))
	mr.Close()

	got, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, offer.ID, got.ID)
	assert.Equal(t, 1, backing.finds)
}

func TestFindByID_CorruptEntryIsReloaded(t *testing.T) {
	ctx := context.Background()
	repo, backing, mr := setup(t)

	offer := newOffer("Jean", 5)
	require.NoError(t, repo.Create(ctx, offer))
	require.NoError(t, mr.Set("offers:"+offer.ID.String(), "{not json"))

	got, err := repo.FindByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jean", got.Title)
	assert.Equal(t, 1, backing.finds)
}

func TestCacheFlush(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewCache("ns", client)
	require.NoError(t, c.Store(ctx, "a", time.Minute, []byte("1")))
	require.NoError(t, c.Store(ctx, "b", time.Minute, []byte("2")))
	require.NoError(t, mr.Set("other:a", "x"))

	require.NoError(t, c.Flush(ctx))
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, redis.Nil)
	assert.True(t, mr.Exists("other:a"))
}
