package repository

import (
	"io/fs"
	"strings"
	"testing"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "Jean", escapeLike("Jean"))
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "price ASC, created_at ASC, id ASC", orderClause(entity.SortPriceAsc))
	assert.Equal(t, "price DESC, created_at ASC, id ASC", orderClause(entity.SortPriceDesc))
	assert.Equal(t, "created_at ASC, id ASC", orderClause(entity.SortDefault))
}

func TestOfferModel_RoundTrip(t *testing.T) {
	offer := &entity.Offer{
		ID:      uuid.New(),
		Title:   "Jean Veste",
		Price:   12.345,
		Details: entity.OfferDetails{Condition: "used", Location: "Paris"},
		Owner:   entity.Owner{ID: uuid.New(), Account: entity.Account{Username: "alice", Avatar: "a.png"}},
	}
	offer.SetImages([]entity.Image{{StorageID: "k1", URL: "u1"}, {StorageID: "k2", URL: "u2"}})

	row := newOfferModel(offer)
	assert.Nil(t, row.Owner)
	assert.Equal(t, offer.Owner.ID, row.OwnerID)

	row.Owner = &userModel{ID: offer.Owner.ID, Username: "alice", Avatar: "a.png"}
	assert.Equal(t, *offer, row.toEntity())
}

func TestUserModel_ToEntity(t *testing.T) {
	id := uuid.New()
	u := userModel{ID: id, Email: "a@b.c", Username: "alice"}.toEntity()
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice", u.Account.Username)
	assert.Equal(t, id, u.AsOwner().ID)
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

// Prices are stored unscaled so 12.345 reads back as 12.345.
func TestMigrations_PriceColumnUnscaled(t *testing.T) {
	files, err := fs.Glob(Migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	latest, err := fs.ReadFile(Migrations, files[len(files)-1])
	require.NoError(t, err)
	up, _, found := strings.Cut(string(latest), "-- +goose Down")
	require.True(t, found)
	assert.Contains(t, up, "ALTER COLUMN price TYPE DOUBLE PRECISION")
}
