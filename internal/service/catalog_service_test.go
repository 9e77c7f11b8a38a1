package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestList_PriceBounds(t *testing.T) {
	f := newFixture(t)
	for i, price := range []string{"5", "10", "30", "50", "51", "80"} {
		f.publish(t, fmt.Sprintf("item %d", i), price)
	}

	page, err := f.catalog.List(context.Background(), entity.ListParams{PriceMin: fptr(10), PriceMax: fptr(50)})
	require.NoError(t, err)

	assert.EqualValues(t, 3, page.Count)
	require.Len(t, page.Offers, 3)
	for _, o := range page.Offers {
		assert.GreaterOrEqual(t, o.Price, 10.0)
		assert.LessOrEqual(t, o.Price, 50.0)
	}

	onlyMin, err := f.catalog.List(context.Background(), entity.ListParams{PriceMin: fptr(51)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, onlyMin.Count)
}

func TestList_SortByPrice(t *testing.T) {
	f := newFixture(t)
	for i, price := range []string{"30", "5", "80", "10", "10"} {
		f.publish(t, fmt.Sprintf("item %d", i), price)
	}

	asc, err := f.catalog.List(context.Background(), entity.ListParams{Sort: "price-asc"})
	require.NoError(t, err)
	for i := 1; i < len(asc.Offers); i++ {
		assert.LessOrEqual(t, asc.Offers[i-1].Price, asc.Offers[i].Price)
	}

	desc, err := f.catalog.List(context.Background(), entity.ListParams{Sort: "price-desc"})
	require.NoError(t, err)
	for i := 1; i < len(desc.Offers); i++ {
		assert.GreaterOrEqual(t, desc.Offers[i-1].Price, desc.Offers[i].Price)
	}
}

func TestList_SecondPage(t *testing.T) {
	f := newFixture(t)
	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		ids = append(ids, f.publish(t, fmt.Sprintf("item %02d", i), "10").ID)
	}

	page, err := f.catalog.List(context.Background(), entity.ListParams{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.EqualValues(t, 12, page.Count)
	require.Len(t, page.Offers, 5)
	for i, o := range page.Offers {
		assert.Equal(t, ids[5+i], o.ID)
	}
}

func TestList_TitleCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.publish(t, "Jean Veste", "10")
	f.publish(t, "Pantalon", "10")
	f.publish(t, "Veste (L)", "10")

	page, err := f.catalog.List(context.Background(), entity.ListParams{Title: "Jean"})
	require.NoError(t, err)
	require.Len(t, page.Offers, 1)
	assert.Equal(t, "Jean Veste", page.Offers[0].Title)

	lower, err := f.catalog.List(context.Background(), entity.ListParams{Title: "jean"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, lower.Count)

	literal, err := f.catalog.List(context.Background(), entity.ListParams{Title: "(L)"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, literal.Count)
}

func TestList_OwnerProjectionHasNoCredentials(t *testing.T) {
	f := newFixture(t)
	f.publish(t, "Jean", "10")

	page, err := f.catalog.List(context.Background(), entity.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Offers, 1)
	assert.Equal(t, entity.Owner{ID: f.owner.ID, Account: f.owner.Account}, page.Offers[0].Owner)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	f := newFixture(t)
	page, err := f.catalog.List(context.Background(), entity.ListParams{Title: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, page.Offers)
	assert.Zero(t, page.Count)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrOfferNotFound)
}

func TestBuildOfferQuery(t *testing.T) {
	tests := []struct {
		name   string
		params entity.ListParams
		skip   int64
		limit  int64
		sort   entity.SortOrder
	}{
		{"defaults", entity.ListParams{}, 0, DefaultPageSize, entity.SortDefault},
		{"page two", entity.ListParams{Page: 2, Limit: 5}, 5, 5, entity.SortDefault},
		{"capped limit", entity.ListParams{Page: 3, Limit: 1000}, 2 * MaxPageSize, MaxPageSize, entity.SortDefault},
		{"asc", entity.ListParams{Sort: "price-asc"}, 0, DefaultPageSize, entity.SortPriceAsc},
		{"desc", entity.ListParams{Sort: "price-desc"}, 0, DefaultPageSize, entity.SortPriceDesc},
		{"unknown sort", entity.ListParams{Sort: "newest"}, 0, DefaultPageSize, entity.SortDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildOfferQuery(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.skip, q.Skip)
			assert.Equal(t, tt.limit, q.Limit)
			assert.Equal(t, tt.sort, q.Sort)
		})
	}
}

func TestBuildOfferQuery_Rejects(t *testing.T) {
	var verr *entity.ValidationError

	_, err := BuildOfferQuery(entity.ListParams{Page: -1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "page", verr.Field)

	_, err = BuildOfferQuery(entity.ListParams{Limit: -5})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "limit", verr.Field)

	// skip would wrap negative
	_, err = BuildOfferQuery(entity.ListParams{Page: math.MaxInt, Limit: 20})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "page", verr.Field)
}

func TestBuildOfferQuery_LargestPageInRange(t *testing.T) {
	page := int(math.MaxInt64/int64(MaxPageSize)) + 1
	q, err := BuildOfferQuery(entity.ListParams{Page: page, Limit: MaxPageSize})
	require.NoError(t, err)
	assert.Positive(t, q.Skip)
}

func TestBuildOfferQuery_FilterPassThrough(t *testing.T) {
	q, err := BuildOfferQuery(entity.ListParams{Title: "  Jean ", PriceMin: fptr(1), PriceMax: fptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "Jean", q.Filter.Title)
	assert.InDelta(t, 1, *q.Filter.PriceMin, 0)
	assert.InDelta(t, 2, *q.Filter.PriceMax, 0)
}
