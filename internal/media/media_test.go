package media

import (
	"context"
	"strings"
	"testing"

	entity "market-catalog/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "vinted/offers/42/abc.jpg", ObjectKey("vinted/offers/42", "abc", ".jpg"))
	assert.Equal(t, "vinted/offers/42/abc.png", ObjectKey("vinted/offers/42/", "abc", "png"))
	assert.Equal(t, "ns/abc", ObjectKey("ns", "abc", ""))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a/b.jpg", PublicURL("https://cdn.example.com/", "bucket", "eu-west-1", "a/b.jpg"))
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/a/b.jpg", PublicURL("", "bucket", "eu-west-1", "a/b.jpg"))
	assert.Equal(t, "https://bucket.s3.amazonaws.com/a/b.jpg", PublicURL("", "bucket", "", "a/b.jpg"))
}

func TestMemoryStore_UploadAndDeleteNamespace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("http://localhost/media/")

	img, err := store.Upload(ctx, entity.ImageFile{ContentType: "image/png", Extension: ".png", Data: []byte("x")}, "vinted/offers/1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.StorageID, "vinted/offers/1/"))
	assert.True(t, strings.HasSuffix(img.StorageID, ".png"))
	assert.Equal(t, "http://localhost/media/"+img.StorageID, img.URL)

	other, err := store.Upload(ctx, entity.ImageFile{Extension: ".jpg"}, "vinted/offers/10")
	require.NoError(t, err)

	require.NoError(t, store.DeleteByPrefix(ctx, "vinted/offers/1"))
	require.NoError(t, store.DeleteNamespace(ctx, "vinted/offers/1"))

	assert.False(t, store.Has(img.StorageID))
	assert.False(t, store.HasNamespace("vinted/offers/1"))
	assert.True(t, store.Has(other.StorageID), "sibling namespace sharing a prefix must survive")
	assert.Equal(t, []string{other.StorageID}, store.Keys())
}

func TestMemoryStore_DeleteResourcesIgnoresUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("")

	img, err := store.Upload(ctx, entity.ImageFile{Extension: ".gif"}, "ns")
	require.NoError(t, err)
	require.NoError(t, store.DeleteResources(ctx, img.StorageID, "missing"))
	assert.Empty(t, store.Keys())
}

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewPrometheusObserver("test_media", reg)
	require.NoError(t, err)

	obs.RecordUpload(0, 128, nil)
	obs.RecordUpload(0, 64, assert.AnError)
	obs.RecordDelete(0, 3, nil)

	assert.InDelta(t, 128, testutil.ToFloat64(obs.bytes), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(obs.deleted), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(obs.failures.WithLabelValues("upload")), 0)

	again, err := NewPrometheusObserver("test_media", reg)
	require.NoError(t, err)
	assert.InDelta(t, 128, testutil.ToFloat64(again.bytes), 0)
}
