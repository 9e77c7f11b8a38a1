package service

import (
	"context"
	"log/slog"
	"path"
	"time"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
)

// OfferRepository is the persistence boundary for offers. FindByID and FindMany
// resolve the owner to its public account.
type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)
	Update(ctx context.Context, offer *entity.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindMany(ctx context.Context, query entity.OfferQuery) ([]entity.Offer, error)
	Count(ctx context.Context, filter entity.OfferFilter) (int64, error)
}

// MediaStore uploads and removes offer pictures on an object store.
type MediaStore interface {
	Upload(ctx context.Context, file entity.ImageFile, namespace string) (entity.Image, error)
	DeleteResources(ctx context.Context, storageIDs ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	DeleteNamespace(ctx context.Context, namespace string) error
}

type ActivityRecorder interface {
	SaveActivity(ctx context.Context, doc *entity.ActivityLog) error
}

type IDGenerator interface {
	NewID() uuid.UUID
}

type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() uuid.UUID { return uuid.New() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// OfferNamespace is the media prefix owning every picture of one offer.
func OfferNamespace(root string, offerID uuid.UUID) string {
	return path.Join(root, "offers", offerID.String())
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
