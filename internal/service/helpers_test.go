package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	entity "market-catalog/internal/domain"
	"market-catalog/internal/media"
	"market-catalog/internal/repository/memory"

	"github.com/google/uuid"
)

var errMediaDown = errors.New("media store unavailable")

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// flakyStore wraps the memory store with call counting and injected failures.
type flakyStore struct {
	*media.MemoryStore

	mu            sync.Mutex
	uploads       int
	failUploadAt  int // 1-based, 0 never fails
	failPrefixDel bool
	failResources bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: media.NewMemoryStore("https://media.test")}
}

func (s *flakyStore) Upload(ctx context.Context, file entity.ImageFile, namespace string) (entity.Image, error) {
	s.mu.Lock()
	s.uploads++
	n := s.uploads
	s.mu.Unlock()
	if s.failUploadAt > 0 && n == s.failUploadAt {
		return entity.Image{}, errMediaDown
	}
	return s.MemoryStore.Upload(ctx, file, namespace)
}

func (s *flakyStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	if s.failPrefixDel {
		return errMediaDown
	}
	return s.MemoryStore.DeleteByPrefix(ctx, prefix)
}

func (s *flakyStore) DeleteResources(ctx context.Context, ids ...string) error {
	if s.failResources {
		return errMediaDown
	}
	return s.MemoryStore.DeleteResources(ctx, ids...)
}

type fixture struct {
	repo     *memory.OfferRepository
	store    *flakyStore
	activity *memory.ActivityLog
	svc      *OfferService
	catalog  *CatalogService
	owner    *entity.User
	stranger *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	owner := &entity.User{ID: uuid.New(), Email: "alice@example.com", Account: entity.Account{Username: "alice"}}
	stranger := &entity.User{ID: uuid.New(), Email: "bob@example.com", Account: entity.Account{Username: "bob"}}

	repo := memory.NewOfferRepository(*owner, *stranger)
	store := newFlakyStore()
	activity := memory.NewActivityLog()
	svc := NewOfferService(OfferServiceDeps{
		Offers:    repo,
		Media:     store,
		Activity:  activity,
		Clock:     fixedClock{t: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		MediaRoot: "vinted",
	})
	return &fixture{
		repo:     repo,
		store:    store,
		activity: activity,
		svc:      svc,
		catalog:  NewCatalogService(repo, nil),
		owner:    owner,
		stranger: stranger,
	}
}

func str(s string) *string { return &s }

func png(name string) entity.ImageFile {
	return entity.ImageFile{Filename: name, ContentType: "image/png", Extension: ".png", Data: []byte(name)}
}

func pngs(n int) []entity.ImageFile {
	files := make([]entity.ImageFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, png(fmt.Sprintf("pic-%d.png", i)))
	}
	return files
}

func validInput(title string, price string) entity.OfferInput {
	return entity.OfferInput{Title: str(title), Price: str(price)}
}

func (f *fixture) publish(t *testing.T, title, price string) *entity.Offer {
	t.Helper()
	offer, err := f.svc.Publish(context.Background(), validInput(title, price), pngs(1), f.owner)
	if err != nil {
		t.Fatalf("publish %q: %v", title, err)
	}
	return offer
}
