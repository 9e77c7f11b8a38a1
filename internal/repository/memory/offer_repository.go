package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
)

// OfferRepository keeps offers and users in process memory. It backs local runs
// and tests; natural order is insertion order.
type OfferRepository struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]entity.Offer
	order  []uuid.UUID
	users  map[uuid.UUID]entity.User
}

func NewOfferRepository(users ...entity.User) *OfferRepository {
	r := &OfferRepository{
		offers: make(map[uuid.UUID]entity.Offer),
		users:  make(map[uuid.UUID]entity.User),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// SaveUser adds or replaces a user, the memory stand-in for signup.
func (r *OfferRepository) SaveUser(_ context.Context, u entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *OfferRepository) FindUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return &u, nil
}

func (r *OfferRepository) Create(_ context.Context, offer *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.offers[offer.ID]; !exists {
		r.order = append(r.order, offer.ID)
	}
	r.offers[offer.ID] = cloneOffer(*offer)
	return nil
}

func (r *OfferRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, entity.ErrOfferNotFound
	}
	out := r.populate(offer)
	return &out, nil
}

func (r *OfferRepository) Update(_ context.Context, offer *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return entity.ErrOfferNotFound
	}
	r.offers[offer.ID] = cloneOffer(*offer)
	return nil
}

func (r *OfferRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return entity.ErrOfferNotFound
	}
	delete(r.offers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *OfferRepository) FindMany(_ context.Context, query entity.OfferQuery) ([]entity.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(query.Filter)
	switch query.Sort {
	case entity.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case entity.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	start := min(max(query.Skip, 0), int64(len(matched)))
	end := int64(len(matched))
	if query.Limit > 0 && query.Limit < end-start {
		end = start + query.Limit
	}

	page := make([]entity.Offer, 0, end-start)
	for _, offer := range matched[start:end] {
		page = append(page, r.populate(offer))
	}
	return page, nil
}

func (r *OfferRepository) Count(_ context.Context, filter entity.OfferFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

func (r *OfferRepository) match(filter entity.OfferFilter) []entity.Offer {
	title := strings.ToLower(filter.Title)
	matched := make([]entity.Offer, 0, len(r.order))
	for _, id := range r.order {
		offer := r.offers[id]
		if title != "" && !strings.Contains(strings.ToLower(offer.Title), title) {
			continue
		}
		if filter.PriceMin != nil && offer.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && offer.Price > *filter.PriceMax {
			continue
		}
		matched = append(matched, offer)
	}
	return matched
}

func (r *OfferRepository) populate(offer entity.Offer) entity.Offer {
	out := cloneOffer(offer)
	if u, ok := r.users[offer.Owner.ID]; ok {
		out.Owner = u.AsOwner()
	}
	return out
}

func cloneOffer(offer entity.Offer) entity.Offer {
	offer.Images = append([]entity.Image(nil), offer.Images...)
	return offer
}
