package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// CatalogService serves the public browse and detail reads.
type CatalogService struct {
	offers OfferRepository
	logger *slog.Logger
}

func NewCatalogService(offers OfferRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{offers: offers, logger: resolveLogger(logger)}
}

func (s *CatalogService) List(ctx context.Context, params entity.ListParams) (*entity.OfferPage, error) {
	query, err := BuildOfferQuery(params)
	if err != nil {
		return nil, err
	}

	offers, err := s.offers.FindMany(ctx, query)
	if err != nil {
		s.logger.Error("list offers failed",
			"event", "list_offers_failed",
			"module", "service/catalog",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, fmt.Errorf("find offers: %w", err)
	}
	count, err := s.offers.Count(ctx, query.Filter)
	if err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}
	if offers == nil {
		offers = []entity.Offer{}
	}

	s.logger.Debug("list offers completed",
		"event", "list_offers_completed",
		"module", "service/catalog",
		"layer", "application",
		"count", count,
		"page_size", len(offers),
	)
	return &entity.OfferPage{Count: count, Offers: offers}, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	offer, err := s.offers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrOfferNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return offer, nil
}

// BuildOfferQuery turns browse parameters into a repository query. Page is
// 1-indexed; zero values pick the defaults.
func BuildOfferQuery(params entity.ListParams) (entity.OfferQuery, error) {
	page := params.Page
	if page < 0 {
		return entity.OfferQuery{}, entity.NewValidationError("page", "page must be a positive integer")
	}
	if page == 0 {
		page = 1
	}
	limit := params.Limit
	if limit < 0 {
		return entity.OfferQuery{}, entity.NewValidationError("limit", "limit must be a positive integer")
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return entity.OfferQuery{}, entity.NewValidationError("page", "page is out of range")
	}

	query := entity.OfferQuery{
		Filter: entity.OfferFilter{
			Title:    strings.TrimSpace(params.Title),
			PriceMin: params.PriceMin,
			PriceMax: params.PriceMax,
		},
		Skip:  int64(page-1) * int64(limit),
		Limit: int64(limit),
	}

	switch params.Sort {
	case SortPriceAsc:
		query.Sort = entity.SortPriceAsc
	case SortPriceDesc:
		query.Sort = entity.SortPriceDesc
	default:
		query.Sort = entity.SortDefault
	}
	return query, nil
}
