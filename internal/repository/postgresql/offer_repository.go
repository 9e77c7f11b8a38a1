package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfferRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewOfferRepository(db *gorm.DB, logger *slog.Logger) *OfferRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &OfferRepository{db: db, logger: logger}
}

func (r *OfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	row := newOfferModel(offer)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Preload("Owner", selectAccount).
		Where("id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrOfferNotFound
		}
		return nil, err
	}
	offer := row.toEntity()
	return &offer, nil
}

// Update writes every column except the owner and creation time.
func (r *OfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	row := newOfferModel(offer)
	res := r.db.WithContext(ctx).
		Model(&offerModel{ID: row.ID}).
		Select("*").
		Omit(clause.Associations, "id", "owner_id", "created_at").
		Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("update offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&offerModel{})
	if res.Error != nil {
		return fmt.Errorf("delete offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) FindMany(ctx context.Context, query entity.OfferQuery) ([]entity.Offer, error) {
	tx := applyOfferFilter(r.db.WithContext(ctx).Model(&offerModel{}), query.Filter)
	tx = tx.Preload("Owner", selectAccount).Order(orderClause(query.Sort))
	if query.Skip > 0 {
		tx = tx.Offset(int(query.Skip))
	}
	if query.Limit > 0 {
		tx = tx.Limit(int(query.Limit))
	}

	var rows []offerModel
	if err := tx.Find(&rows).Error; err != nil {
		r.logger.Error("list offers query failed",
			"event", "postgres_list_offers_failed",
			"module", "repository/postgresql",
			"layer", "infrastructure",
			"error", err.Error(),
		)
		return nil, err
	}

	offers := make([]entity.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, row.toEntity())
	}
	return offers, nil
}

func (r *OfferRepository) Count(ctx context.Context, filter entity.OfferFilter) (int64, error) {
	var n int64
	tx := applyOfferFilter(r.db.WithContext(ctx).Model(&offerModel{}), filter)
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func applyOfferFilter(tx *gorm.DB, f entity.OfferFilter) *gorm.DB {
	if f.Title != "" {
		tx = tx.Where("title ILIKE ?", "%"+escapeLike(f.Title)+"%")
	}
	if f.PriceMin != nil {
		tx = tx.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		tx = tx.Where("price <= ?", *f.PriceMax)
	}
	return tx
}

func orderClause(order entity.SortOrder) string {
	switch order {
	case entity.SortPriceAsc:
		return "price ASC, created_at ASC, id ASC"
	case entity.SortPriceDesc:
		return "price DESC, created_at ASC, id ASC"
	default:
		return "created_at ASC, id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// selectAccount limits the preloaded owner to its public columns.
func selectAccount(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "avatar")
}
