package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type offerDocument struct {
	ID           string              `bson:"_id"`
	Title        string              `bson:"product_name"`
	Description  string              `bson:"product_description"`
	Price        float64             `bson:"product_price"`
	Details      entity.OfferDetails `bson:"product_details"`
	Images       []entity.Image      `bson:"product_pictures"`
	PrimaryImage entity.Image        `bson:"product_image"`
	OwnerID      string              `bson:"owner"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`

	// Filled by the owner $lookup, never written.
	OwnerAccount *entity.Account `bson:"owner_account,omitempty"`
}

func newOfferDocument(o *entity.Offer) offerDocument {
	images := o.Images
	if images == nil {
		images = []entity.Image{}
	}
	return offerDocument{
		ID:           o.ID.String(),
		Title:        o.Title,
		Description:  o.Description,
		Price:        o.Price,
		Details:      o.Details,
		Images:       images,
		PrimaryImage: o.PrimaryImage,
		OwnerID:      o.Owner.ID.String(),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (d offerDocument) toEntity() (entity.Offer, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return entity.Offer{}, fmt.Errorf("decode offer id %q: %w", d.ID, err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return entity.Offer{}, fmt.Errorf("decode owner id %q: %w", d.OwnerID, err)
	}
	offer := entity.Offer{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Details:      d.Details,
		Images:       d.Images,
		PrimaryImage: d.PrimaryImage,
		Owner:        entity.Owner{ID: ownerID},
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.OwnerAccount != nil {
		offer.Owner.Account = *d.OwnerAccount
	}
	return offer, nil
}

type OfferRepository struct {
	collection *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{collection: db.Collection(CollectionOffers)}
}

func (r *OfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, newOfferDocument(offer)); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id.String()}}}},
		{{Key: "$limit", Value: 1}},
	}
	pipeline = append(pipeline, ownerLookup()...)

	offers, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, entity.ErrOfferNotFound
	}
	return &offers[0], nil
}

// Update replaces the stored document. The owner is carried over unchanged.
func (r *OfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := newOfferDocument(offer)
	res, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc)
	if err != nil {
		return fmt.Errorf("replace offer: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) FindMany(ctx context.Context, query entity.OfferQuery) ([]entity.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: BuildFilter(query.Filter)}},
		{{Key: "$sort", Value: BuildSort(query.Sort)}},
	}
	if query.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: query.Skip}})
	}
	if query.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: query.Limit}})
	}
	pipeline = append(pipeline, ownerLookup()...)

	return r.aggregate(ctx, pipeline)
}

func (r *OfferRepository) Count(ctx context.Context, filter entity.OfferFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, BuildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return n, nil
}

func (r *OfferRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]entity.Offer, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate offers: %w", err)
	}
	var docs []offerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}

	offers := make([]entity.Offer, 0, len(docs))
	for _, d := range docs {
		o, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// BuildFilter translates f into a match document. Title is matched as a
// literal, case-insensitive substring.
func BuildFilter(f entity.OfferFilter) bson.D {
	filter := bson.D{}
	if f.Title != "" {
		filter = append(filter, bson.E{
			Key:   "product_name",
			Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"},
		})
	}

	price := bson.D{}
	if f.PriceMin != nil {
		price = append(price, bson.E{Key: "$gte", Value: *f.PriceMin})
	}
	if f.PriceMax != nil {
		price = append(price, bson.E{Key: "$lte", Value: *f.PriceMax})
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: "product_price", Value: price})
	}
	return filter
}

// BuildSort falls back to publication order so skip/limit windows are stable.
func BuildSort(order entity.SortOrder) bson.D {
	switch order {
	case entity.SortPriceAsc:
		return bson.D{{Key: "product_price", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	case entity.SortPriceDesc:
		return bson.D{{Key: "product_price", Value: -1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	}
}

// ownerLookup resolves the owner reference to the public account only.
func ownerLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollectionUsers},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner_docs"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "owner_account", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$owner_docs.account", 0}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "owner_docs", Value: 0}}}},
	}
}

// EnsureIndexes creates the secondary indexes the catalog queries rely on.
func (r *OfferRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_price", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create offer indexes: %w", err)
	}
	return nil
}
