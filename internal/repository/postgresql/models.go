package repository

import (
	"time"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
)

type userModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email"`
	Username  string    `gorm:"column:username"`
	Avatar    string    `gorm:"column:avatar"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toEntity() *entity.User {
	return &entity.User{
		ID:      m.ID,
		Email:   m.Email,
		Account: entity.Account{Username: m.Username, Avatar: m.Avatar},
	}
}

type offerModel struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID      uuid.UUID      `gorm:"column:owner_id;type:uuid"`
	Owner        *userModel     `gorm:"foreignKey:OwnerID;references:ID"`
	Title        string         `gorm:"column:title"`
	Description  string         `gorm:"column:description"`
	Price        float64        `gorm:"column:price"`
	Brand        string         `gorm:"column:brand"`
	Size         string         `gorm:"column:size"`
	Condition    string         `gorm:"column:condition"`
	Color        string         `gorm:"column:color"`
	Location     string         `gorm:"column:location"`
	Images       []entity.Image `gorm:"column:images;type:jsonb;serializer:json"`
	PrimaryImage entity.Image   `gorm:"column:primary_image;type:jsonb;serializer:json"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (offerModel) TableName() string { return "offers" }

func newOfferModel(o *entity.Offer) offerModel {
	images := o.Images
	if images == nil {
		images = []entity.Image{}
	}
	return offerModel{
		ID:           o.ID,
		OwnerID:      o.Owner.ID,
		Title:        o.Title,
		Description:  o.Description,
		Price:        o.Price,
		Brand:        o.Details.Brand,
		Size:         o.Details.Size,
		Condition:    o.Details.Condition,
		Color:        o.Details.Color,
		Location:     o.Details.Location,
		Images:       images,
		PrimaryImage: o.PrimaryImage,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (m offerModel) toEntity() entity.Offer {
	offer := entity.Offer{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Details: entity.OfferDetails{
			Brand:     m.Brand,
			Size:      m.Size,
			Condition: m.Condition,
			Color:     m.Color,
			Location:  m.Location,
		},
		Images:       m.Images,
		PrimaryImage: m.PrimaryImage,
		Owner:        entity.Owner{ID: m.OwnerID},
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Owner != nil {
		offer.Owner.Account = entity.Account{Username: m.Owner.Username, Avatar: m.Owner.Avatar}
	}
	return offer
}
