package entity

import (
	"time"

	"github.com/google/uuid"
)

// Detail slot keys, in the order an offer exposes them.
const (
	DetailBrand     = "brand"
	DetailSize      = "size"
	DetailCondition = "condition"
	DetailColor     = "color"
	DetailLocation  = "location"
)

var detailKeys = [...]string{DetailBrand, DetailSize, DetailCondition, DetailColor, DetailLocation}

// DetailKeys returns the five slot keys in their fixed order.
func DetailKeys() []string {
	keys := make([]string, len(detailKeys))
	copy(keys, detailKeys[:])
	return keys
}

type OfferDetails struct {
	Brand     string `json:"brand" bson:"brand"`
	Size      string `json:"size" bson:"size"`
	Condition string `json:"condition" bson:"condition"`
	Color     string `json:"color" bson:"color"`
	Location  string `json:"location" bson:"location"`
}

type DetailSlot struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Slots always returns five entries, empty values included.
func (d OfferDetails) Slots() []DetailSlot {
	return []DetailSlot{
		{Key: DetailBrand, Value: d.Brand},
		{Key: DetailSize, Value: d.Size},
		{Key: DetailCondition, Value: d.Condition},
		{Key: DetailColor, Value: d.Color},
		{Key: DetailLocation, Value: d.Location},
	}
}

// Set writes value into the slot named key. Unknown keys are reported as false.
func (d *OfferDetails) Set(key, value string) bool {
	switch key {
	case DetailBrand:
		d.Brand = value
	case DetailSize:
		d.Size = value
	case DetailCondition:
		d.Condition = value
	case DetailColor:
		d.Color = value
	case DetailLocation:
		d.Location = value
	default:
		return false
	}
	return true
}

// Image is the result of a media store upload.
type Image struct {
	StorageID string `json:"storageId" bson:"storage_id"`
	URL       string `json:"url" bson:"url"`
}

type Offer struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	Details      OfferDetails `json:"details"`
	Images       []Image      `json:"images"`
	PrimaryImage Image        `json:"primaryImage"`
	Owner        Owner        `json:"owner"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// SetImages replaces the image list and keeps the cover in sync with its first entry.
func (o *Offer) SetImages(images []Image) {
	o.Images = images
	if len(images) > 0 {
		o.PrimaryImage = images[0]
	} else {
		o.PrimaryImage = Image{}
	}
}

// OfferInput carries form values for publish and modify. A nil field is absent.
type OfferInput struct {
	Title       *string
	Description *string
	Price       *string
	Brand       *string
	Size        *string
	Condition   *string
	Color       *string
	Location    *string
}

// DetailValues maps each present detail input to its slot key.
func (in OfferInput) DetailValues() map[string]string {
	values := make(map[string]string, len(detailKeys))
	for key, v := range map[string]*string{
		DetailBrand:     in.Brand,
		DetailSize:      in.Size,
		DetailCondition: in.Condition,
		DetailColor:     in.Color,
		DetailLocation:  in.Location,
	} {
		if v != nil {
			values[key] = *v
		}
	}
	return values
}

// ImageFile is an uploaded picture with its sniffed content type.
type ImageFile struct {
	Filename    string
	ContentType string
	Extension   string
	Data        []byte
}

type SortOrder int

const (
	SortDefault SortOrder = iota
	SortPriceAsc
	SortPriceDesc
)

type OfferFilter struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
}

type OfferQuery struct {
	Filter OfferFilter
	Sort   SortOrder
	Skip   int64
	Limit  int64
}

// ListParams is the browse request as received from the catalog endpoint.
type ListParams struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Page     int
	Limit    int
}

type OfferPage struct {
	Count  int64   `json:"count"`
	Offers []Offer `json:"offers"`
}
