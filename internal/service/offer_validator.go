package service

import (
	"errors"
	"math"
	"strconv"
	"strings"

	entity "market-catalog/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500
	MaxPrice             = 100000
)

type offerFields struct {
	Title       string  `validate:"max=50"`
	Description string  `validate:"max=500"`
	Price       float64 `validate:"gte=0,lte=100000"`
}

// OfferValidator checks offer input before any upload or write. It stops at the
// first violated rule.
type OfferValidator struct {
	validate *validator.Validate
}

func NewOfferValidator() *OfferValidator {
	return &OfferValidator{validate: validator.New()}
}

func (v *OfferValidator) ValidatePublish(input entity.OfferInput, files []entity.ImageFile) error {
	switch {
	case input.Title == nil || strings.TrimSpace(*input.Title) == "":
		return entity.NewValidationError("title", "title is required")
	case input.Price == nil || strings.TrimSpace(*input.Price) == "":
		return entity.NewValidationError("price", "price is required")
	case len(files) == 0:
		return entity.NewValidationError("picture", "at least one picture is required")
	}
	return v.validatePresent(input, files)
}

// ValidateModify applies the same rules as publish to the fields that are present.
func (v *OfferValidator) ValidateModify(input entity.OfferInput, files []entity.ImageFile) error {
	return v.validatePresent(input, files)
}

func (v *OfferValidator) validatePresent(input entity.OfferInput, files []entity.ImageFile) error {
	var fields offerFields
	if input.Title != nil {
		fields.Title = *input.Title
	}
	if input.Description != nil {
		fields.Description = *input.Description
	}
	if input.Price != nil {
		price, err := ParsePrice(*input.Price)
		if err != nil {
			return err
		}
		fields.Price = price
	}

	if err := v.validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	for _, file := range files {
		if !strings.HasPrefix(file.ContentType, "image/") {
			return entity.NewValidationError("picture", "the file must be a picture")
		}
	}
	return nil
}

// ParsePrice reads a decimal price. NaN and infinities are not numbers here.
func ParsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, entity.NewValidationError("price", "price must be a number")
	}
	return price, nil
}

func fieldError(fe validator.FieldError) *entity.ValidationError {
	switch fe.Field() {
	case "Title":
		return entity.NewValidationError("title", "maximum title length is 50 characters")
	case "Description":
		return entity.NewValidationError("description", "maximum description length is 500 characters")
	case "Price":
		if fe.Tag() == "gte" {
			return entity.NewValidationError("price", "price cannot be negative")
		}
		return entity.NewValidationError("price", "maximum price is 100000")
	default:
		return entity.NewValidationError(strings.ToLower(fe.Field()), "invalid value")
	}
}
