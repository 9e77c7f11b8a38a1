package handler

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	entity "market-catalog/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

const (
	fieldPicture = "picture"
	// The form calls the location slot "city".
	fieldCity = "city"
)

// readOfferInput keeps only keys that are present with a non-empty value.
func readOfferInput(form *multipart.Form) entity.OfferInput {
	get := func(key string) *string {
		if v, ok := form.Value[key]; ok && len(v) > 0 && v[0] != "" {
			value := v[0]
			return &value
		}
		return nil
	}

	return entity.OfferInput{
		Title:       get("title"),
		Description: get("description"),
		Price:       get("price"),
		Brand:       get(entity.DetailBrand),
		Size:        get(entity.DetailSize),
		Condition:   get(entity.DetailCondition),
		Color:       get(entity.DetailColor),
		Location:    get(fieldCity),
	}
}

// readImages loads every uploaded picture and sniffs its content type from
// the bytes rather than trusting the client header.
func readImages(headers []*multipart.FileHeader) ([]entity.ImageFile, error) {
	files := make([]entity.ImageFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readAll(fh)
		if err != nil {
			return nil, err
		}
		mt := mimetype.Detect(data)
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if ext == "" {
			ext = mt.Extension()
		}
		files = append(files, entity.ImageFile{
			Filename:    fh.Filename,
			ContentType: mt.String(),
			Extension:   ext,
			Data:        data,
		})
	}
	return files, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, entity.NewValidationError(field, field+" must be a positive integer")
	}
	return n, nil
}

func queryPrice(raw, field string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, entity.NewValidationError(field, field+" must be a positive number")
	}
	return &v, nil
}
