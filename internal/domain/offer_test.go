package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfferDetails_SlotsAlwaysFive(t *testing.T) {
	slots := OfferDetails{}.Slots()
	assert.Len(t, slots, 5)
	for i, key := range DetailKeys() {
		assert.Equal(t, key, slots[i].Key)
		assert.Empty(t, slots[i].Value)
	}
}

func TestOfferDetails_Set(t *testing.T) {
	var d OfferDetails
	assert.True(t, d.Set(DetailLocation, "Paris"))
	assert.True(t, d.Set(DetailBrand, "Levis"))
	assert.False(t, d.Set("weight", "1kg"))

	assert.Equal(t, OfferDetails{Brand: "Levis", Location: "Paris"}, d)
}

func TestDetailKeys_ReturnsCopy(t *testing.T) {
	keys := DetailKeys()
	keys[0] = "changed"
	assert.Equal(t, DetailBrand, DetailKeys()[0])
}

func TestOffer_SetImagesSyncsCover(t *testing.T) {
	var o Offer
	o.SetImages([]Image{{StorageID: "a"}, {StorageID: "b"}})
	assert.Equal(t, "a", o.PrimaryImage.StorageID)

	o.SetImages(nil)
	assert.Equal(t, Image{}, o.PrimaryImage)
}

func TestOfferInput_DetailValues(t *testing.T) {
	size := "M"
	empty := ""
	values := OfferInput{Size: &size, Color: &empty}.DetailValues()
	assert.Equal(t, map[string]string{DetailSize: "M", DetailColor: ""}, values)
}

func TestUploadError_Unwraps(t *testing.T) {
	cause := errors.New("boom")
	err := error(&UploadError{Op: "upload", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "media upload failed: boom", err.Error())
}
