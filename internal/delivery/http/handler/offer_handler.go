package handler

import (
	"net/http"

	"market-catalog/internal/delivery/http/middleware"
	entity "market-catalog/internal/domain"
	"market-catalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OfferHandler struct {
	offers  *service.OfferService
	catalog *service.CatalogService
}

func NewOfferHandler(offers *service.OfferService, catalog *service.CatalogService) *OfferHandler {
	return &OfferHandler{offers: offers, catalog: catalog}
}

// Publish handles POST /offer/publish.
//
// @Summary      Publish Offer
// @Description  Creates an offer owned by the caller. Requires multipart/form-data with at least one picture.
// @Tags         Offers
// @Accept       mpfd
// @Produce      json
// @Security     ApiKeyAuth
// @Param        title formData string true "Title, at most 50 characters"
// @Param        description formData string false "Description, at most 500 characters"
// @Param        price formData number true "Price between 0 and 100000"
// @Param        brand formData string false "Brand"
// @Param        size formData string false "Size"
// @Param        condition formData string false "Condition"
// @Param        color formData string false "Color"
// @Param        city formData string false "Location"
// @Param        picture formData file true "Offer pictures"
// @Success      201  {object}  entity.Offer
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /offer/publish [post]
func (h *OfferHandler) Publish(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, entity.NewValidationError("form", "invalid form-data"))
		return
	}

	files, err := readImages(form.File[fieldPicture])
	if err != nil {
		writeError(c, err)
		return
	}

	offer, err := h.offers.Publish(c.Request.Context(), readOfferInput(form), files, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

// Modify handles PUT /offer/modify/:id. The form is optional so a request
// without a body is a no-op update. Any other body must be multipart.
//
// @Summary      Modify Offer
// @Description  Updates the fields present in the form. New pictures replace the stored ones.
// @Tags         Offers
// @Accept       mpfd
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Offer ID (UUID)"
// @Param        title formData string false "Title, at most 50 characters"
// @Param        description formData string false "Description, at most 500 characters"
// @Param        price formData number false "Price between 0 and 100000"
// @Param        brand formData string false "Brand"
// @Param        size formData string false "Size"
// @Param        condition formData string false "Condition"
// @Param        color formData string false "Color"
// @Param        city formData string false "Location"
// @Param        picture formData file false "Replacement pictures"
// @Success      200  {object}  entity.Offer
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Forbidden (not the owner)"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /offer/modify/{id} [put]
func (h *OfferHandler) Modify(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}

	var (
		input entity.OfferInput
		files []entity.ImageFile
	)
	if hasBody(c.Request) {
		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, entity.NewValidationError("form", "invalid form-data"))
			return
		}
		input = readOfferInput(form)
		if files, err = readImages(form.File[fieldPicture]); err != nil {
			writeError(c, err)
			return
		}
	}

	offer, err := h.offers.Modify(c.Request.Context(), id, input, files, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// Delete handles DELETE /offer/delete/:id.
//
// @Summary      Delete Offer
// @Tags         Offers
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Offer ID (UUID)"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Forbidden (not the owner)"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /offer/delete/{id} [delete]
func (h *OfferHandler) Delete(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	if err := h.offers.Delete(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Offer has been deleted"})
}

// List handles GET /offers.
//
// @Summary      Browse Offers
// @Description  Filters by title and price range, sorts by price and paginates. Count is the total before pagination.
// @Tags         Catalog
// @Produce      json
// @Param        title query string false "Case-insensitive title fragment"
// @Param        priceMin query number false "Minimum price"
// @Param        priceMax query number false "Maximum price"
// @Param        sort query string false "Price order" Enums(price-asc, price-desc)
// @Param        page query integer false "Page number, starting at 1"
// @Param        limit query integer false "Page size, capped at 100"
// @Success      200  {object}  entity.OfferPage
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /offers [get]
func (h *OfferHandler) List(c *gin.Context) {
	params := entity.ListParams{
		Title: c.Query("title"),
		Sort:  c.Query("sort"),
	}
	var err error
	if params.PriceMin, err = queryPrice(c.Query("priceMin"), "priceMin"); err != nil {
		writeError(c, err)
		return
	}
	if params.PriceMax, err = queryPrice(c.Query("priceMax"), "priceMax"); err != nil {
		writeError(c, err)
		return
	}
	if params.Page, err = queryInt(c.Query("page"), "page"); err != nil {
		writeError(c, err)
		return
	}
	if params.Limit, err = queryInt(c.Query("limit"), "limit"); err != nil {
		writeError(c, err)
		return
	}

	page, err := h.catalog.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /offer/:id.
//
// @Summary      Get Offer
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Offer ID (UUID)"
// @Success      200  {object}  entity.Offer
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /offer/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := offerID(c)
	if !ok {
		return
	}
	offer, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func hasBody(r *http.Request) bool {
	return r.ContentLength != 0 || r.Header.Get("Content-Type") != ""
}

// offerID answers 404 for ids that cannot name any offer.
func offerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, entity.ErrOfferNotFound)
		return uuid.Nil, false
	}
	return id, true
}
