package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
)

const offerModule = "service/offer"

// OfferService publishes, modifies and deletes offers. Persistence always comes
// after every media upload of the operation succeeded.
type OfferService struct {
	offers    OfferRepository
	media     MediaStore
	validator *OfferValidator
	activity  ActivityRecorder
	ids       IDGenerator
	clock     Clock
	mediaRoot string
	logger    *slog.Logger
}

type OfferServiceDeps struct {
	Offers    OfferRepository
	Media     MediaStore
	Validator *OfferValidator
	// Activity is optional.
	Activity  ActivityRecorder
	IDs       IDGenerator
	Clock     Clock
	MediaRoot string
	Logger    *slog.Logger
}

func NewOfferService(deps OfferServiceDeps) *OfferService {
	s := &OfferService{
		offers:    deps.Offers,
		media:     deps.Media,
		validator: deps.Validator,
		activity:  deps.Activity,
		ids:       deps.IDs,
		clock:     deps.Clock,
		mediaRoot: deps.MediaRoot,
		logger:    resolveLogger(deps.Logger),
	}
	if s.validator == nil {
		s.validator = NewOfferValidator()
	}
	if s.ids == nil {
		s.ids = UUIDGenerator{}
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	return s
}

func (s *OfferService) Namespace(offerID uuid.UUID) string {
	return OfferNamespace(s.mediaRoot, offerID)
}

func (s *OfferService) Publish(ctx context.Context, input entity.OfferInput, files []entity.ImageFile, requester *entity.User) (*entity.Offer, error) {
	if requester == nil {
		return nil, entity.ErrUnauthorized
	}
	if err := s.validator.ValidatePublish(input, files); err != nil {
		s.logger.Info("publish offer rejected",
			"event", "publish_offer_rejected",
			"module", offerModule,
			"layer", "application",
			"user_id", requester.ID.String(),
			"error", err.Error(),
		)
		return nil, err
	}
	price, err := ParsePrice(*input.Price)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	offer := &entity.Offer{
		ID:        s.ids.NewID(),
		Title:     *input.Title,
		Price:     price,
		Owner:     requester.AsOwner(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		offer.Description = *input.Description
	}
	for key, value := range input.DetailValues() {
		offer.Details.Set(key, value)
	}

	s.logger.Info("publish offer started",
		"event", "publish_offer_started",
		"module", offerModule,
		"layer", "application",
		"offer_id", offer.ID.String(),
		"user_id", requester.ID.String(),
		"files", len(files),
	)

	images, err := s.uploadAll(ctx, offer.ID, files)
	if err != nil {
		return nil, err
	}
	offer.SetImages(images)

	if err := s.offers.Create(ctx, offer); err != nil {
		s.logger.Error("publish offer failed",
			"event", "publish_offer_failed",
			"module", offerModule,
			"layer", "application",
			"offer_id", offer.ID.String(),
			"error", err.Error(),
		)
		return nil, fmt.Errorf("create offer: %w", err)
	}

	s.record(ctx, offer.ID, requester.ID, entity.ActionOfferPublished, "")
	s.logger.Info("publish offer completed",
		"event", "publish_offer_completed",
		"module", offerModule,
		"layer", "application",
		"offer_id", offer.ID.String(),
		"images", len(offer.Images),
	)
	return offer, nil
}

// Modify overwrites only the fields present in input. New file i replaces
// image i, or is appended when the offer has fewer images.
func (s *OfferService) Modify(ctx context.Context, id uuid.UUID, input entity.OfferInput, files []entity.ImageFile, requester *entity.User) (*entity.Offer, error) {
	if requester == nil {
		return nil, entity.ErrUnauthorized
	}
	offer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.Owner.ID != requester.ID {
		return nil, entity.ErrForbidden
	}
	if err := s.validator.ValidateModify(input, files); err != nil {
		return nil, err
	}

	if input.Title != nil {
		offer.Title = *input.Title
	}
	if input.Description != nil {
		offer.Description = *input.Description
	}
	if input.Price != nil {
		price, err := ParsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		offer.Price = price
	}
	for key, value := range input.DetailValues() {
		offer.Details.Set(key, value)
	}

	var replaced []string
	if len(files) > 0 {
		uploaded, err := s.uploadAll(ctx, offer.ID, files)
		if err != nil {
			return nil, err
		}
		images := append([]entity.Image(nil), offer.Images...)
		for i, img := range uploaded {
			if i < len(images) {
				replaced = append(replaced, images[i].StorageID)
				images[i] = img
				continue
			}
			images = append(images, img)
		}
		offer.SetImages(images)
	}
	offer.UpdatedAt = s.clock.Now()

	if err := s.offers.Update(ctx, offer); err != nil {
		s.logger.Error("modify offer failed",
			"event", "modify_offer_failed",
			"module", offerModule,
			"layer", "application",
			"offer_id", offer.ID.String(),
			"error", err.Error(),
		)
		if errors.Is(err, entity.ErrOfferNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update offer: %w", err)
	}

	if len(replaced) > 0 {
		if err := s.media.DeleteResources(ctx, replaced...); err != nil {
			s.logger.Warn("replaced images not removed",
				"event", "modify_offer_media_cleanup_failed",
				"module", offerModule,
				"layer", "application",
				"offer_id", offer.ID.String(),
				"storage_ids", replaced,
				"error", err.Error(),
			)
		}
	}

	s.record(ctx, offer.ID, requester.ID, entity.ActionOfferModified, "")
	return offer, nil
}

// Delete removes the offer's media namespace first. If that fails the record
// is kept.
func (s *OfferService) Delete(ctx context.Context, id uuid.UUID, requester *entity.User) error {
	if requester == nil {
		return entity.ErrUnauthorized
	}
	offer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if offer.Owner.ID != requester.ID {
		s.logger.Warn("delete offer forbidden",
			"event", "delete_offer_forbidden",
			"module", offerModule,
			"layer", "application",
			"offer_id", id.String(),
			"user_id", requester.ID.String(),
		)
		return entity.ErrForbidden
	}

	namespace := s.Namespace(offer.ID)
	if err := s.media.DeleteByPrefix(ctx, namespace); err != nil {
		return s.mediaDeleteFailed(offer.ID, err)
	}
	if err := s.media.DeleteNamespace(ctx, namespace); err != nil {
		return s.mediaDeleteFailed(offer.ID, err)
	}

	if err := s.offers.Delete(ctx, offer.ID); err != nil {
		if errors.Is(err, entity.ErrOfferNotFound) {
			return err
		}
		return fmt.Errorf("delete offer: %w", err)
	}

	s.record(ctx, offer.ID, requester.ID, entity.ActionOfferDeleted, namespace)
	s.logger.Info("delete offer completed",
		"event", "delete_offer_completed",
		"module", offerModule,
		"layer", "application",
		"offer_id", offer.ID.String(),
	)
	return nil
}

func (s *OfferService) load(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	offer, err := s.offers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrOfferNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return offer, nil
}

// uploadAll sends files one at a time and stops at the first failure. Pictures
// already stored are not removed.
func (s *OfferService) uploadAll(ctx context.Context, offerID uuid.UUID, files []entity.ImageFile) ([]entity.Image, error) {
	namespace := s.Namespace(offerID)
	images := make([]entity.Image, 0, len(files))
	for i, file := range files {
		img, err := s.media.Upload(ctx, file, namespace)
		if err != nil {
			s.logger.Error("offer picture upload failed",
				"event", "offer_upload_failed",
				"module", offerModule,
				"layer", "application",
				"offer_id", offerID.String(),
				"index", i,
				"uploaded", len(images),
				"error", err.Error(),
			)
			return nil, &entity.UploadError{Op: "upload", Err: err}
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *OfferService) mediaDeleteFailed(offerID uuid.UUID, err error) error {
	s.logger.Error("offer media cleanup failed",
		"event", "delete_offer_media_failed",
		"module", offerModule,
		"layer", "application",
		"offer_id", offerID.String(),
		"error", err.Error(),
	)
	return &entity.UploadError{Op: "delete", Err: err}
}

func (s *OfferService) record(ctx context.Context, offerID, userID uuid.UUID, action, note string) {
	if s.activity == nil {
		return
	}
	doc := &entity.ActivityLog{
		OfferID:   offerID.String(),
		UserID:    userID.String(),
		Action:    action,
		Note:      note,
		CreatedAt: s.clock.Now(),
	}
	if err := s.activity.SaveActivity(ctx, doc); err != nil {
		s.logger.Warn("failed to save activity log",
			"event", "activity_log_failed",
			"module", offerModule,
			"layer", "application",
			"offer_id", offerID.String(),
			"action", action,
			"error", err.Error(),
		)
	}
}
