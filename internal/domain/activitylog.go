package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActionOfferPublished = "offer_published"
	ActionOfferModified  = "offer_modified"
	ActionOfferDeleted   = "offer_deleted"
)

// ActivityLog is an audit entry written after a successful offer mutation.
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OfferID   string             `bson:"offer_id" json:"offerId"`
	UserID    string             `bson:"user_id" json:"userId"`
	Action    string             `bson:"action" json:"action"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
