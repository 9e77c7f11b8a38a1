package entity

import (
	"github.com/google/uuid"
)

// Account is the public part of a user, the only part ever attached to an offer.
type Account struct {
	Username string `json:"username" bson:"username"`
	Avatar   string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

type User struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"-"`
	Account Account   `json:"account"`
}

// Owner is the weak reference from an offer to the user who published it.
type Owner struct {
	ID      uuid.UUID `json:"id"`
	Account Account   `json:"account"`
}

func (u *User) AsOwner() Owner {
	return Owner{ID: u.ID, Account: u.Account}
}
