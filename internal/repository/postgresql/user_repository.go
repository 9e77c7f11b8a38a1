package repository

import (
	"context"
	"errors"
	"fmt"

	entity "market-catalog/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toEntity(), nil
}

// SaveUser upserts u by id.
func (r *UserRepository) SaveUser(ctx context.Context, u entity.User) error {
	row := userModel{ID: u.ID, Email: u.Email, Username: u.Account.Username, Avatar: u.Account.Avatar}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "username", "avatar"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
