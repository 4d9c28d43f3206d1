package repository

import (
	"context"
	"errors"

	"github.com/Behyna/bank-webhooks/internal/model"
	"gorm.io/gorm"
)

type UserSourceRepository interface {
	Create(ctx context.Context, userSource *model.UserSource) error
	Get(ctx context.Context, userID, sourceID string) (*model.UserSource, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ListActiveUserIDs(ctx context.Context, sourceID string) ([]string, error)
}

type UserSource struct {
	db *gorm.DB
}

func NewUserSourceRepository(db *gorm.DB) UserSourceRepository {
	return &UserSource{db: db}
}

func (u *UserSource) Create(ctx context.Context, userSource *model.UserSource) error {
	err := GetTx(ctx, u.db).Create(userSource).Error
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return ErrUserSourceDuplicate
	}

	return err
}

func (u *UserSource) Get(ctx context.Context, userID, sourceID string) (*model.UserSource, error) {
	var userSource model.UserSource

	err := GetTx(ctx, u.db).
		Where("user_id = ? AND source_id = ?", userID, sourceID).
		First(&userSource).Error
	if err == nil {
		return &userSource, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	return nil, err
}

// SetActive uses an explicit column update so that false is written despite the
// column default.
func (u *UserSource) SetActive(ctx context.Context, id int64, active bool) error {
	result := GetTx(ctx, u.db).Model(&model.UserSource{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (u *UserSource) ListActiveUserIDs(ctx context.Context, sourceID string) ([]string, error) {
	userIDs := make([]string, 0)

	err := GetTx(ctx, u.db).Model(&model.UserSource{}).
		Where("source_id = ? AND is_active = ?", sourceID, true).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}

	return userIDs, nil
}
