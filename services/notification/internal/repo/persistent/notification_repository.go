package persistent

import (
	"context"

	"threadboard/pkg/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	GetUsername(ctx context.Context, userID string) (string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) GetUsername(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("username").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
