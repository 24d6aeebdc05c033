package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"threadboard/pkg/logger"
	"threadboard/pkg/queue"
	"threadboard/services/notification/internal/entity"
	"threadboard/services/notification/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const (
	inboxSize = 100
	inboxTTL  = 30 * 24 * time.Hour
)

type NotificationUseCase interface {
	HandleEngagementEvent(ctx context.Context, event queue.EngagementEvent) error
	GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error)
	ClearNotifications(ctx context.Context, userID string) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	redisClient      *redis.Client
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, redisClient *redis.Client, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		redisClient:      redisClient,
		logger:           logger,
	}
}

func inboxKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

var messageFormats = map[string]string{
	queue.EventPostLiked:      "%s liked your post",
	queue.EventCommentLiked:   "%s liked your comment",
	queue.EventCommentReplied: "%s replied to your comment",
}

func (uc *notificationUseCase) HandleEngagementEvent(ctx context.Context, event queue.EngagementEvent) error {
	format, ok := messageFormats[event.Type]
	if !ok {
		uc.logger.Warn("[NOTIFICATION HANDLER] Skipping unknown event type %q for user_id=%s", event.Type, event.UserID)
		return nil
	}
	if event.UserID == "" || event.ActorID == "" {
		uc.logger.Warn("[NOTIFICATION HANDLER] Skipping %s event without recipient or actor", event.Type)
		return nil
	}

	actor, err := uc.notificationRepo.GetUsername(ctx, event.ActorID)
	if err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Failed to get username for %s: %v", event.ActorID, err)
		actor = "Someone"
	}

	created := event.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	notification := entity.Notification{
		Type:      event.Type,
		Message:   fmt.Sprintf(format, actor),
		ActorID:   event.ActorID,
		PostID:    event.PostID,
		CommentID: event.CommentID,
		CreatedAt: created,
	}

	if err := uc.push(ctx, event.UserID, notification); err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to store %s notification for user %s: %v", event.Type, event.UserID, err)
		return err
	}

	uc.logger.Debug("[NOTIFICATION HANDLER] Stored %s notification for user %s", event.Type, event.UserID)
	return nil
}

// push prepends to the inbox, keeping the newest inboxSize entries.
func (uc *notificationUseCase) push(ctx context.Context, userID string, notification entity.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := inboxKey(userID)
	_, err = uc.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, inboxSize-1)
		pipe.Expire(ctx, key, inboxTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error) {
	raw, err := uc.redisClient.LRange(ctx, inboxKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	notifications := make([]entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			uc.logger.Warn("Skipping malformed notification for user %s: %v", userID, err)
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (uc *notificationUseCase) ClearNotifications(ctx context.Context, userID string) error {
	if err := uc.redisClient.Del(ctx, inboxKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
