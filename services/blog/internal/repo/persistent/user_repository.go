package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"threadboard/pkg/logger"
	"threadboard/pkg/models"
	"threadboard/services/blog/internal/entity"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toUserEntity(&m), nil
}

// cachedUserRepository is a read-through redis cache in front of another UserRepository.
// Cache failures degrade to the underlying store.
type cachedUserRepository struct {
	next   UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedUserRepository(next UserRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) UserRepository {
	return &cachedUserRepository{next: next, client: client, ttl: ttl, logger: log}
}

func userKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

type freshReadKey struct{}

// WithFreshRead makes cached repositories skip their cache for calls made with
// the returned context. The store's answer then replaces or evicts the entry.
func WithFreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

func IsFreshRead(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadKey{}).(bool)
	return fresh
}

// GetByID serves from the cache unless ctx carries WithFreshRead. A cached
// user deleted from the store keeps resolving until the entry expires.
func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	key := userKey(id)

	if !IsFreshRead(ctx) {
		data, err := r.client.Get(ctx, key).Bytes()
		if err == nil {
			var user entity.User
			if err := json.Unmarshal(data, &user); err == nil {
				return &user, nil
			}
			r.logger.Warn("Dropping corrupt cache entry %s", key)
		} else if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Redis get %s failed: %v", key, err)
		}
	}

	user, err := r.next.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				r.logger.Warn("Redis del %s failed: %v", key, err)
			}
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("Redis set %s failed: %v", key, err)
		}
	}
	return user, nil
}
