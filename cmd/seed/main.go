package main

import (
	"errors"
	"fmt"
	"time"

	"threadboard/pkg/config"
	"threadboard/pkg/database"
	"threadboard/pkg/logger"
	"threadboard/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	usernames := []string{"alice", "bob", "charlie"}
	users := make([]*models.User, 0, len(usernames))

	for _, name := range usernames {
		user, err := ensureUser(db, name, "password123")
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	alice, bob, charlie := users[0], users[1], users[2]

	var posts int64
	if err := db.Model(&models.Post{}).Count(&posts).Error; err != nil {
		return err
	}
	if posts > 0 {
		log.Info("Posts already present, skipping content")
		return nil
	}

	base := time.Now().UTC().Add(-48 * time.Hour)

	post := &models.Post{AuthorID: alice.ID, Title: "Hello threads", Body: "First post. Say something nice.", CreatedAt: base}
	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	root := &models.Comment{PostID: post.ID, AuthorID: bob.ID, Body: "nice", CreatedAt: base.Add(time.Hour)}
	if err := db.Create(root).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	reply := &models.Comment{PostID: post.ID, ParentID: &root.ID, AuthorID: alice.ID, Body: "thanks", CreatedAt: base.Add(2 * time.Hour)}
	if err := db.Create(reply).Error; err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}

	nested := &models.Comment{PostID: post.ID, ParentID: &reply.ID, AuthorID: charlie.ID, Body: "+1", CreatedAt: base.Add(3 * time.Hour)}
	if err := db.Create(nested).Error; err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}

	second := &models.Post{AuthorID: bob.ID, Title: "Second post", Body: "Nested comments all the way down.", CreatedAt: base.Add(24 * time.Hour)}
	if err := db.Create(second).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	for _, u := range []*models.User{bob, charlie} {
		if err := likePost(db, post.ID, u.ID); err != nil {
			return err
		}
	}
	if err := likeComment(db, reply.ID, charlie.ID); err != nil {
		return err
	}

	log.Info("Created %d posts with a sample thread", 2)
	return nil
}

func ensureUser(db *gorm.DB, username, password string) (*models.User, error) {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, Password: string(hashed)}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return user, nil
}

// Membership row and counter change together, like a real toggle.
func likePost(db *gorm.DB, postID int64, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
}

func likeComment(db *gorm.DB, commentID int64, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CommentLike{UserID: userID, CommentID: commentID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
}
