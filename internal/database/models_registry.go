package database

import (
	"fmt"

	"outstagram/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.MediaURL{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
		&models.FollowRequest{},
		&models.Friendship{},
	}
}

// partialIndexes cannot be expressed as struct tags. Each statement matches
// the SQL migrations and is safe to repeat.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_follow_requests_outstanding
	ON follow_requests (requester_id, requested_id)
	WHERE status IN ('pending', 'accepted')`,
}

// AutoMigrate creates or updates every persistent table on db, then the
// partial indexes AutoMigrate cannot derive.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create partial index: %w", err)
		}
	}
	return nil
}
