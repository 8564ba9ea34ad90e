package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-gin-gallery/internal/domain"
)

// SetupJoinTables 让 gorm 使用显式的关联实体（每个 *gorm.DB 实例启动时调用一次）
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.Gallery{}, "Tags", &domain.GalleryTag{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&domain.Gallery{}, "GalleryItems", &domain.GalleryGalleryItem{})
}

func AutoMigrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&domain.User{},
		&domain.Tag{},
		&domain.GalleryItem{},
		&domain.Gallery{},
		&domain.GalleryTag{},
		&domain.GalleryGalleryItem{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 不同驱动的唯一约束报错文案不一致
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
