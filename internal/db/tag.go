package db

import (
	"strings"
	"time"
)

// Tag 定义了标签模型，名称（忽略大小写）与 slug 均唯一
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	NameKey   string    `gorm:"size:100;uniqueIndex" json:"-"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	PostCount int64     `gorm:"-" json:"post_count"`
}

// TagNameKey 返回名称的比较键，忽略首尾空白与大小写（含非 ASCII 字母）。
func TagNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PostTag is the post_tags join row. It has no identity beyond (post_id, tag_id).
type PostTag struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey;index"`
}

// TableName 固定关联表名，与 Post.Tags 的 many2many 声明保持一致。
func (PostTag) TableName() string {
	return "post_tags"
}
