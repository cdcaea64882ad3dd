package db

import "time"

// MediaObject 记录上传到对象存储的文件，便于后台列表与删除
type MediaObject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FileName    string    `gorm:"size:255;uniqueIndex;not null" json:"file_name"`
	URL         string    `gorm:"not null" json:"url"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定自定义表名。
func (MediaObject) TableName() string {
	return "media_objects"
}
