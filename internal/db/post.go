package db

import "time"

// Post 定义了博客文章模型
type Post struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Excerpt          string     `gorm:"type:text" json:"excerpt"`
	Content          string     `gorm:"type:text" json:"content"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	Published        bool       `gorm:"index;not null;default:false" json:"published"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Tags             []Tag      `gorm:"many2many:post_tags;" json:"tags"`
}

// HasTag reports whether the post carries a tag with the given slug.
func (p Post) HasTag(slug string) bool {
	for _, tag := range p.Tags {
		if tag.Slug == slug {
			return true
		}
	}
	return false
}

// TagIDs returns the ids of the resolved tags.
func (p Post) TagIDs() []uint {
	ids := make([]uint, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
