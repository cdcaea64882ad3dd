package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/folio/internal/apperr"
	"github.com/folio/internal/db"
	"github.com/folio/internal/slugify"
	"gorm.io/gorm"
)

// DefaultRelatedLimit is used when GetRelated is called without a positive limit.
const DefaultRelatedLimit = 3

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title            string
	Slug             string
	Excerpt          string
	Content          string
	FeaturedImageURL string
	Published        bool
	TagIDs           []uint
}

// ListOptions narrows ListPublished. Zero values mean "no limit" and "all tags".
type ListOptions struct {
	Limit   int
	TagSlug string
}

// PostStats 汇总后台面板使用的文章数量
type PostStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

func preloadTags(tx *gorm.DB) *gorm.DB {
	return tx.Order("tags.name_key asc")
}

// ListAll returns every post regardless of status, newest first.
func (s *PostService) ListAll() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Tags", preloadTags).Order("created_at desc").Order("id desc").Find(&posts).Error; err != nil {
		return nil, apperr.Persistence("failed to list posts", err)
	}
	return posts, nil
}

// ListRecent returns the most recently created posts regardless of status.
func (s *PostService) ListRecent(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	var posts []db.Post
	if err := s.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&posts).Error; err != nil {
		return nil, apperr.Persistence("failed to list recent posts", err)
	}
	return posts, nil
}

// Stats counts all, published and draft posts.
func (s *PostService) Stats() (PostStats, error) {
	var stats PostStats
	if err := s.db.Model(&db.Post{}).Count(&stats.Total).Error; err != nil {
		return stats, apperr.Persistence("failed to count posts", err)
	}
	if err := s.db.Model(&db.Post{}).Where("published = ?", true).Count(&stats.Published).Error; err != nil {
		return stats, apperr.Persistence("failed to count published posts", err)
	}
	stats.Drafts = stats.Total - stats.Published
	return stats, nil
}

// Get fetches a post by id with tags preloaded, regardless of publish state.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags", preloadTags).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %d not found", id)
		}
		return nil, apperr.Persistence("failed to fetch post", err)
	}
	return &post, nil
}

// Create persists a post and its tag associations in a transaction.
// A post created as published gets its first-publish timestamp immediately.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	input, tagIDs, err := s.validate(input, 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := db.Post{
		Title:            input.Title,
		Slug:             input.Slug,
		Excerpt:          input.Excerpt,
		Content:          input.Content,
		FeaturedImageURL: optionalString(input.FeaturedImageURL),
		Published:        input.Published,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.Published {
		post.PublishedAt = &now
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(&post).Error; err != nil {
			return err
		}
		return insertPostTags(tx, post.ID, tagIDs)
	}); err != nil {
		return nil, apperr.Persistence("failed to create post", err)
	}

	return s.Get(post.ID)
}

// Update applies edits to an existing post and replaces its tag set.
// The first-publish timestamp is stamped only if the post has never been published; it is never cleared.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	input, tagIDs, err := s.validate(input, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	publishedAt := nextPublishedAt(existing.PublishedAt, input.Published, now)

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":              input.Title,
			"slug":               input.Slug,
			"excerpt":            input.Excerpt,
			"content":            input.Content,
			"featured_image_url": optionalString(input.FeaturedImageURL),
			"published":          input.Published,
			"published_at":       publishedAt,
			"updated_at":         now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&db.PostTag{}).Error; err != nil {
			return err
		}
		return insertPostTags(tx, id, tagIDs)
	}); err != nil {
		return nil, apperr.Persistence("failed to update post", err)
	}

	return s.Get(id)
}

// Delete removes the post's tag associations and then the post in one transaction.
func (s *PostService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("post %d not found", id)
			}
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&db.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
	return apperr.Persistence("failed to delete post", err)
}

// TogglePublished flips the publish flag from currentStatus and applies the first-publish rule.
func (s *PostService) TogglePublished(id uint, currentStatus bool) (*db.Post, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	published := !currentStatus
	now := s.now()

	if err := s.db.Model(&db.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"published":    published,
		"published_at": nextPublishedAt(existing.PublishedAt, published, now),
		"updated_at":   now,
	}).Error; err != nil {
		return nil, apperr.Persistence("failed to toggle publish status", err)
	}

	return s.Get(id)
}

// ListPublished returns published posts, most recently published first, with tags resolved.
// The tag filter runs in memory on the resolved posts and the limit applies after it.
func (s *PostService) ListPublished(opts ListOptions) ([]db.Post, error) {
	tagSlug := strings.TrimSpace(opts.TagSlug)

	query := s.publishedQuery()
	if tagSlug == "" && opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var posts []db.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, apperr.Persistence("failed to list published posts", err)
	}

	if tagSlug != "" {
		filtered := make([]db.Post, 0, len(posts))
		for _, post := range posts {
			if post.HasTag(tagSlug) {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	if opts.Limit > 0 && len(posts) > opts.Limit {
		posts = posts[:opts.Limit]
	}
	return posts, nil
}

// GetBySlug returns the published post with the given slug.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags", preloadTags).
		Where("slug = ? AND published = ?", strings.TrimSpace(slug), true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %q not found", slug)
		}
		return nil, apperr.Persistence("failed to fetch post", err)
	}
	return &post, nil
}

// GetRelated ranks other published posts by how many of tagIDs they share.
// Posts sharing nothing are dropped. Equal counts keep the publish order: newest first, then higher id.
func (s *PostService) GetRelated(postID uint, tagIDs []uint, limit int) ([]db.Post, error) {
	if len(tagIDs) == 0 {
		return []db.Post{}, nil
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	wanted := make(map[uint]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		wanted[id] = struct{}{}
	}

	var candidates []db.Post
	if err := s.publishedQuery().Where("posts.id <> ?", postID).Find(&candidates).Error; err != nil {
		return nil, apperr.Persistence("failed to list related posts", err)
	}

	type ranked struct {
		post    db.Post
		matches int
	}
	matches := make([]ranked, 0, len(candidates))
	for _, post := range candidates {
		count := 0
		for _, tag := range post.Tags {
			if _, ok := wanted[tag.ID]; ok {
				count++
			}
		}
		if count > 0 {
			matches = append(matches, ranked{post: post, matches: count})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].matches > matches[j].matches
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	related := make([]db.Post, 0, len(matches))
	for _, m := range matches {
		related = append(related, m.post)
	}
	return related, nil
}

// ListPublishedSlugs returns the slug of every published post. It needs nothing but the store handle,
// so static pre-generation can call it outside any request.
func (s *PostService) ListPublishedSlugs() ([]string, error) {
	var slugs []string
	if err := s.db.Model(&db.Post{}).
		Where("published = ?", true).
		Order("published_at desc").
		Order("id desc").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, apperr.Persistence("failed to list post slugs", err)
	}
	return slugs, nil
}

func (s *PostService) publishedQuery() *gorm.DB {
	return s.db.Model(&db.Post{}).
		Preload("Tags", preloadTags).
		Where("posts.published = ?", true).
		Order("posts.published_at desc").
		Order("posts.id desc")
}

func (s *PostService) validate(input PostInput, excludeID uint) (PostInput, []uint, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Excerpt = strings.TrimSpace(input.Excerpt)
	input.FeaturedImageURL = strings.TrimSpace(input.FeaturedImageURL)

	if input.Title == "" {
		return input, nil, apperr.Validation("post title is required")
	}
	if input.Slug == "" {
		input.Slug = slugify.Make(input.Title)
	}
	if input.Slug == "" {
		return input, nil, apperr.Validation("post slug is required")
	}
	if !slugify.Valid(input.Slug) {
		return input, nil, apperr.Validation("post slug %q must be lowercase letters, digits and single hyphens", input.Slug)
	}

	slugQuery := s.db.Model(&db.Post{}).Where("slug = ?", input.Slug)
	if excludeID != 0 {
		slugQuery = slugQuery.Where("id <> ?", excludeID)
	}
	var count int64
	if err := slugQuery.Count(&count).Error; err != nil {
		return input, nil, apperr.Persistence("failed to check post slug", err)
	}
	if count > 0 {
		return input, nil, apperr.Conflict("a post with the slug %q already exists", input.Slug)
	}

	tagIDs := uniqueIDs(input.TagIDs)
	if len(tagIDs) > 0 {
		var found int64
		if err := s.db.Model(&db.Tag{}).Where("id IN ?", tagIDs).Count(&found).Error; err != nil {
			return input, nil, apperr.Persistence("failed to check tags", err)
		}
		if found != int64(len(tagIDs)) {
			return input, nil, apperr.Validation("one or more tags do not exist")
		}
	}

	return input, tagIDs, nil
}

// nextPublishedAt keeps an existing first-publish time and stamps now only on the first publish.
func nextPublishedAt(current *time.Time, published bool, now time.Time) *time.Time {
	if current != nil {
		return current
	}
	if published {
		return &now
	}
	return nil
}

func insertPostTags(tx *gorm.DB, postID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]db.PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, db.PostTag{PostID: postID, TagID: tagID})
	}
	return tx.Create(&rows).Error
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
