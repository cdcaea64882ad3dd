package service

import (
	"errors"
	"strings"

	"github.com/folio/internal/apperr"
	"github.com/folio/internal/db"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/slugify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagInput represents fields accepted when creating or updating a tag.
type TagInput struct {
	Name string
	Slug string
}

// TagExistence 描述名称与 slug 是否与其他标签冲突
type TagExistence struct {
	NameExists bool `json:"name_exists"`
	SlugExists bool `json:"slug_exists"`
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns all tags ordered by name, ignoring case.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name_key asc").Order("id asc").Find(&tags).Error; err != nil {
		return nil, apperr.Persistence("failed to list tags", err)
	}
	return tags, nil
}

// ListWithPostCount returns all tags ordered by name, each with the number of posts it labels.
// A failing count degrades to zero instead of failing the list.
func (s *TagService) ListWithPostCount() ([]db.Tag, error) {
	tags, err := s.List()
	if err != nil {
		return nil, err
	}

	for i := range tags {
		count, err := s.postCount(tags[i].ID)
		if err != nil {
			logger.Get().Warn("count posts for tag", zap.Uint("tag_id", tags[i].ID), zap.Error(err))
			count = 0
		}
		tags[i].PostCount = count
	}
	return tags, nil
}

// Get fetches a tag by id.
func (s *TagService) Get(id uint) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag %d not found", id)
		}
		return nil, apperr.Persistence("failed to fetch tag", err)
	}
	return &tag, nil
}

// GetBySlug fetches a tag by its slug.
func (s *TagService) GetBySlug(slug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag %q not found", slug)
		}
		return nil, apperr.Persistence("failed to fetch tag", err)
	}
	return &tag, nil
}

// PostIDs returns the ids of posts labelled with the tag.
func (s *TagService) PostIDs(tagID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&db.PostTag{}).Where("tag_id = ?", tagID).Order("post_id asc").Pluck("post_id", &ids).Error; err != nil {
		return nil, apperr.Persistence("failed to list posts for tag", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// CheckExists reports name (compared by name_key) and slug (exact) collisions with tags other than excludeID.
// excludeID 为 0 时不排除任何标签。
func (s *TagService) CheckExists(name, slug string, excludeID uint) (TagExistence, error) {
	var result TagExistence

	nameQuery := s.db.Model(&db.Tag{}).Where("name_key = ?", db.TagNameKey(name))
	slugQuery := s.db.Model(&db.Tag{}).Where("slug = ?", strings.TrimSpace(slug))
	if excludeID != 0 {
		nameQuery = nameQuery.Where("id <> ?", excludeID)
		slugQuery = slugQuery.Where("id <> ?", excludeID)
	}

	var nameCount, slugCount int64
	if err := nameQuery.Count(&nameCount).Error; err != nil {
		return result, apperr.Persistence("failed to check tag name", err)
	}
	if err := slugQuery.Count(&slugCount).Error; err != nil {
		return result, apperr.Persistence("failed to check tag slug", err)
	}

	result.NameExists = nameCount > 0
	result.SlugExists = slugCount > 0
	return result, nil
}

// Create inserts a new tag with a unique name and slug.
func (s *TagService) Create(input TagInput) (*db.Tag, error) {
	input, err := s.validate(input, 0)
	if err != nil {
		return nil, err
	}

	tag := db.Tag{Name: input.Name, NameKey: db.TagNameKey(input.Name), Slug: input.Slug}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, apperr.Persistence("failed to create tag", err)
	}
	return &tag, nil
}

// Update changes the tag name and slug while keeping both unique.
func (s *TagService) Update(id uint, input TagInput) (*db.Tag, error) {
	tag, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	input, err = s.validate(input, id)
	if err != nil {
		return nil, err
	}

	tag.Name = input.Name
	tag.NameKey = db.TagNameKey(input.Name)
	tag.Slug = input.Slug
	if err := s.db.Model(tag).Updates(map[string]interface{}{
		"name":     tag.Name,
		"name_key": tag.NameKey,
		"slug":     tag.Slug,
	}).Error; err != nil {
		return nil, apperr.Persistence("failed to update tag", err)
	}

	count, err := s.postCount(tag.ID)
	if err == nil {
		tag.PostCount = count
	}
	return tag, nil
}

// Delete removes the tag's post associations and then the tag itself in one transaction.
func (s *TagService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tag db.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("tag %d not found", id)
			}
			return err
		}

		if err := tx.Where("tag_id = ?", id).Delete(&db.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	return apperr.Persistence("failed to delete tag", err)
}

func (s *TagService) validate(input TagInput, excludeID uint) (TagInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)

	if input.Name == "" {
		return input, apperr.Validation("tag name is required")
	}
	if input.Slug == "" {
		return input, apperr.Validation("tag slug is required")
	}
	if !slugify.Valid(input.Slug) {
		return input, apperr.Validation("tag slug %q must be lowercase letters, digits and single hyphens", input.Slug)
	}

	exists, err := s.CheckExists(input.Name, input.Slug, excludeID)
	if err != nil {
		return input, err
	}
	if exists.NameExists {
		return input, apperr.Conflict("a tag with the name %q already exists", input.Name)
	}
	if exists.SlugExists {
		return input, apperr.Conflict("a tag with the slug %q already exists", input.Slug)
	}
	return input, nil
}

func (s *TagService) postCount(tagID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.PostTag{}).Where("tag_id = ?", tagID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
