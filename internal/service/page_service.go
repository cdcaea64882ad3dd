package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/folio/internal/apperr"
	"github.com/folio/internal/db"
	"gorm.io/gorm"
)

const (
	// AboutSlug is the slug of the home-page biography.
	AboutSlug         = "about"
	defaultAboutTitle = "About Me"
	summaryLimit      = 120
)

// PageService provides access to standalone pages such as About.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug fetches a page for a given slug.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("page %q not found", slug)
		}
		return nil, apperr.Persistence("failed to fetch page", err)
	}
	return &page, nil
}

// SaveAbout creates or updates the about page. 标题为空时保留原标题或使用默认标题。
func (s *PageService) SaveAbout(title, content string) (*db.Page, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("page content is required")
	}
	title = strings.TrimSpace(title)
	summary := summarizeContent(content)

	var page db.Page
	err := s.db.Where("slug = ?", AboutSlug).First(&page).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence("failed to fetch page", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if title == "" {
			title = defaultAboutTitle
		}
		page = db.Page{Slug: AboutSlug, Title: title, Summary: summary, Content: content}
		if err := s.db.Create(&page).Error; err != nil {
			return nil, apperr.Persistence("failed to create page", err)
		}
		return &page, nil
	}

	page.Content = content
	page.Summary = summary
	if title != "" {
		page.Title = title
	}
	if strings.TrimSpace(page.Title) == "" {
		page.Title = defaultAboutTitle
	}

	if err := s.db.Save(&page).Error; err != nil {
		return nil, apperr.Persistence("failed to save page", err)
	}
	return &page, nil
}

func summarizeContent(markdown string) string {
	replacer := strings.NewReplacer(
		"#", " ",
		"*", " ",
		"`", " ",
		"_", " ",
		">", " ",
		"[", " ",
		"]", " ",
		"(", " ",
		")", " ",
	)
	plain := strings.Join(strings.Fields(replacer.Replace(markdown)), " ")
	if plain == "" {
		return ""
	}

	if utf8.RuneCountInString(plain) <= summaryLimit {
		return plain
	}
	runes := []rune(plain)
	return string(runes[:summaryLimit]) + "…"
}
