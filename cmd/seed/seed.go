package main

import (
	"github.com/folio/internal/apperr"
	"github.com/folio/internal/service"
	"go.uber.org/zap"
)

type seedPost struct {
	title     string
	excerpt   string
	content   string
	tags      []string
	published bool
}

var seedTags = []service.TagInput{
	{Name: "Go", Slug: "go"},
	{Name: "AI", Slug: "ai"},
	{Name: "Leadership", Slug: "leadership"},
	{Name: "Databases", Slug: "databases"},
	{Name: "Web Development", Slug: "web-development"},
}

var seedPosts = []seedPost{
	{
		title:     "Building fast web services in Go",
		excerpt:   "Framework choice, profiling and the patterns that kept our p99 flat.",
		content:   "## Why Go\n\nGo's concurrency model and small runtime make it a natural fit for web services.\n\n- pick a router you can read\n- measure before tuning\n- keep handlers thin",
		tags:      []string{"go", "web-development"},
		published: true,
	},
	{
		title:     "Shipping AI features without a research team",
		excerpt:   "What it takes to put a model behind a product surface.",
		content:   "Most of the work is evaluation, not prompting.\n\n| stage | owner |\n|---|---|\n| eval set | product |\n| rollout | engineering |",
		tags:      []string{"ai", "leadership"},
		published: true,
	},
	{
		title:     "SQLite in production",
		excerpt:   "Indexes, WAL mode and when to move on.",
		content:   "SQLite handles far more traffic than its reputation suggests.",
		tags:      []string{"databases", "go"},
		published: true,
	},
	{
		title:   "Notes on running an engineering org",
		excerpt: "Draft: hiring loops, on-call and planning.",
		content: "Work in progress.",
		tags:    []string{"leadership"},
	},
}

const seedAbout = "## Hi, I'm the author\n\n- I build backend systems in Go\n- I write about engineering leadership and applied AI\n\n### Currently\n1. Shipping AI-assisted developer tools\n2. Writing more, meeting less"

type seedResult struct {
	tags  int
	posts int
}

// seed 写入示例标签、文章与关于页；已存在的记录会被跳过，可重复执行。
func seed(tags *service.TagService, posts *service.PostService, pages *service.PageService, log *zap.Logger) (seedResult, error) {
	var result seedResult

	for _, input := range seedTags {
		if _, err := tags.Create(input); err != nil {
			if apperr.IsConflict(err) {
				log.Info("tag exists, skipping", zap.String("slug", input.Slug))
				continue
			}
			return result, err
		}
		result.tags++
	}

	for _, p := range seedPosts {
		tagIDs := make([]uint, 0, len(p.tags))
		for _, slug := range p.tags {
			tag, err := tags.GetBySlug(slug)
			if err != nil {
				return result, err
			}
			tagIDs = append(tagIDs, tag.ID)
		}

		_, err := posts.Create(service.PostInput{
			Title:     p.title,
			Excerpt:   p.excerpt,
			Content:   p.content,
			Published: p.published,
			TagIDs:    tagIDs,
		})
		if err != nil {
			if apperr.IsConflict(err) {
				log.Info("post exists, skipping", zap.String("title", p.title))
				continue
			}
			return result, err
		}
		result.posts++
	}

	if _, err := pages.GetBySlug(service.AboutSlug); apperr.IsNotFound(err) {
		if _, err := pages.SaveAbout("About Me", seedAbout); err != nil {
			return result, err
		}
	} else if err != nil {
		return result, err
	}

	return result, nil
}
