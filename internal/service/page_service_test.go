package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/folio/internal/apperr"
)

func TestSaveAboutCreatesRecord(t *testing.T) {
	gdb := setupServiceTestDB(t, "page-create")
	svc := NewPageService(gdb)

	page, err := svc.SaveAbout("", "# Hello\n这是关于页")
	if err != nil {
		t.Fatalf("SaveAbout returned error: %v", err)
	}

	if page.Slug != AboutSlug {
		t.Fatalf("expected slug 'about', got %s", page.Slug)
	}
	if page.Title != "About Me" {
		t.Fatalf("expected default title, got %s", page.Title)
	}
	if page.Summary != "Hello 这是关于页" {
		t.Fatalf("expected markdown stripped summary, got %q", page.Summary)
	}
}

func TestSaveAboutUpdatesExisting(t *testing.T) {
	gdb := setupServiceTestDB(t, "page-update")
	svc := NewPageService(gdb)

	if _, err := svc.SaveAbout("Hi there", "初始内容"); err != nil {
		t.Fatalf("failed to seed about page: %v", err)
	}

	updated, err := svc.SaveAbout("", "更新后的内容")
	if err != nil {
		t.Fatalf("SaveAbout returned error: %v", err)
	}
	if updated.Content != "更新后的内容" {
		t.Fatalf("expected content to be updated, got %s", updated.Content)
	}
	if updated.Title != "Hi there" {
		t.Fatalf("expected title to be kept, got %s", updated.Title)
	}

	fetched, err := svc.GetBySlug(AboutSlug)
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if fetched.ID != updated.ID || fetched.Content != "更新后的内容" {
		t.Fatalf("expected a single updated about page, got %+v", fetched)
	}
}

func TestSaveAboutRejectsEmptyContent(t *testing.T) {
	gdb := setupServiceTestDB(t, "page-empty")
	svc := NewPageService(gdb)

	if _, err := svc.SaveAbout("Title", "\n\t "); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPageGetBySlugMissing(t *testing.T) {
	gdb := setupServiceTestDB(t, "page-missing")
	svc := NewPageService(gdb)

	if _, err := svc.GetBySlug(AboutSlug); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSummarizeContentTruncates(t *testing.T) {
	summary := summarizeContent(strings.Repeat("字", 200))
	if utf8.RuneCountInString(summary) != summaryLimit+1 {
		t.Fatalf("expected %d runes plus ellipsis, got %d", summaryLimit, utf8.RuneCountInString(summary))
	}
	if !strings.HasSuffix(summary, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", summary)
	}
}
