package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/folio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// clock hands out strictly increasing timestamps so publish ordering is deterministic.
type clock struct {
	current time.Time
}

func newClock() *clock {
	return &clock{current: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.current = c.current.Add(time.Minute)
	return c.current
}

func newTestPostService(gdb *gorm.DB) (*PostService, *clock) {
	svc := NewPostService(gdb)
	clk := newClock()
	svc.now = clk.Now
	return svc, clk
}

func mustCreateTag(t *testing.T, svc *TagService, name, slug string) *db.Tag {
	t.Helper()
	tag, err := svc.Create(TagInput{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

func mustCreatePost(t *testing.T, svc *PostService, input PostInput) *db.Post {
	t.Helper()
	post, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create post %s: %v", input.Title, err)
	}
	return post
}

func postIDs(posts []db.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	return ids
}

// failWritesTo makes every create or delete against table fail, so a transaction touching it must roll back.
func failWritesTo(t *testing.T, gdb *gorm.DB, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == table {
			_ = tx.AddError(errors.New(table + " unavailable"))
		}
	}
	if err := gdb.Callback().Create().Before("gorm:create").Register("test:fail_create_"+table, fail); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	if err := gdb.Callback().Delete().Before("gorm:delete").Register("test:fail_delete_"+table, fail); err != nil {
		t.Fatalf("register delete callback: %v", err)
	}
}
