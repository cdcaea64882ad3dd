package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/folio/internal/db"
	"github.com/folio/internal/service"
)

type postResponse struct {
	Post db.Post `json:"post"`
}

func TestCreatePostWithTags(t *testing.T) {
	api, gdb := setupTestAPI(t)
	tag, _ := service.NewTagService(gdb).Create(service.TagInput{Name: "Go", Slug: "go"})

	w := callJSON(api.CreatePost, http.MethodPost, "/admin/api/posts", map[string]any{
		"title":   "Test Post",
		"content": "# Test Post\nContent",
		"excerpt": "Summary",
		"tag_ids": []uint{tag.ID},
	})
	expectStatus(t, w, http.StatusCreated)

	var resp postResponse
	decodeBody(t, w, &resp)
	if resp.Post.Slug != "test-post" {
		t.Fatalf("expected slug derived from title, got %q", resp.Post.Slug)
	}
	if len(resp.Post.Tags) != 1 || resp.Post.Tags[0].ID != tag.ID {
		t.Fatalf("expected associated tag with ID %d, got %+v", tag.ID, resp.Post.Tags)
	}
	if resp.Post.Published || resp.Post.PublishedAt != nil {
		t.Fatalf("expected a draft without published_at")
	}
}

func TestCreatePostRejectsUnknownTags(t *testing.T) {
	api, _ := setupTestAPI(t)

	w := callJSON(api.CreatePost, http.MethodPost, "/admin/api/posts", map[string]any{
		"title":   "Test Post",
		"tag_ids": []uint{99},
	})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	api, _ := setupTestAPI(t)

	payload := map[string]any{"title": "Same", "slug": "same"}
	expectStatus(t, callJSON(api.CreatePost, http.MethodPost, "/admin/api/posts", payload), http.StatusCreated)
	expectStatus(t, callJSON(api.CreatePost, http.MethodPost, "/admin/api/posts", payload), http.StatusConflict)
}

func TestTogglePostKeepsFirstPublishTime(t *testing.T) {
	api, gdb := setupTestAPI(t)
	post, err := service.NewPostService(gdb).Create(service.PostInput{Title: "Toggle"})
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	id := strconv.Itoa(int(post.ID))

	w := callJSON(api.TogglePost, http.MethodPost, "/admin/api/posts/"+id+"/toggle", map[string]any{"published": false}, "id", id)
	expectStatus(t, w, http.StatusOK)
	var first postResponse
	decodeBody(t, w, &first)
	if !first.Post.Published || first.Post.PublishedAt == nil {
		t.Fatalf("expected post to be published, got %+v", first.Post)
	}

	w = callJSON(api.TogglePost, http.MethodPost, "/admin/api/posts/"+id+"/toggle", map[string]any{"published": true}, "id", id)
	expectStatus(t, w, http.StatusOK)
	var second postResponse
	decodeBody(t, w, &second)
	if second.Post.Published {
		t.Fatalf("expected post to be unpublished")
	}
	if second.Post.PublishedAt == nil || !second.Post.PublishedAt.Equal(*first.Post.PublishedAt) {
		t.Fatalf("expected published_at to be retained, got %v", second.Post.PublishedAt)
	}

	w = callJSON(api.TogglePost, http.MethodPost, "/admin/api/posts/999/toggle", map[string]any{"published": false}, "id", "999")
	expectStatus(t, w, http.StatusNotFound)
}

func TestUpdateAndDeletePost(t *testing.T) {
	api, gdb := setupTestAPI(t)
	posts := service.NewPostService(gdb)
	post, _ := posts.Create(service.PostInput{Title: "Original"})
	posts.Create(service.PostInput{Title: "Other"})
	id := strconv.Itoa(int(post.ID))

	w := callJSON(api.UpdatePost, http.MethodPut, "/admin/api/posts/"+id, map[string]any{
		"title":     "Edited",
		"slug":      "edited",
		"published": true,
	}, "id", id)
	expectStatus(t, w, http.StatusOK)
	var updated postResponse
	decodeBody(t, w, &updated)
	if updated.Post.Title != "Edited" || updated.Post.PublishedAt == nil {
		t.Fatalf("unexpected update result: %+v", updated.Post)
	}

	w = callJSON(api.GetPost, http.MethodGet, "/admin/api/posts/"+id, nil, "id", id)
	expectStatus(t, w, http.StatusOK)

	w = callJSON(api.DeletePost, http.MethodDelete, "/admin/api/posts/"+id, nil, "id", id)
	expectStatus(t, w, http.StatusOK)
	var remaining struct {
		Posts []db.Post `json:"posts"`
	}
	decodeBody(t, w, &remaining)
	if len(remaining.Posts) != 1 || remaining.Posts[0].Title != "Other" {
		t.Fatalf("expected remaining list after delete, got %+v", remaining.Posts)
	}

	expectStatus(t, callJSON(api.GetPost, http.MethodGet, "/admin/api/posts/"+id, nil, "id", id), http.StatusNotFound)
	expectStatus(t, callJSON(api.DeletePost, http.MethodDelete, "/admin/api/posts/"+id, nil, "id", id), http.StatusNotFound)
}

func TestListPostsIncludesDrafts(t *testing.T) {
	api, gdb := setupTestAPI(t)
	posts := service.NewPostService(gdb)
	posts.Create(service.PostInput{Title: "Draft"})
	posts.Create(service.PostInput{Title: "Live", Published: true})

	w := callJSON(api.ListPosts, http.MethodGet, "/admin/api/posts", nil)
	expectStatus(t, w, http.StatusOK)

	var resp struct {
		Posts []db.Post `json:"posts"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Posts) != 2 {
		t.Fatalf("expected drafts and published posts, got %d", len(resp.Posts))
	}
}
