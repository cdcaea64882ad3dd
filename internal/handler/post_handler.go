package handler

import (
	"net/http"

	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
)

type postRequest struct {
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Excerpt          string `json:"excerpt"`
	Content          string `json:"content"`
	FeaturedImageURL string `json:"featured_image_url"`
	Published        bool   `json:"published"`
	TagIDs           []uint `json:"tag_ids"`
}

func (r postRequest) toInput() service.PostInput {
	return service.PostInput{
		Title:            r.Title,
		Slug:             r.Slug,
		Excerpt:          r.Excerpt,
		Content:          r.Content,
		FeaturedImageURL: r.FeaturedImageURL,
		Published:        r.Published,
		TagIDs:           r.TagIDs,
	}
}

type toggleRequest struct {
	Published bool `json:"published"`
}

// ListPosts 获取后台文章列表，包含草稿
func (a *API) ListPosts(c *gin.Context) {
	posts, err := a.posts.ListAll()
	if err != nil {
		respondServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost 获取单篇文章（任意状态）
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err, "获取文章失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "文章数据格式不正确") {
		return
	}

	post, err := a.posts.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "创建文章失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "文章创建成功", "post": post})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "文章数据格式不正确") {
		return
	}

	post, err := a.posts.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "更新文章失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章更新成功", "post": post})
}

// DeletePost 删除文章，返回最新的文章列表
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondServiceError(c, err, "删除文章失败")
		return
	}

	posts, err := a.posts.ListAll()
	if err != nil {
		respondServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章删除成功", "posts": posts})
}

// TogglePost 切换发布状态；请求体中的 published 为客户端看到的当前状态
func (a *API) TogglePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var req toggleRequest
	if !bindJSON(c, &req, "发布状态格式不正确") {
		return
	}

	post, err := a.posts.TogglePublished(id, req.Published)
	if err != nil {
		respondServiceError(c, err, "更新发布状态失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "发布状态已更新", "post": post})
}
