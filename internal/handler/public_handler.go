package handler

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/folio/internal/db"
	"github.com/folio/internal/markdown"
	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	xmlContentType = "application/xml; charset=utf-8"
	xmlCacheHeader = "public, s-maxage=3600, stale-while-revalidate"
)

type postDetail struct {
	db.Post
	HTML        template.HTML `json:"html"`
	ReadingTime int           `json:"reading_time"`
}

// ListPublishedPosts 返回已发布文章，可按标签 slug 过滤并限制数量
func (a *API) ListPublishedPosts(c *gin.Context) {
	posts, err := a.posts.ListPublished(service.ListOptions{
		TagSlug: strings.TrimSpace(c.Query("tag")),
		Limit:   parseLimit(c, 0),
	})
	if err != nil {
		respondServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPublishedPost 返回文章详情、渲染后的 HTML、阅读时间与相关文章
func (a *API) GetPublishedPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "获取文章失败")
		return
	}

	html, err := markdown.Render(post.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染文章失败")
		return
	}

	related, err := a.posts.GetRelated(post.ID, post.TagIDs(), service.DefaultRelatedLimit)
	if err != nil {
		respondServiceError(c, err, "获取相关文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": postDetail{
			Post:        *post,
			HTML:        html,
			ReadingTime: markdown.ReadingTime(post.Content),
		},
		"related": related,
	})
}

// GetRelatedPosts 按共享标签数量返回相关文章
func (a *API) GetRelatedPosts(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "获取文章失败")
		return
	}

	related, err := a.posts.GetRelated(post.ID, post.TagIDs(), parseLimit(c, service.DefaultRelatedLimit))
	if err != nil {
		respondServiceError(c, err, "获取相关文章失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": related})
}

// ListPublishedSlugs 供前端静态预生成使用
func (a *API) ListPublishedSlugs(c *gin.Context) {
	slugs, err := a.posts.ListPublishedSlugs()
	if err != nil {
		respondServiceError(c, err, "获取文章 slug 失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slugs": slugs})
}

// Feed 输出 RSS 2.0
func (a *API) Feed(c *gin.Context) {
	body, err := a.feed.RSS()
	if err != nil {
		respondServiceError(c, err, "生成 RSS 失败")
		return
	}
	c.Header("Cache-Control", xmlCacheHeader)
	c.Data(http.StatusOK, xmlContentType, body)
}

// Sitemap 输出站点地图
func (a *API) Sitemap(c *gin.Context) {
	body, err := a.feed.Sitemap()
	if err != nil {
		respondServiceError(c, err, "生成站点地图失败")
		return
	}
	c.Header("Cache-Control", xmlCacheHeader)
	c.Data(http.StatusOK, xmlContentType, body)
}
