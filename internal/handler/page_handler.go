package handler

import (
	"net/http"

	"github.com/folio/internal/markdown"
	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
)

type aboutPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GetAbout returns the about page with its rendered HTML.
func (a *API) GetAbout(c *gin.Context) {
	page, err := a.pages.GetBySlug(service.AboutSlug)
	if err != nil {
		respondServiceError(c, err, "加载关于页面失败")
		return
	}

	html, err := markdown.Render(page.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染关于页面失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": page,
		"html": html,
	})
}

// UpdateAbout saves the markdown content for the about page.
func (a *API) UpdateAbout(c *gin.Context) {
	var payload aboutPayload
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	page, err := a.pages.SaveAbout(payload.Title, payload.Content)
	if err != nil {
		respondServiceError(c, err, "保存失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "关于页面已更新",
		"page":    page,
	})
}
