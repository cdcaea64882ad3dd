package handler

import (
	"net/http"

	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
)

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r tagRequest) toInput() service.TagInput {
	return service.TagInput{Name: r.Name, Slug: r.Slug}
}

// GetTags 获取带文章数量的标签列表，前台与后台共用
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.ListWithPostCount()
	if err != nil {
		respondServiceError(c, err, "获取标签列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag 创建新标签
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "标签数据格式不正确") {
		return
	}

	tag, err := a.tags.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "创建标签失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "标签创建成功", "tag": tag})
}

// UpdateTag 更新标签
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "标签数据格式不正确") {
		return
	}

	tag, err := a.tags.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "更新标签失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "标签更新成功", "tag": tag})
}

// DeleteTag 删除标签及其文章关联，返回最新的标签列表
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		respondServiceError(c, err, "删除标签失败")
		return
	}

	tags, err := a.tags.ListWithPostCount()
	if err != nil {
		respondServiceError(c, err, "获取标签列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "标签删除成功", "tags": tags})
}

// GetTagPosts 返回使用该标签的文章 ID，供删除前的确认提示使用
func (a *API) GetTagPosts(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	tag, err := a.tags.Get(id)
	if err != nil {
		respondServiceError(c, err, "获取标签失败")
		return
	}

	ids, err := a.tags.PostIDs(tag.ID)
	if err != nil {
		respondServiceError(c, err, "获取标签文章失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "post_ids": ids})
}

// CheckTag 检查名称与 slug 是否已被其他标签占用
func (a *API) CheckTag(c *gin.Context) {
	result, err := a.tags.CheckExists(c.Query("name"), c.Query("slug"), parseUintQuery(c, "exclude_id"))
	if err != nil {
		respondServiceError(c, err, "检查标签失败")
		return
	}
	c.JSON(http.StatusOK, result)
}
