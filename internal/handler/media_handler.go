package handler

import (
	"io"
	"net/http"

	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadMedia 处理图片上传请求，表单字段为 file
func (a *API) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}
	if file.Size > service.MaxUploadSize {
		respondError(c, http.StatusBadRequest, "图片大小超过限制")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxUploadSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}

	object, err := a.media.Upload(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		respondServiceError(c, err, "保存文件失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "上传成功",
		"media":   object,
		"url":     object.URL,
	})
}

// ListMedia 列出已上传的图片，最新的在前
func (a *API) ListMedia(c *gin.Context) {
	objects, err := a.media.List()
	if err != nil {
		respondServiceError(c, err, "获取媒体列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": objects})
}

// DeleteMedia 删除图片文件及其记录，返回最新列表
func (a *API) DeleteMedia(c *gin.Context) {
	if err := a.media.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondServiceError(c, err, "删除文件失败")
		return
	}

	objects, err := a.media.List()
	if err != nil {
		respondServiceError(c, err, "获取媒体列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功", "media": objects})
}
