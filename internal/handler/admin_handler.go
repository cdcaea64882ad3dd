package handler

import (
	"net/http"
	"strings"

	"github.com/folio/internal/db"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/slugify"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionUserIDKey = "user_id"
	sessionEmailKey  = "email"
	dashboardRecent  = 5
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验管理员邮箱与密码并写入会话。只有配置中的管理员邮箱允许登录。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "请输入邮箱和密码") {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if a.adminEmail == "" || email != a.adminEmail {
		respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	user, err := db.Authenticate(a.db, email, req.Password)
	if err != nil {
		logger.Get().Warn("admin login failed", zap.String("email", email), zap.Error(err))
		respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionEmailKey, user.Email)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "email": user.Email})
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// AuthRequired 要求会话中的账号与配置的管理员邮箱一致
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email, _ := session.Get(sessionEmailKey).(string)
		if session.Get(sessionUserIDKey) == nil || email == "" || email != a.adminEmail {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		c.Set(sessionEmailKey, email)
		c.Next()
	}
}

// Dashboard 返回后台面板的统计数据与最近文章
func (a *API) Dashboard(c *gin.Context) {
	stats, err := a.posts.Stats()
	if err != nil {
		respondServiceError(c, err, "获取文章统计失败")
		return
	}

	tags, err := a.tags.List()
	if err != nil {
		respondServiceError(c, err, "获取标签列表失败")
		return
	}

	recent, err := a.posts.ListRecent(dashboardRecent)
	if err != nil {
		respondServiceError(c, err, "获取最近文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":       c.GetString(sessionEmailKey),
		"posts":       stats,
		"tagCount":    len(tags),
		"recentPosts": recent,
	})
}

// Slugify 预览标题或标签名对应的 slug
func (a *API) Slugify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slug": slugify.Make(c.Query("text"))})
}
