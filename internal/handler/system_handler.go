package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

type healthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Dialect  string `json:"dialect"`
	Storage  string `json:"storage"`
	Error    string `json:"error,omitempty"`
}

// HealthCheck 探测内容库连接，并报告当前使用的数据库方言与文件存储驱动
func (a *API) HealthCheck(c *gin.Context) {
	report := healthReport{
		Status:   "ok",
		Database: "up",
		Dialect:  a.db.Dialector.Name(),
		Storage:  a.storage,
	}

	if err := a.pingContentStore(c.Request.Context()); err != nil {
		report.Status = "degraded"
		report.Database = "down"
		report.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (a *API) pingContentStore(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
