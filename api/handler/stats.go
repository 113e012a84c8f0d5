package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flowread/api/middleware"
	"flowread/api/model"
	"flowread/internal/services"
)

// StatsHandler 处理阅读统计相关的API请求
type StatsHandler struct {
	sessionService *services.SessionService
	logger         *logrus.Logger
}

// NewStatsHandler 创建新的统计处理器
func NewStatsHandler(sessionService *services.SessionService) *StatsHandler {
	return &StatsHandler{
		sessionService: sessionService,
		logger:         middleware.GetLogger(),
	}
}

// GetStats 获取全局阅读统计
// GET /api/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.sessionService.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to aggregate reading stats")

		middleware.HandleError(c, err)
		return
	}

	resp := model.StatsResponse{
		TotalDocuments:  stats.TotalDocuments,
		TotalWordsRead:  stats.TotalWordsRead,
		TotalTimeSpent:  stats.TotalTimeSpent,
		DocumentsRead:   stats.DocumentsRead,
		AverageSpeedWPM: stats.AverageSpeedWPM,
		SessionsStarted: stats.SessionsStarted,
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}
