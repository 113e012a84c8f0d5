package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flowread/api/middleware"
	"flowread/api/model"
	"flowread/internal/services"
)

// SessionHandler 处理阅读会话相关的API请求
type SessionHandler struct {
	sessionService *services.SessionService // 会话服务
	logger         *logrus.Logger           // 日志记录器
}

// NewSessionHandler 创建新的会话处理器
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         middleware.GetLogger(),
	}
}

// CreateSession 创建阅读会话
// POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req model.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("document_id is required"))
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), req.DocumentID)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":       err.Error(),
			"document_id": req.DocumentID,
		}).Warn("Failed to start reading session")

		middleware.HandleError(c, err)
		return
	}

	// 客户端带初始进度时直接应用到新会话
	if req.CurrentWordIndex != nil || req.WordsRead != nil || req.TimeSpent != nil || req.Completed != nil {
		session, err = h.sessionService.UpdateSession(c.Request.Context(), session.ID, services.SessionUpdate{
			CurrentWordIndex: req.CurrentWordIndex,
			WordsRead:        req.WordsRead,
			TimeSpent:        req.TimeSpent,
			Completed:        req.Completed,
		})
		if err != nil {
			middleware.HandleError(c, err)
			return
		}
	}

	h.logger.WithFields(logrus.Fields{
		"session_id":  session.ID,
		"document_id": session.DocumentID,
		"total_words": session.TotalWords,
	}).Info("Reading session started")

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewSessionResponse(session)))
}

// UpdateSession 更新阅读会话进度
// PUT /api/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var uri model.SessionGetRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid session id"))
		return
	}

	var req model.SessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid session update payload"))
		return
	}

	update := services.SessionUpdate{
		CurrentWordIndex: req.CurrentWordIndex,
		WordsRead:        req.WordsRead,
		TimeSpent:        req.TimeSpent,
		Completed:        req.Completed,
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), uri.ID, update)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":      err.Error(),
			"session_id": uri.ID,
		}).Warn("Failed to update reading session")

		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewSessionResponse(session)))
}

// GetSession 获取阅读会话
// GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	var req model.SessionGetRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid session id"))
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), req.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewSessionResponse(session)))
}

// GetLatestForDocument 获取文档最近一次阅读会话
// GET /api/sessions/document/:id
func (h *SessionHandler) GetLatestForDocument(c *gin.Context) {
	var req model.SessionByDocumentRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid document id"))
		return
	}

	session, err := h.sessionService.LatestForDocument(c.Request.Context(), req.ID)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":       err.Error(),
			"document_id": req.ID,
		}).Warn("Failed to get latest session for document")

		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewSessionResponse(session)))
}
