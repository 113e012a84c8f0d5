package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flowread/api/middleware"
	"flowread/api/model"
	"flowread/internal/services"
)

// DocumentHandler 处理文档相关的API请求
type DocumentHandler struct {
	documentService *services.DocumentService // 文档服务
	logger          *logrus.Logger            // 日志记录器
}

// NewDocumentHandler 创建新的文档处理器
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          middleware.GetLogger(),
	}
}

// UploadDocument 处理文档上传请求
// POST /api/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	// 绑定请求参数
	var req model.DocumentUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Invalid document upload request")

		middleware.HandleError(c, middleware.NewValidationError("missing file in upload request"))
		return
	}

	filename := req.File.Filename
	if !isValidFileType(filepath.Ext(filename)) {
		middleware.HandleError(c, middleware.NewValidationError(
			"unsupported file type, only .txt, .md and .markdown are accepted",
		))
		return
	}

	// 打开上传的文件
	file, err := req.File.Open()
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": filename,
		}).Error("Failed to open uploaded file")

		middleware.HandleError(c, middleware.NewInternalError("failed to open uploaded file"))
		return
	}
	defer file.Close()

	// 上传并同步处理文档
	doc, err := h.documentService.UploadDocument(c.Request.Context(), file, filename)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": filename,
		}).Error("Failed to process uploaded document")

		middleware.HandleError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"filename":    filename,
		"word_count":  doc.WordCount,
		"status":      doc.Status,
	}).Info("Document uploaded")

	resp := model.DocumentUploadResponse{
		DocumentInfo: model.NewDocumentInfo(doc),
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// GetDocument 获取文档信息
// GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	var req model.DocumentGetRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid document id"))
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), req.ID)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":       err.Error(),
			"document_id": req.ID,
		}).Warn("Failed to get document")

		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentInfo(doc)))
}

// GetDocumentWords 获取文档的分词流
// GET /api/documents/:id/words
func (h *DocumentHandler) GetDocumentWords(c *gin.Context) {
	var req model.DocumentWordsRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid document id"))
		return
	}

	words, err := h.documentService.Words(c.Request.Context(), req.ID)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":       err.Error(),
			"document_id": req.ID,
		}).Warn("Failed to build word stream")

		middleware.HandleError(c, err)
		return
	}

	resp := model.DocumentWordsResponse{
		DocumentID: req.ID,
		Words:      words,
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// ListDocuments 获取文档列表
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req model.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid query parameters"))
		return
	}

	// 构建过滤条件
	filters := make(map[string]interface{})
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.Title != "" {
		filters["title"] = req.Title
	}
	if req.FileType != "" {
		filters["file_type"] = req.FileType
	}
	if req.StartTime != nil {
		filters["start_time"] = req.StartTime.Format(time.RFC3339)
	}
	if req.EndTime != nil {
		filters["end_time"] = req.EndTime.Format(time.RFC3339)
	}

	page := req.GetPage()
	pageSize := req.GetPageSize()
	offset := (page - 1) * pageSize

	docs, total, err := h.documentService.ListDocuments(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to list documents")

		middleware.HandleError(c, err)
		return
	}

	infos := make([]model.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, model.NewDocumentInfo(doc))
	}

	resp := model.DocumentListResponse{
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		Documents: infos,
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// DeleteDocument 删除文档
// DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	var req model.DocumentDeleteRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid document id"))
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), req.ID); err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":       err.Error(),
			"document_id": req.ID,
		}).Error("Failed to delete document")

		middleware.HandleError(c, err)
		return
	}

	h.logger.WithField("document_id", req.ID).Info("Document deleted")

	resp := model.DocumentDeleteResponse{
		Success: true,
		ID:      req.ID,
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// isValidFileType 检查文件类型是否有效
// 扩展名比较不区分大小写
func isValidFileType(ext string) bool {
	validTypes := map[string]bool{
		".md":       true,
		".markdown": true,
		".txt":      true,
	}
	return validTypes[strings.ToLower(ext)]
}
