package model

import (
	"time"

	"flowread/internal/models"
	"flowread/internal/segmenter"
)

// Response 通用API响应结构
type Response struct {
	Code    int         `json:"code"`               // 状态码
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据
	TraceID string      `json:"trace_id,omitempty"` // 请求追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Code:    200,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) Response {
	return Response{
		Code:    code,
		Message: message,
	}
}

// DocumentInfo 文档基本信息
type DocumentInfo struct {
	ID          string     `json:"id"`                     // 文档ID
	Title       string     `json:"title"`                  // 文档标题
	FileType    string     `json:"file_type"`              // 文件类型
	FileSize    int64      `json:"file_size"`              // 文件大小（字节）
	WordCount   int        `json:"word_count"`             // 词数
	Status      string     `json:"status"`                 // 处理状态
	UploadedAt  time.Time  `json:"uploaded_at"`            // 上传时间
	ProcessedAt *time.Time `json:"processed_at,omitempty"` // 处理完成时间
	Error       string     `json:"error,omitempty"`        // 处理失败时的错误信息
}

// NewDocumentInfo 从文档模型构造响应信息
func NewDocumentInfo(doc *models.Document) DocumentInfo {
	return DocumentInfo{
		ID:          doc.ID,
		Title:       doc.Title,
		FileType:    doc.FileType,
		FileSize:    doc.FileSize,
		WordCount:   doc.WordCount,
		Status:      string(doc.Status),
		UploadedAt:  doc.UploadedAt,
		ProcessedAt: doc.ProcessedAt,
		Error:       doc.Error,
	}
}

// DocumentUploadResponse 文档上传响应
type DocumentUploadResponse struct {
	DocumentInfo
}

// DocumentListResponse 文档列表响应
type DocumentListResponse struct {
	Total     int64          `json:"total"`     // 总文档数
	Page      int            `json:"page"`      // 当前页码
	PageSize  int            `json:"page_size"` // 每页条数
	Documents []DocumentInfo `json:"documents"` // 文档列表
}

// DocumentDeleteResponse 文档删除响应
type DocumentDeleteResponse struct {
	Success bool   `json:"success"` // 是否删除成功
	ID      string `json:"id"`      // 被删除的文档ID
}

// DocumentWordsResponse 文档分词流响应
type DocumentWordsResponse struct {
	DocumentID string                    `json:"document_id"` // 文档ID
	Words      []segmenter.ProcessedWord `json:"words"`       // 按原文顺序的分词结果
}

// SessionResponse 阅读会话响应
type SessionResponse struct {
	ID               string    `json:"id"`                 // 会话ID
	DocumentID       string    `json:"document_id"`        // 关联文档ID
	CurrentWordIndex int       `json:"current_word_index"` // 当前阅读位置
	TotalWords       int       `json:"total_words"`        // 文档总词数
	WordsRead        int       `json:"words_read"`         // 已阅读词数
	TimeSpent        float64   `json:"time_spent"`         // 阅读耗时（秒）
	SpeedWPM         float64   `json:"speed_wpm"`          // 阅读速度（词/分钟）
	Completed        bool      `json:"completed"`          // 是否完成
	CreatedAt        time.Time `json:"created_at"`         // 创建时间
	LastUpdated      time.Time `json:"last_updated"`       // 最近更新时间
}

// NewSessionResponse 从会话模型构造响应
func NewSessionResponse(s *models.ReadingSession) SessionResponse {
	return SessionResponse{
		ID:               s.ID,
		DocumentID:       s.DocumentID,
		CurrentWordIndex: s.CurrentWordIndex,
		TotalWords:       s.TotalWords,
		WordsRead:        s.WordsRead,
		TimeSpent:        s.TimeSpent,
		SpeedWPM:         s.SpeedWPM,
		Completed:        s.Completed,
		CreatedAt:        s.CreatedAt,
		LastUpdated:      s.LastUpdated,
	}
}

// StatsResponse 阅读统计响应
type StatsResponse struct {
	TotalDocuments  int64   `json:"total_documents"`   // 文档总数
	TotalWordsRead  int     `json:"total_words_read"`  // 累计阅读词数
	TotalTimeSpent  float64 `json:"total_time_spent"`  // 累计阅读时间（秒）
	DocumentsRead   int     `json:"documents_read"`    // 读完的文档数
	AverageSpeedWPM float64 `json:"average_speed_wpm"` // 平均阅读速度
	SessionsStarted int     `json:"sessions_started"`  // 启动过的会话数
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`  // 服务状态
	Version string `json:"version"` // 服务版本
}
