package model

import (
	"mime/multipart"
	"time"
)

// PaginationRequest 分页请求参数
type PaginationRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`              // 页码，从1开始
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"` // 每页条数
}

// GetPage 获取页码，默认为1
func (r *PaginationRequest) GetPage() int {
	if r.Page <= 0 {
		return 1
	}
	return r.Page
}

// GetPageSize 获取每页条数，默认为10，最大100
func (r *PaginationRequest) GetPageSize() int {
	if r.PageSize <= 0 {
		return 10
	}
	if r.PageSize > 100 {
		return 100
	}
	return r.PageSize
}

// DocumentUploadRequest 文档上传请求
type DocumentUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"` // 上传的文件
}

// DocumentGetRequest 获取单个文档请求
type DocumentGetRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}

// DocumentWordsRequest 获取文档分词流请求
type DocumentWordsRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}

// DocumentDeleteRequest 删除文档请求
type DocumentDeleteRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}

// DocumentListRequest 文档列表请求
type DocumentListRequest struct {
	PaginationRequest
	Status    string     `form:"status" binding:"omitempty,oneof=uploaded processing completed failed"` // 按状态过滤
	Title     string     `form:"title" binding:"omitempty"`     // 按标题模糊过滤
	FileType  string     `form:"file_type" binding:"omitempty"` // 按文件类型过滤
	StartTime *time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00" binding:"omitempty"` // 上传时间下界
	EndTime   *time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00" binding:"omitempty"`   // 上传时间上界
}

// SessionCreateRequest 创建阅读会话请求
// 进度字段可选，用于从客户端已有进度恢复会话
type SessionCreateRequest struct {
	DocumentID       string   `json:"document_id" binding:"required"`               // 关联的文档ID
	CurrentWordIndex *int     `json:"current_word_index" binding:"omitempty,min=0"` // 初始阅读位置
	WordsRead        *int     `json:"words_read" binding:"omitempty,min=0"`         // 初始已阅读词数
	TimeSpent        *float64 `json:"time_spent" binding:"omitempty,min=0"`         // 初始阅读耗时（秒）
	Completed        *bool    `json:"completed"`                                    // 是否已完成
}

// SessionGetRequest 获取阅读会话请求
type SessionGetRequest struct {
	ID string `uri:"id" binding:"required"` // 会话ID
}

// SessionUpdateRequest 更新阅读会话请求
// 字段均为可选，未提供的字段保持原值
type SessionUpdateRequest struct {
	CurrentWordIndex *int     `json:"current_word_index" binding:"omitempty,min=0"` // 当前阅读位置
	WordsRead        *int     `json:"words_read" binding:"omitempty,min=0"`         // 已阅读词数
	TimeSpent        *float64 `json:"time_spent" binding:"omitempty,min=0"`         // 阅读耗时（秒）
	Completed        *bool    `json:"completed"`                                    // 是否完成阅读
}

// SessionByDocumentRequest 按文档查询最近会话请求
type SessionByDocumentRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}
