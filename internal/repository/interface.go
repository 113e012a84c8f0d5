package repository

import "flowread/internal/models"

// DocumentRepository 文档仓储接口
// 负责文档元数据和正文的存储和检索
type DocumentRepository interface {
	// Create 创建文档记录
	Create(doc *models.Document) error

	// Update 更新文档记录
	Update(doc *models.Document) error

	// GetByID 根据ID获取文档
	GetByID(id string) (*models.Document, error)

	// List 列出文档列表，支持分页和筛选
	List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error)

	// Delete 删除文档及其关联的阅读会话
	Delete(id string) error

	// Count 统计文档总数
	Count() (int64, error)

	// UpdateStatus 更新文档状态
	UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error
}

// SessionRepository 阅读会话仓储接口
type SessionRepository interface {
	// Create 创建阅读会话
	Create(session *models.ReadingSession) error

	// Update 更新阅读会话
	Update(session *models.ReadingSession) error

	// GetByID 根据ID获取会话
	GetByID(id string) (*models.ReadingSession, error)

	// LatestByDocument 获取文档最近更新的会话
	LatestByDocument(docID string) (*models.ReadingSession, error)

	// ListByDocument 列出文档的所有会话
	ListByDocument(docID string) ([]*models.ReadingSession, error)

	// DeleteByDocument 删除文档的所有会话
	DeleteByDocument(docID string) error

	// Stats 聚合所有会话的阅读统计
	Stats() (*models.UserStats, error)
}
