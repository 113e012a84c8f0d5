package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"flowread/internal/database"
	"flowread/internal/models"
)

// docRepository 文档仓储实现
type docRepository struct {
	db *gorm.DB // 数据库连接
}

// NewDocumentRepository 创建文档仓储实例
func NewDocumentRepository() DocumentRepository {
	return &docRepository{db: database.MustDB()}
}

// NewDocumentRepositoryWithDB 使用指定的数据库连接创建文档仓储实例
func NewDocumentRepositoryWithDB(db *gorm.DB) DocumentRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &docRepository{db: db}
}

// Create 创建文档记录
func (r *docRepository) Create(doc *models.Document) error {
	if doc.ID == "" {
		return errors.New("document ID cannot be empty")
	}

	return r.db.Create(doc).Error
}

// Update 更新文档记录
func (r *docRepository) Update(doc *models.Document) error {
	if doc.ID == "" {
		return errors.New("document ID cannot be empty")
	}

	return r.db.Save(doc).Error
}

// GetByID 根据ID获取文档
func (r *docRepository) GetByID(id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
		}
		return nil, err
	}
	return &doc, nil
}

// List 列出文档列表，支持分页和筛选
func (r *docRepository) List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	var docs []*models.Document
	var total int64

	// 创建查询构造器
	query := r.db.Model(&models.Document{})

	// 应用筛选条件
	if filters != nil {
		// 状态过滤
		if status, ok := filters["status"]; ok {
			switch s := status.(type) {
			case models.DocumentStatus:
				query = query.Where("status = ?", string(s))
			case string:
				if s != "" {
					query = query.Where("status = ?", s)
				}
			}
		}

		// 标题过滤
		if title, ok := filters["title"].(string); ok && title != "" {
			query = query.Where("title LIKE ?", "%"+title+"%")
		}

		// 文件类型过滤
		if fileType, ok := filters["file_type"].(string); ok && fileType != "" {
			query = query.Where("file_type = ?", fileType)
		}

		// 时间范围过滤
		if startTime, ok := filters["start_time"].(string); ok && startTime != "" {
			query = query.Where("uploaded_at >= ?", startTime)
		}

		if endTime, ok := filters["end_time"].(string); ok && endTime != "" {
			query = query.Where("uploaded_at <= ?", endTime)
		}
	}

	// 获取总数
	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	// 应用排序、分页并执行查询
	err = query.Order("uploaded_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error

	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Count 统计文档总数
func (r *docRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Document{}).Count(&total).Error
	return total, err
}

// Delete 删除文档记录
// 同一事务内级联删除文档的阅读会话
func (r *docRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.ReadingSession{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Document{}).Error
	})
}

// UpdateStatus 更新文档状态
func (r *docRepository) UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	// 如果有错误消息，更新错误字段
	if errorMsg != "" {
		updates["error"] = errorMsg
	}

	// 如果状态是已完成或失败，设置处理完成时间
	if status == models.DocStatusCompleted || status == models.DocStatusFailed {
		now := time.Now()
		updates["processed_at"] = &now
	}

	return r.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}
