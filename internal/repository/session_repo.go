package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"flowread/internal/database"
	"flowread/internal/models"
)

// sessionRepository 阅读会话仓储实现
type sessionRepository struct {
	db *gorm.DB // 数据库连接
}

// NewSessionRepository 创建阅读会话仓储实例
func NewSessionRepository() SessionRepository {
	return &sessionRepository{db: database.MustDB()}
}

// NewSessionRepositoryWithDB 使用指定的数据库连接创建阅读会话仓储实例
func NewSessionRepositoryWithDB(db *gorm.DB) SessionRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &sessionRepository{db: db}
}

// Create 创建阅读会话
func (r *sessionRepository) Create(session *models.ReadingSession) error {
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if session.DocumentID == "" {
		return errors.New("session document ID cannot be empty")
	}

	return r.db.Create(session).Error
}

// Update 更新阅读会话
func (r *sessionRepository) Update(session *models.ReadingSession) error {
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	return r.db.Save(session).Error
}

// GetByID 根据ID获取会话
func (r *sessionRepository) GetByID(id string) (*models.ReadingSession, error) {
	var session models.ReadingSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
		}
		return nil, err
	}
	return &session, nil
}

// LatestByDocument 获取文档最近更新的会话
func (r *sessionRepository) LatestByDocument(docID string) (*models.ReadingSession, error) {
	var session models.ReadingSession
	err := r.db.Where("document_id = ?", docID).
		Order("last_updated DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", models.ErrSessionNotFound, docID)
		}
		return nil, err
	}
	return &session, nil
}

// ListByDocument 列出文档的所有会话
func (r *sessionRepository) ListByDocument(docID string) ([]*models.ReadingSession, error) {
	var sessions []*models.ReadingSession
	err := r.db.Where("document_id = ?", docID).
		Order("last_updated DESC").
		Find(&sessions).Error
	return sessions, err
}

// DeleteByDocument 删除文档的所有会话
func (r *sessionRepository) DeleteByDocument(docID string) error {
	return r.db.Where("document_id = ?", docID).
		Delete(&models.ReadingSession{}).Error
}

// Stats 聚合所有会话的阅读统计
// 平均速度只统计speed_wpm大于0的会话
func (r *sessionRepository) Stats() (*models.UserStats, error) {
	stats := &models.UserStats{}

	row := r.db.Model(&models.ReadingSession{}).
		Select("COALESCE(SUM(words_read), 0), COALESCE(SUM(time_spent), 0), COUNT(*)").
		Row()
	if err := row.Scan(&stats.TotalWordsRead, &stats.TotalTimeSpent, &stats.SessionsStarted); err != nil {
		return nil, err
	}

	var completed int64
	if err := r.db.Model(&models.ReadingSession{}).
		Where("completed = ?", true).
		Count(&completed).Error; err != nil {
		return nil, err
	}
	stats.DocumentsRead = int(completed)

	var avg *float64
	if err := r.db.Model(&models.ReadingSession{}).
		Select("AVG(speed_wpm)").
		Where("speed_wpm > 0").
		Row().Scan(&avg); err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AverageSpeedWPM = *avg
	}

	return stats, nil
}
