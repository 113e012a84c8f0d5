package models

import (
	"time"

	"gorm.io/gorm"
)

// ReadingSession 阅读会话模型
// 记录用户在某个文档上的阅读进度和速度统计
type ReadingSession struct {
	ID               string    `gorm:"primaryKey"`         // 会话ID，主键
	DocumentID       string    `gorm:"not null;index"`     // 所属文档ID
	CurrentWordIndex int       `gorm:"not null;default:0"` // 当前阅读到的单词下标
	TotalWords       int       `gorm:"not null;default:0"` // 文档单词总数
	WordsRead        int       `gorm:"not null;default:0"` // 已读单词数
	TimeSpent        float64   `gorm:"not null;default:0"` // 累计阅读时长（秒）
	SpeedWPM         float64   `gorm:"not null;default:0"` // 阅读速度（词/分钟）
	Completed        bool      `gorm:"not null;default:false;index"` // 是否读完
	CreatedAt        time.Time `gorm:"not null"`           // 创建时间
	LastUpdated      time.Time `gorm:"not null;index"`     // 最后更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (rs *ReadingSession) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if rs.CreatedAt.IsZero() {
		rs.CreatedAt = now
	}
	rs.LastUpdated = now
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (rs *ReadingSession) BeforeUpdate(tx *gorm.DB) (err error) {
	rs.LastUpdated = time.Now()
	return nil
}

// TableName 明确指定表名
func (ReadingSession) TableName() string {
	return "reading_sessions"
}

// UserStats 全局阅读统计
// 由各会话聚合得出，不单独落库
type UserStats struct {
	TotalDocuments  int64   `json:"total_documents"`   // 文档总数
	TotalWordsRead  int     `json:"total_words_read"`  // 累计已读单词数
	TotalTimeSpent  float64 `json:"total_time_spent"`  // 累计阅读时长（秒）
	DocumentsRead   int     `json:"documents_read"`    // 读完的会话数
	AverageSpeedWPM float64 `json:"average_speed_wpm"` // 平均阅读速度
	SessionsStarted int     `json:"sessions_started"`  // 启动过的会话总数
}
