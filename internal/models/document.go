package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentStatus 文档处理状态类型
type DocumentStatus string

const (
	// DocStatusUploaded 文档已上传，等待处理
	DocStatusUploaded DocumentStatus = "uploaded"
	// DocStatusProcessing 文档处理中
	DocStatusProcessing DocumentStatus = "processing"
	// DocStatusCompleted 文档处理完成
	DocStatusCompleted DocumentStatus = "completed"
	// DocStatusFailed 文档处理失败
	DocStatusFailed DocumentStatus = "failed"
)

// Document 文档数据模型
// 存储文档元数据和提取出的正文，单词流按需从正文计算
type Document struct {
	ID          string         `gorm:"primaryKey"`         // 文档ID，主键
	Title       string         `gorm:"not null"`           // 文档标题
	Content     string         `gorm:"type:text;not null"` // 提取后的纯文本正文
	FileType    string         `gorm:"not null"`           // 文件类型
	FilePath    string         `gorm:"not null"`           // 原始文件在存储中的路径
	FileSize    int64          `gorm:"not null"`           // 文件大小（字节）
	WordCount   int            `gorm:"not null;default:0"` // 正文单词总数
	Status      DocumentStatus `gorm:"not null;index"`     // 处理状态
	UploadedAt  time.Time      `gorm:"not null;index"`     // 上传时间
	ProcessedAt *time.Time     `gorm:"index"`              // 处理完成时间
	UpdatedAt   time.Time      `gorm:"not null;index"`     // 更新时间
	Error       string         `gorm:"type:text"`          // 错误信息
	Metadata    datatypes.JSON `gorm:"type:json"`          // 元数据，JSON格式
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	// 如果上传时间为零值，设置为当前时间
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	// 设置更新时间
	d.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (d *Document) BeforeUpdate(tx *gorm.DB) (err error) {
	d.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (Document) TableName() string {
	return "documents"
}
