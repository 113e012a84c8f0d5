package storage

import (
	"errors"
	"io"
)

// ErrFileNotFound 按ID找不到文件时返回
// 两种实现都用它包装，调用方统一errors.Is判断
var ErrFileNotFound = errors.New("file not found")

// FileInfo 已保存文档文件的元数据
type FileInfo struct {
	ID       string // 存储层分配的唯一标识符
	Name     string // 上传时的原始文件名
	Size     int64  // 文件大小(字节)
	MimeType string // MIME类型(可选)
	Path     string // 实现内部的存储路径
}

// Storage 文档文件存储接口
// 上传的阅读材料通过该接口落盘，支持本地文件系统和MinIO两种实现
type Storage interface {
	// Save 保存文件并返回文件信息
	Save(reader io.Reader, filename string) (FileInfo, error)

	// Get 按ID获取文件内容
	Get(id string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(id string) error

	// List 列出所有文件
	List() ([]FileInfo, error)

	// Exists 检查文件是否存在
	Exists(id string) (bool, error)
}
