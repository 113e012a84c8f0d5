package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage 把文档文件存在本地目录
// 按上传日期分目录，文件名就是分配的ID
type LocalStorage struct {
	basePath string
}

// LocalConfig 本地存储配置
type LocalConfig struct {
	Path string // 存储根目录
}

// NewLocalStorage 创建本地存储，目录不存在时自动创建
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: absPath}, nil
}

// Save 保存文件，返回分配的ID和元数据
func (s *LocalStorage) Save(reader io.Reader, filename string) (FileInfo, error) {
	id := uuid.New().String()
	ext := filepath.Ext(filename)

	// 按年/月/日分目录，避免单目录下文件堆积
	now := time.Now()
	datePath := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))

	dirPath := filepath.Join(s.basePath, datePath)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return FileInfo{}, fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dirPath, id+ext)
	file, err := os.Create(filePath)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to write file: %w", err)
	}

	return FileInfo{
		ID:       id,
		Name:     filename,
		Size:     size,
		MimeType: getMimeType(filename),
		Path:     filepath.Join(datePath, id+ext),
	}, nil
}

// Get 按ID获取文件内容
func (s *LocalStorage) Get(id string) (io.ReadCloser, error) {
	filePath, err := s.resolvePath(id)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete 按ID删除文件
func (s *LocalStorage) Delete(id string) error {
	filePath, err := s.resolvePath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// List 列出存储目录下的所有文件
func (s *LocalStorage) List() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.basePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}

		fileName := entry.Name()
		files = append(files, FileInfo{
			ID:       strings.TrimSuffix(fileName, filepath.Ext(fileName)),
			Name:     fileName,
			Size:     info.Size(),
			MimeType: getMimeType(fileName),
			Path:     relPath,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// Exists 检查文件是否存在
func (s *LocalStorage) Exists(id string) (bool, error) {
	_, err := s.resolvePath(id)
	if errors.Is(err, ErrFileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// 用来提前结束目录遍历的哨兵错误
var errStopWalk = errors.New("stop walk")

// resolvePath 在日期目录中查找ID对应的文件路径
func (s *LocalStorage) resolvePath(id string) (string, error) {
	var filePath string

	err := filepath.WalkDir(s.basePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		fileName := entry.Name()
		if strings.TrimSuffix(fileName, filepath.Ext(fileName)) == id {
			filePath = path
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", fmt.Errorf("error searching for file: %w", err)
	}

	if filePath == "" {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	return filePath, nil
}

// getMimeType 根据文件扩展名判断MIME类型
func getMimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
