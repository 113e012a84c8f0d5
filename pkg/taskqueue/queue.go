package taskqueue

import (
	"context"
	"fmt"
	"time"
)

// Queue 任务队列接口
// 预计算任务走这里入队，任务元数据可按ID或文档查询
type Queue interface {
	// Enqueue 将任务加入队列，返回任务ID
	Enqueue(ctx context.Context, taskType TaskType, documentID string, payload interface{}) (string, error)

	// GetTask 获取任务信息
	GetTask(ctx context.Context, taskID string) (*Task, error)

	// GetTasksByDocument 获取某个文档名下的所有任务
	GetTasksByDocument(ctx context.Context, documentID string) ([]*Task, error)

	// DeleteTask 删除任务记录
	DeleteTask(ctx context.Context, taskID string) error

	// UpdateTaskStatus 更新任务状态、结果和错误信息
	UpdateTaskStatus(ctx context.Context, taskID string, status TaskStatus, result interface{}, errorMsg string) error

	// Close 关闭队列连接
	Close() error
}

// Handler 任务处理逻辑
type Handler interface {
	// ProcessTask 处理单个任务
	ProcessTask(ctx context.Context, task *Task) error

	// GetTaskTypes 返回此处理器支持的任务类型
	GetTaskTypes() []TaskType
}

// Worker 消费队列中的任务并调用注册的Handler
type Worker interface {
	// RegisterHandler 为任务类型注册处理器
	RegisterHandler(taskType TaskType, handler Handler)

	// Start 启动消费
	Start() error

	// Stop 停止消费
	Stop()
}

// Config 队列配置
type Config struct {
	RedisAddr     string         // Redis地址
	RedisPassword string         // Redis密码
	RedisDB       int            // Redis数据库
	Concurrency   int            // 并发处理任务数
	RetryLimit    int            // 最大重试次数
	RetryDelay    time.Duration  // 重试延迟
	Queues        map[string]int // 队列名称到优先级的映射
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RedisAddr:   "localhost:6379",
		RedisDB:     0,
		Concurrency: 10,
		RetryLimit:  3,
		RetryDelay:  time.Minute,
		Queues: map[string]int{
			"default": 1,
		},
	}
}

// NewQueue 根据配置的类型创建队列实例
// 目前只有Redis一种实现
func NewQueue(name string, cfg *Config) (Queue, error) {
	switch name {
	case "redis":
		return NewRedisQueue(cfg)
	default:
		return nil, fmt.Errorf("unknown queue implementation: %s", name)
	}
}
