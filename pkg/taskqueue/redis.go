package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// 任务元数据键前缀
	taskKeyPrefix = "flowread:task:"
	// 文档到任务ID集合的键前缀
	docTasksKeyPrefix = "flowread:doc:"
	// 预计算任务的元数据保留时间，过期后按缓存未命中重新计算
	taskRetention = 48 * time.Hour
)

// RedisQueue 基于asynq的任务队列实现
// 投递和重试交给asynq，任务元数据单独存一份在Redis供查询接口使用
type RedisQueue struct {
	client      *asynq.Client    // 任务投递
	inspector   *asynq.Inspector // 队列内任务检查
	redisClient *redis.Client    // 元数据读写
	cfg         *Config
	logger      *logrus.Logger
}

// redisOpt 把队列配置转换为asynq的Redis连接参数
func redisOpt(cfg *Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewRedisQueue 创建Redis任务队列实例
func NewRedisQueue(cfg *Config) (Queue, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opt := redisOpt(cfg)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 先验证Redis可达，失败时尽早报错
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &RedisQueue{
		client:      asynq.NewClient(opt),
		inspector:   asynq.NewInspector(opt),
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Enqueue 将任务加入队列
// 元数据先落Redis再投递，查询接口不会看到投递了却查不到的任务
func (q *RedisQueue) Enqueue(ctx context.Context, taskType TaskType, documentID string, payload interface{}) (string, error) {
	payloadBytes, err := MarshalPayload(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := &Task{
		ID:         uuid.New().String(),
		Type:       taskType,
		DocumentID: documentID,
		Status:     StatusPending,
		Payload:    payloadBytes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		MaxRetries: q.cfg.RetryLimit,
	}

	if err := q.storeTask(ctx, task); err != nil {
		return "", fmt.Errorf("failed to save task to redis: %w", err)
	}

	// asynq负载只带任务ID，处理时再从Redis取元数据
	asynqTask := asynq.NewTask(string(taskType), []byte(task.ID))
	_, err = q.client.EnqueueContext(ctx, asynqTask, asynq.MaxRetry(q.cfg.RetryLimit))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	q.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"task_type":   taskType,
		"document_id": documentID,
	}).Info("Task enqueued")

	return task.ID, nil
}

// GetTask 获取任务信息
func (q *RedisQueue) GetTask(ctx context.Context, taskID string) (*Task, error) {
	data, err := q.redisClient.Get(ctx, taskKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task from redis: %w", err)
	}

	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task data: %w", err)
	}

	return &task, nil
}

// GetTasksByDocument 获取某个文档名下的所有任务
func (q *RedisQueue) GetTasksByDocument(ctx context.Context, documentID string) ([]*Task, error) {
	taskIDs, err := q.redisClient.SMembers(ctx, docTasksKeyPrefix+documentID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get document tasks: %w", err)
	}

	tasks := make([]*Task, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		task, err := q.GetTask(ctx, taskID)
		if err != nil {
			// 元数据过期后集合里可能残留ID
			if errors.Is(err, ErrTaskNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// DeleteTask 删除任务记录
// 文档删除时连带清理，未开始处理的任务同时从asynq队列摘除
func (q *RedisQueue) DeleteTask(ctx context.Context, taskID string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if task.DocumentID != "" {
		err := q.redisClient.SRem(ctx, docTasksKeyPrefix+task.DocumentID, taskID).Err()
		if err != nil {
			return fmt.Errorf("failed to remove task from document tasks: %w", err)
		}
	}

	if err := q.redisClient.Del(ctx, taskKeyPrefix+taskID).Err(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	// 已进入处理的任务摘不掉，只记警告
	if err := q.inspector.DeleteTask("default", taskID); err != nil {
		q.logger.WithError(err).WithField("task_id", taskID).Warn("Failed to delete task from asynq queue")
	}

	return nil
}

// UpdateTaskStatus 更新任务状态、结果和错误信息
func (q *RedisQueue) UpdateTaskStatus(ctx context.Context, taskID string, status TaskStatus, result interface{}, errMsg string) error {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	task.Status = status
	task.UpdatedAt = time.Now()

	if status == StatusProcessing && task.StartedAt == nil {
		now := time.Now()
		task.StartedAt = &now
	}
	if status == StatusCompleted || status == StatusFailed {
		now := time.Now()
		task.CompletedAt = &now
	}

	if result != nil {
		resultBytes, err := MarshalPayload(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		task.Result = resultBytes
	}

	if errMsg != "" {
		task.Error = errMsg
	}

	return q.storeTask(ctx, task)
}

// Close 关闭队列连接
func (q *RedisQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.redisClient.Close()
}

// storeTask 写入任务元数据并维护文档->任务集合
func (q *RedisQueue) storeTask(ctx context.Context, task *Task) error {
	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	key := taskKeyPrefix + task.ID
	if err := q.redisClient.Set(ctx, key, taskData, taskRetention).Err(); err != nil {
		return fmt.Errorf("failed to save task data: %w", err)
	}

	if task.DocumentID != "" {
		docKey := docTasksKeyPrefix + task.DocumentID
		if err := q.redisClient.SAdd(ctx, docKey, task.ID).Err(); err != nil {
			return fmt.Errorf("failed to add task to document tasks: %w", err)
		}
		q.redisClient.Expire(ctx, docKey, taskRetention)
	}

	return nil
}

// RedisWorker 基于asynq server的工作者
type RedisWorker struct {
	server   *asynq.Server
	queue    *RedisQueue
	handlers map[TaskType]Handler
	logger   *logrus.Logger
}

// NewRedisWorker 创建工作者，复用队列的Redis连接配置
func NewRedisWorker(queue *RedisQueue, cfg *Config) Worker {
	if cfg == nil {
		cfg = queue.cfg
	}

	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      cfg.Queues,
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			return cfg.RetryDelay
		},
		Logger: queue.logger,
	})

	return &RedisWorker{
		server:   server,
		queue:    queue,
		handlers: make(map[TaskType]Handler),
		logger:   queue.logger,
	}
}

// RegisterHandler 为任务类型注册处理器
func (w *RedisWorker) RegisterHandler(taskType TaskType, handler Handler) {
	w.handlers[taskType] = handler
}

// Start 启动消费
func (w *RedisWorker) Start() error {
	mux := asynq.NewServeMux()

	for taskType, handler := range w.handlers {
		mux.HandleFunc(string(taskType), w.dispatch(handler))
		w.logger.WithField("task_type", taskType).Info("Registered task handler")
	}

	return w.server.Start(mux)
}

// Stop 停止消费
func (w *RedisWorker) Stop() {
	w.server.Shutdown()
}

// dispatch 包装Handler：处理前后维护任务元数据的状态
func (w *RedisWorker) dispatch(h Handler) asynq.HandlerFunc {
	return func(ctx context.Context, asynqTask *asynq.Task) error {
		taskID := string(asynqTask.Payload())

		task, err := w.queue.GetTask(ctx, taskID)
		if err != nil {
			w.logger.WithError(err).WithField("task_id", taskID).Error("Failed to get task info")
			return err
		}

		if err := w.queue.UpdateTaskStatus(ctx, taskID, StatusProcessing, nil, ""); err != nil {
			w.logger.WithError(err).WithField("task_id", taskID).Error("Failed to mark task processing")
		}

		if err := h.ProcessTask(ctx, task); err != nil {
			// 返回错误让asynq按配置重试，元数据同步记下失败原因
			if updateErr := w.queue.UpdateTaskStatus(ctx, taskID, StatusFailed, nil, err.Error()); updateErr != nil {
				w.logger.WithError(updateErr).WithField("task_id", taskID).Error("Failed to mark task failed")
			}
			return err
		}

		if err := w.queue.UpdateTaskStatus(ctx, taskID, StatusCompleted, nil, ""); err != nil {
			w.logger.WithError(err).WithField("task_id", taskID).Error("Failed to mark task completed")
		}
		return nil
	}
}
