package taskqueue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestQueue(t *testing.T) (Queue, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.RedisAddr = mr.Addr()

	q, err := NewRedisQueue(cfg)
	require.NoError(t, err, "Failed to create redis queue")
	t.Cleanup(func() { _ = q.Close() })

	return q, mr
}

// TestEnqueueAndGetTask 测试任务入队和查询
func TestEnqueueAndGetTask(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	payload := WordPrecomputePayload{DocumentID: "doc-1"}
	taskID, err := q.Enqueue(ctx, TaskWordPrecompute, "doc-1", payload)
	require.NoError(t, err)
	require.NotEmpty(t, taskID)

	task, err := q.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, TaskWordPrecompute, task.Type)
	assert.Equal(t, "doc-1", task.DocumentID)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, DefaultConfig().RetryLimit, task.MaxRetries, "重试上限来自队列配置")

	// 载荷应该能反序列化回原结构
	var got WordPrecomputePayload
	require.NoError(t, UnmarshalPayload(task.Payload, &got))
	assert.Equal(t, "doc-1", got.DocumentID)
}

// TestGetTaskNotFound 测试查询不存在的任务
func TestGetTaskNotFound(t *testing.T) {
	q, _ := setupTestQueue(t)

	task, err := q.GetTask(context.Background(), "no-such-task")
	assert.Nil(t, task)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

// TestGetTasksByDocument 测试按文档查询任务
func TestGetTasksByDocument(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, TaskWordPrecompute, "doc-a", WordPrecomputePayload{DocumentID: "doc-a"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, TaskWordPrecompute, "doc-a", WordPrecomputePayload{DocumentID: "doc-a"})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, TaskWordPrecompute, "doc-b", WordPrecomputePayload{DocumentID: "doc-b"})
	require.NoError(t, err)

	tasks, err := q.GetTasksByDocument(ctx, "doc-a")
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "doc-a应该有两个任务")

	tasks, err = q.GetTasksByDocument(ctx, "doc-none")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestUpdateTaskStatus 测试任务状态更新
func TestUpdateTaskStatus(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	taskID, err := q.Enqueue(ctx, TaskWordPrecompute, "doc-1", nil)
	require.NoError(t, err)

	t.Run("processing sets started time", func(t *testing.T) {
		require.NoError(t, q.UpdateTaskStatus(ctx, taskID, StatusProcessing, nil, ""))

		task, err := q.GetTask(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, task.Status)
		assert.NotNil(t, task.StartedAt)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("completed stores result", func(t *testing.T) {
		result := WordPrecomputeResult{DocumentID: "doc-1", WordCount: 42, Cached: true}
		require.NoError(t, q.UpdateTaskStatus(ctx, taskID, StatusCompleted, result, ""))

		task, err := q.GetTask(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, task.Status)
		assert.NotNil(t, task.CompletedAt)

		var got WordPrecomputeResult
		require.NoError(t, UnmarshalPayload(task.Result, &got))
		assert.Equal(t, 42, got.WordCount)
		assert.True(t, got.Cached)
	})

	t.Run("failed records error", func(t *testing.T) {
		require.NoError(t, q.UpdateTaskStatus(ctx, taskID, StatusFailed, nil, "boom"))

		task, err := q.GetTask(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, task.Status)
		assert.Equal(t, "boom", task.Error)
	})
}

// TestDeleteTask 测试任务删除
func TestDeleteTask(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	taskID, err := q.Enqueue(ctx, TaskWordPrecompute, "doc-del", nil)
	require.NoError(t, err)

	require.NoError(t, q.DeleteTask(ctx, taskID))

	_, err = q.GetTask(ctx, taskID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	tasks, err := q.GetTasksByDocument(ctx, "doc-del")
	require.NoError(t, err)
	assert.Empty(t, tasks, "删除后文档任务集合中不应该再有此任务")
}

// TestNewQueue 测试按类型创建队列
func TestNewQueue(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.RedisAddr = mr.Addr()

	q, err := NewQueue("redis", cfg)
	require.NoError(t, err)
	require.NotNil(t, q)
	defer q.Close()

	_, err = NewQueue("unknown", cfg)
	assert.Error(t, err, "未注册的队列实现应该报错")
}
