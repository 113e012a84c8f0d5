package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowread/internal/hyphen"
	"flowread/internal/segmenter"
	"flowread/pkg/taskqueue"
)

// TestWordPrecomputeHandler 测试单词流预计算处理器
func TestWordPrecomputeHandler(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	doc, err := env.docService.UploadDocument(ctx,
		bytes.NewBufferString("Hello world reading"), "precompute.txt")
	require.NoError(t, err)

	pipeline := segmenter.NewPipeline(hyphen.English())
	handler := NewWordPrecomputeHandler(env.docRepo, pipeline, env.wordCache, nil, nil)

	t.Run("task types", func(t *testing.T) {
		assert.Equal(t, []taskqueue.TaskType{taskqueue.TaskWordPrecompute}, handler.GetTaskTypes())
	})

	t.Run("fills cache", func(t *testing.T) {
		payload, err := taskqueue.MarshalPayload(taskqueue.WordPrecomputePayload{DocumentID: doc.ID})
		require.NoError(t, err)

		task := &taskqueue.Task{
			ID:         "task-1",
			Type:       taskqueue.TaskWordPrecompute,
			DocumentID: doc.ID,
			Payload:    payload,
		}

		require.NoError(t, handler.ProcessTask(ctx, task))

		words, found, err := env.wordCache.Get(doc.ID)
		require.NoError(t, err)
		require.True(t, found, "处理后单词流应该已写入缓存")
		require.Len(t, words, 3)
		assert.Equal(t, "Hello", words[0].Word)
	})

	t.Run("missing document fails", func(t *testing.T) {
		payload, err := taskqueue.MarshalPayload(taskqueue.WordPrecomputePayload{DocumentID: "ghost"})
		require.NoError(t, err)

		task := &taskqueue.Task{
			ID:      "task-2",
			Type:    taskqueue.TaskWordPrecompute,
			Payload: payload,
		}

		assert.Error(t, handler.ProcessTask(ctx, task))
	})

	t.Run("invalid payload", func(t *testing.T) {
		task := &taskqueue.Task{
			ID:      "task-3",
			Type:    taskqueue.TaskWordPrecompute,
			Payload: []byte("{broken"),
		}

		err := handler.ProcessTask(ctx, task)
		assert.ErrorIs(t, err, taskqueue.ErrInvalidPayload)
	})
}
