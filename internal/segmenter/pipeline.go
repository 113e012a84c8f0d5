package segmenter

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProcessedWord 单个单词的完整处理结果
// Vowels与Syllables等长，Vowels[i]是Syllables[i]内的元音位置
type ProcessedWord struct {
	Word      string   `json:"word"`
	Syllables []string `json:"syllables"`
	Vowels    [][]int  `json:"vowels"`
}

// Pipeline 文本处理流水线：分词 -> 音节切分 -> 元音定位
// 单词之间相互独立，内部并发处理但结果顺序与输入一致
type Pipeline struct {
	splitter *SyllableSplitter
	workers  int
	logger   *logrus.Logger
}

// PipelineOption 流水线配置选项
type PipelineOption func(*Pipeline)

// WithWorkers 设置并发处理的worker数量
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline 创建文本处理流水线
func NewPipeline(h Hyphenator, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		splitter: NewSyllableSplitter(h),
		workers:  runtime.GOMAXPROCS(0),
		logger:   logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process 处理整段文本，返回按原顺序排列的单词结果
// 文本中没有单词时返回ErrNoText；
// context取消时尽快返回，不保证部分结果
func (p *Pipeline) Process(ctx context.Context, text string) ([]ProcessedWord, error) {
	words, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	// 结果槽按下标预分配，worker各写各的槽位，无需加锁
	results := make([]ProcessedWord, len(words))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, word := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.processWord(word)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"word_count": len(words),
		"workers":    p.workers,
	}).Debug("Text processed")

	return results, nil
}

func (p *Pipeline) processWord(word string) ProcessedWord {
	syllables := p.splitter.Split(word)
	vowels := make([][]int, len(syllables))
	for i, syl := range syllables {
		vowels[i] = VowelIndices(syl)
	}
	return ProcessedWord{
		Word:      word,
		Syllables: syllables,
		Vowels:    vowels,
	}
}
