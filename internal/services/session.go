package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flowread/internal/models"
	"flowread/internal/repository"
)

// SessionService 阅读会话服务
// 负责阅读进度跟踪和速度统计
type SessionService struct {
	sessions repository.SessionRepository  // 会话仓储
	docs     repository.DocumentRepository // 文档仓储
	logger   *logrus.Logger                // 日志记录器
}

// NewSessionService 创建阅读会话服务
func NewSessionService(sessions repository.SessionRepository, docs repository.DocumentRepository, logger *logrus.Logger) *SessionService {
	if logger == nil {
		logger = logrus.New()
	}

	return &SessionService{
		sessions: sessions,
		docs:     docs,
		logger:   logger,
	}
}

// SessionUpdate 会话进度更新
// 指针字段为nil表示该项不更新
type SessionUpdate struct {
	CurrentWordIndex *int     // 当前阅读到的单词下标
	WordsRead        *int     // 已读单词数
	TimeSpent        *float64 // 累计阅读时长（秒）
	Completed        *bool    // 是否读完
}

// StartSession 为文档开启新的阅读会话
func (s *SessionService) StartSession(ctx context.Context, docID string) (*models.ReadingSession, error) {
	doc, err := s.docs.GetByID(docID)
	if err != nil {
		return nil, err
	}

	session := &models.ReadingSession{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		TotalWords: doc.WordCount,
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create reading session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"doc_id":     docID,
	}).Info("Reading session started")

	return session, nil
}

// UpdateSession 更新会话进度
// 每次更新后重新计算阅读速度（词/分钟）
func (s *SessionService) UpdateSession(ctx context.Context, sessionID string, update SessionUpdate) (*models.ReadingSession, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}

	if update.CurrentWordIndex != nil {
		idx := *update.CurrentWordIndex
		if idx < 0 {
			return nil, errors.New("current word index cannot be negative")
		}
		session.CurrentWordIndex = idx
	}
	if update.WordsRead != nil {
		if *update.WordsRead < 0 {
			return nil, errors.New("words read cannot be negative")
		}
		session.WordsRead = *update.WordsRead
	}
	if update.TimeSpent != nil {
		if *update.TimeSpent < 0 {
			return nil, errors.New("time spent cannot be negative")
		}
		session.TimeSpent = *update.TimeSpent
	}
	if update.Completed != nil {
		session.Completed = *update.Completed
	}

	// 速度按累计值计算，时长为0时保持原值
	if session.TimeSpent > 0 {
		session.SpeedWPM = float64(session.WordsRead) / (session.TimeSpent / 60.0)
	}

	if err := s.sessions.Update(session); err != nil {
		return nil, fmt.Errorf("failed to update reading session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"word_index": session.CurrentWordIndex,
		"speed_wpm":  session.SpeedWPM,
	}).Debug("Reading session updated")

	return session, nil
}

// GetSession 获取会话
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*models.ReadingSession, error) {
	return s.sessions.GetByID(sessionID)
}

// LatestForDocument 获取文档最近的阅读会话
// 用于续读：客户端拿到上次的进度继续播放
func (s *SessionService) LatestForDocument(ctx context.Context, docID string) (*models.ReadingSession, error) {
	if _, err := s.docs.GetByID(docID); err != nil {
		return nil, err
	}
	return s.sessions.LatestByDocument(docID)
}

// Stats 聚合全部会话的阅读统计
func (s *SessionService) Stats(ctx context.Context) (*models.UserStats, error) {
	stats, err := s.sessions.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reading stats: %w", err)
	}

	total, err := s.docs.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	stats.TotalDocuments = total

	return stats, nil
}
