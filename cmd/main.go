package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"flowread/api"
	"flowread/api/handler"
	"flowread/api/middleware"
	appconfig "flowread/config"
	"flowread/internal/cache"
	"flowread/internal/database"
	"flowread/internal/hyphen"
	"flowread/internal/repository"
	"flowread/internal/segmenter"
	"flowread/internal/services"
	"flowread/pkg/storage"
	"flowread/pkg/taskqueue"
)

func main() {
	// 加载.env文件（不存在时忽略）
	_ = godotenv.Load()

	configFile := flag.String("config", "", "Path to config file")
	mode := flag.String("mode", "release", "Run mode (debug/release)")
	flag.Parse()

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(*mode)

	logger := setupLogger(cfg.Logging)
	logger.Info("Starting FlowRead server...")

	// 初始化数据库
	if err := setupDatabase(cfg.Database, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf("Failed to close database: %v", err)
		}
	}()

	// 创建文件存储服务
	fileStorage, err := setupStorage(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 创建缓存服务
	cacheService, err := setupCache(cfg.Cache)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}
	wordCache := cache.NewWordStreamCache(cacheService, time.Duration(cfg.Cache.TTL)*time.Second)

	// 加载断词模式并创建分词流水线
	dict, err := hyphen.ForLanguage(cfg.Reader.Language)
	if err != nil {
		logger.Fatalf("Failed to load hyphenation patterns: %v", err)
	}

	pipelineOptions := []segmenter.PipelineOption{
		segmenter.WithLogger(logger),
	}
	if cfg.Reader.Workers > 0 {
		pipelineOptions = append(pipelineOptions, segmenter.WithWorkers(cfg.Reader.Workers))
	}
	pipeline := segmenter.NewPipeline(dict, pipelineOptions...)

	// 初始化仓储和状态管理
	docRepo := repository.NewDocumentRepository()
	sessionRepo := repository.NewSessionRepository()
	statusManager := services.NewDocumentStatusManager(docRepo, logger)

	// 初始化任务队列（如果启用）
	var queue taskqueue.Queue
	var worker taskqueue.Worker
	if cfg.Queue.Enable {
		queue, err = setupTaskQueue(cfg.Queue, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer queue.Close()
	}

	// 创建文档服务
	documentServiceOptions := []services.DocumentOption{
		services.WithDocumentRepository(docRepo),
		services.WithStatusManager(statusManager),
		services.WithWordCache(wordCache),
		services.WithLogger(logger),
	}
	if queue != nil {
		documentServiceOptions = append(documentServiceOptions,
			services.WithTaskQueue(queue),
			services.WithAsyncProcessing(cfg.Reader.Precompute),
		)
	}

	documentService := services.NewDocumentService(
		fileStorage,
		pipeline,
		documentServiceOptions...,
	)

	sessionService := services.NewSessionService(sessionRepo, docRepo, logger)

	// 启动任务队列工作者
	if queue != nil {
		redisQueue, ok := queue.(*taskqueue.RedisQueue)
		if !ok {
			logger.Fatalf("Task queue type does not support workers")
		}

		worker = taskqueue.NewRedisWorker(redisQueue, queueConfig(cfg.Queue))
		worker.RegisterHandler(
			taskqueue.TaskWordPrecompute,
			services.NewWordPrecomputeHandler(docRepo, pipeline, wordCache, queue, logger),
		)

		go func() {
			if err := worker.Start(); err != nil {
				logger.Errorf("Task queue worker stopped: %v", err)
			}
		}()
		defer worker.Stop()

		logger.Info("Task queue worker started")
	}

	// 初始化API处理器并设置路由
	middleware.SetLogger(logger)
	router := api.SetupRouter(
		handler.NewDocumentHandler(documentService),
		handler.NewSessionHandler(sessionService),
		handler.NewStatsHandler(sessionService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// setupLogger 设置日志系统
func setupLogger(cfg appconfig.LoggingConfig) *logrus.Logger {
	logger := middleware.GetLogger()

	switch cfg.Level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	// 配置了日志文件时同时写文件和标准输出，文件按大小滚动
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	return logger
}

// setupDatabase 设置数据库
func setupDatabase(cfg appconfig.DatabaseConfig, logger *logrus.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %v", err)
	}

	return database.Setup(&database.Config{
		Type: cfg.Type,
		DSN:  cfg.DSN,
	}, logger)
}

// setupStorage 设置文件存储服务
func setupStorage(cfg appconfig.StorageConfig) (storage.Storage, error) {
	if cfg.Type == "minio" {
		return storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		})
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}

	return storage.NewLocalStorage(storage.LocalConfig{
		Path: cfg.Path,
	})
}

// setupCache 设置缓存服务
func setupCache(cfg appconfig.CacheConfig) (cache.Cache, error) {
	cacheConfig := cache.Config{
		Type:            cfg.Type,
		DefaultTTL:      time.Duration(cfg.TTL) * time.Second,
		CleanupInterval: 10 * time.Minute,
	}

	if cfg.Type == "redis" {
		cacheConfig.RedisAddr = cfg.Address
		cacheConfig.RedisPassword = cfg.Password
		cacheConfig.RedisDB = cfg.DB
	}

	return cache.NewCache(cacheConfig)
}

// queueConfig 把应用配置转换为任务队列配置
func queueConfig(cfg appconfig.QueueConfig) *taskqueue.Config {
	qc := taskqueue.DefaultConfig()
	qc.RedisAddr = cfg.RedisAddr
	qc.RedisPassword = cfg.RedisPassword
	qc.RedisDB = cfg.RedisDB
	qc.Concurrency = cfg.Concurrency
	qc.RetryLimit = cfg.RetryLimit
	if cfg.RetryDelay > 0 {
		qc.RetryDelay = time.Duration(cfg.RetryDelay) * time.Second
	}
	return qc
}

// setupTaskQueue 设置任务队列
func setupTaskQueue(cfg appconfig.QueueConfig, logger *logrus.Logger) (taskqueue.Queue, error) {
	logger.WithFields(logrus.Fields{
		"type":        cfg.Type,
		"redis_addr":  cfg.RedisAddr,
		"concurrency": cfg.Concurrency,
		"retry_limit": cfg.RetryLimit,
	}).Info("Setting up task queue")

	return taskqueue.NewQueue(cfg.Type, queueConfig(cfg))
}
