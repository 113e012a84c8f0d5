package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Reader   ReaderConfig   `mapstructure:"reader"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`                            // 服务器主机
	Port int    `mapstructure:"port" validate:"min=1,max=65535"` // 服务器端口
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type" validate:"oneof=local minio"` // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`                              // 本地存储路径
	Bucket    string `mapstructure:"bucket"`                            // MinIO桶名称
	Endpoint  string `mapstructure:"endpoint"`                          // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`                           // 是否使用SSL
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"oneof=sqlite"` // 数据库类型
	DSN  string `mapstructure:"dsn" validate:"required"`      // 数据源名称
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Enable   bool   `mapstructure:"enable"`                             // 是否启用缓存
	Type     string `mapstructure:"type" validate:"oneof=memory redis"` // 缓存类型：memory 或 redis
	Address  string `mapstructure:"address"`                            // Redis地址
	Password string `mapstructure:"password"`                           // Redis密码
	DB       int    `mapstructure:"db"`                                 // Redis数据库
	TTL      int    `mapstructure:"ttl" validate:"min=0"`               // 缓存TTL（秒）
}

// QueueConfig 任务队列配置
type QueueConfig struct {
	Enable        bool   `mapstructure:"enable"`                       // 是否启用任务队列
	Type          string `mapstructure:"type"`                         // 队列类型
	RedisAddr     string `mapstructure:"redis_addr"`                   // Redis地址
	RedisPassword string `mapstructure:"redis_password"`               // Redis密码
	RedisDB       int    `mapstructure:"redis_db"`                     // Redis数据库编号
	Concurrency   int    `mapstructure:"concurrency" validate:"min=1"` // 任务处理并发数
	RetryLimit    int    `mapstructure:"retry_limit"`                  // 任务最大重试次数
	RetryDelay    int    `mapstructure:"retry_delay"`                  // 重试延迟(秒)
}

// ReaderConfig 阅读处理配置
type ReaderConfig struct {
	Language   string `mapstructure:"language"`                 // 断词语言
	Workers    int    `mapstructure:"workers" validate:"min=0"` // 分词流水线并发数，0表示按CPU核数
	Precompute bool   `mapstructure:"precompute"`               // 上传后是否异步预计算单词流
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"` // 日志级别
	File       string `mapstructure:"file"`                                         // 日志文件路径，空则输出到stdout
	MaxSizeMB  int    `mapstructure:"max_size_mb"`                                  // 单个日志文件大小上限
	MaxBackups int    `mapstructure:"max_backups"`                                  // 保留的历史日志文件数
	MaxAgeDays int    `mapstructure:"max_age_days"`                                 // 日志保留天数
}

// Load 从文件和环境变量加载配置
func Load(configPath string) (*Config, error) {
	var config Config

	// 设置默认配置路径
	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	// 尝试读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			// 找不到配置文件时回落到默认值，并写出一份默认配置
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
			setDefaults(v)
			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err == nil {
				if err := v.WriteConfigAs(configPath); err != nil {
					log.Printf("Warning: Could not write default config to %s: %v", configPath, err)
				}
			}
		} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults")
			setDefaults(v)
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	setDefaults(v)

	// 支持环境变量覆盖，如 FLOWREAD_SERVER_PORT=9090
	v.SetEnvPrefix("flowread")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate 校验配置项取值
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Storage.Type == "minio" && c.Storage.Endpoint == "" {
		return fmt.Errorf("invalid config: minio storage requires an endpoint")
	}
	if c.Cache.Type == "redis" && c.Cache.Address == "" {
		return fmt.Errorf("invalid config: redis cache requires an address")
	}
	if c.Queue.Enable && c.Queue.RedisAddr == "" {
		return fmt.Errorf("invalid config: task queue requires a redis address")
	}

	return nil
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./uploads")
	v.SetDefault("storage.bucket", "flowread")
	v.SetDefault("storage.use_ssl", false)

	// 数据库默认配置
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/flowread.db")

	// 缓存默认配置
	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 3600) // 1小时

	// 队列默认配置
	v.SetDefault("queue.enable", false)
	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.retry_limit", 3)
	v.SetDefault("queue.retry_delay", 60) // 60秒

	// 阅读处理默认配置
	v.SetDefault("reader.language", "en")
	v.SetDefault("reader.workers", 0)
	v.SetDefault("reader.precompute", false)

	// 日志默认配置
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}
