package config

import "time"

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	WorkQueue WorkQueueConfig `mapstructure:"work_queue"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Content   ContentConfig   `mapstructure:"content"`
	Cron      CronConfig      `mapstructure:"cron"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	ClientID string         `mapstructure:"client_id"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Producer ProducerConfig `mapstructure:"producer"`
	Topics   TopicsConfig   `mapstructure:"topics"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ProducerConfig 生产者配置，单位秒
type ProducerConfig struct {
	Timeout     int `mapstructure:"timeout"`
	RetryMax    int `mapstructure:"retry_max"`
	DialTimeout int `mapstructure:"dial_timeout"`
}

// TopicsConfig 领域事件主题
type TopicsConfig struct {
	Events string `mapstructure:"events"`
}

// WorkQueueConfig 评论任务队列
type WorkQueueConfig struct {
	Key          string        `mapstructure:"key"`
	BlockTimeout time.Duration `mapstructure:"block_timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// NotifyConfig 下游通知
type NotifyConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ContentConfig 帖子与评论的业务策略
type ContentConfig struct {
	DefaultCaption      string        `mapstructure:"default_caption"`
	DefaultComment      string        `mapstructure:"default_comment"`
	StrictFields        bool          `mapstructure:"strict_fields"`
	RequireExistingPost bool          `mapstructure:"require_existing_post"`
	CaptionMaxLen       int           `mapstructure:"caption_max_len"`
	ContentMaxLen       int           `mapstructure:"content_max_len"`
	MaxImageBytes       int           `mapstructure:"max_image_bytes"`
	MaxImagePixels      int           `mapstructure:"max_image_pixels"`
	AllowedImageTypes   []string      `mapstructure:"allowed_image_types"`
	DefaultPageSize     int           `mapstructure:"default_page_size"`
	MaxPageSize         int           `mapstructure:"max_page_size"`
	RecentComments      int           `mapstructure:"recent_comments"`
	FanoutParallelism   int           `mapstructure:"fanout_parallelism"`
	StorageTimeout      time.Duration `mapstructure:"storage_timeout"`
	PublishTimeout      time.Duration `mapstructure:"publish_timeout"`
	CounterRetries      int           `mapstructure:"counter_retries"`
	CounterBackoff      time.Duration `mapstructure:"counter_backoff"`
	AnonymousCreator    string        `mapstructure:"anonymous_creator"`
}

// CronConfig 定时任务
type CronConfig struct {
	ReconcileSpec string `mapstructure:"reconcile_spec"`
}

// LogConfig 日志
type LogConfig struct {
	Level           string `mapstructure:"level"`
	LogstashAddress string `mapstructure:"logstash_address"`
	LogstashIndex   string `mapstructure:"logstash_index"`
	LogstashToken   string `mapstructure:"logstash_token"`
}
