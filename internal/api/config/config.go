package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

const envPrefix = "BANDWALL"

// LoadConfig 从文件与环境变量加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// Default 返回仅包含默认值的配置，测试与本地开发使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.trusted_proxies", []string{"localhost"})

	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("minio.main_bucket", "bandwall")

	v.SetDefault("kafka.client_id", "bandwall")
	v.SetDefault("kafka.producer.timeout", 2)
	v.SetDefault("kafka.producer.retry_max", 3)
	v.SetDefault("kafka.producer.dial_timeout", 2)
	v.SetDefault("kafka.topics.events", "bandwall-events")

	v.SetDefault("work_queue.key", "queue:comment:added")
	v.SetDefault("work_queue.block_timeout", 5*time.Second)
	v.SetDefault("work_queue.max_attempts", 5)

	v.SetDefault("notify.timeout", 5*time.Second)

	v.SetDefault("content.default_caption", "Default caption")
	v.SetDefault("content.default_comment", "Default comment")
	v.SetDefault("content.strict_fields", false)
	v.SetDefault("content.require_existing_post", true)
	v.SetDefault("content.caption_max_len", 2200)
	v.SetDefault("content.content_max_len", 1000)
	v.SetDefault("content.max_image_bytes", 5<<20)
	v.SetDefault("content.max_image_pixels", 25_000_000)
	v.SetDefault("content.allowed_image_types", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})
	v.SetDefault("content.default_page_size", 20)
	v.SetDefault("content.max_page_size", 100)
	v.SetDefault("content.recent_comments", 2)
	v.SetDefault("content.fanout_parallelism", 8)
	v.SetDefault("content.storage_timeout", 3*time.Second)
	v.SetDefault("content.publish_timeout", 2*time.Second)
	v.SetDefault("content.counter_retries", 3)
	v.SetDefault("content.counter_backoff", 50*time.Millisecond)
	v.SetDefault("content.anonymous_creator", "anonymous")

	v.SetDefault("cron.reconcile_spec", "0 */1 * * * *")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.logstash_index", "logstash-bandwall")
}
