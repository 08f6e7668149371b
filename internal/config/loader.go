// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load 加载配置文件
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func Load() (*Config, error) {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}
	return LoadFrom(dir)
}

// LoadFrom 从指定目录加载配置
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), false); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值 (兜底)
	setDefaults(v)

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnv(string(content))

	// 加载到 viper
	reader := strings.NewReader(expanded)
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，防止后续 ReadInConfig 报错
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// envPattern 匹配 ${VAR} 或 ${VAR:default}
// g1: 变量名, g2: 默认值部分（含冒号）, g3: 默认值内容
var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// expandEnv 替换字符串中的 ${VAR:default} 占位符
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPattern.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		val, ok := os.LookupEnv(key)
		if ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match // 保留原样以便识别未定义的变量
	})
}

// defaults 兜底默认值，配置文件和环境变量均未提供时生效
var defaults = map[string]any{
	"app.name":    "newsletter-headline-api",
	"app.version": "v0.0.0",
	"app.env":     "development",

	"server.http.host":            "0.0.0.0",
	"server.http.port":            8000,
	"server.http.read_timeout":    "30s",
	"server.http.write_timeout":   "120s",
	"server.http.idle_timeout":    "120s",
	"server.http.trusted_proxies": []string{"127.0.0.1", "::1"},

	"database.postgres.enabled":            false,
	"database.postgres.host":               "localhost",
	"database.postgres.port":               5432,
	"database.postgres.user":               "postgres",
	"database.postgres.database":           "headlines",
	"database.postgres.ssl_mode":           "disable",
	"database.postgres.max_open_conns":     20,
	"database.postgres.max_idle_conns":     5,
	"database.postgres.conn_max_lifetime":  "30m",
	"database.postgres.conn_max_idle_time": "5m",

	"cache.redis.enabled":        false,
	"cache.redis.host":           "localhost",
	"cache.redis.port":           6379,
	"cache.redis.db":             0,
	"cache.redis.pool_size":      20,
	"cache.redis.min_idle_conns": 2,
	"cache.redis.dial_timeout":   "5s",
	"cache.redis.read_timeout":   "3s",
	"cache.redis.write_timeout":  "3s",

	"llm.default_provider": "openai",

	"generation.headline_count": 5,
	"generation.max_keywords":   5,

	"trends.enabled":     true,
	"trends.feed_url":    "https://trends.google.com/trending/rss",
	"trends.geo":         "US",
	"trends.cache_ttl":   "30m",
	"trends.timeout":     "5s",
	"trends.per_keyword": 3,
	"trends.fallback":    5,

	"events.enabled": false,
	"events.stream":  "stream:headline:generated",
	"events.max_len": 100000,

	"observability.logging.level":       "info",
	"observability.logging.format":      "json",
	"observability.tracing.enabled":     false,
	"observability.tracing.endpoint":    "localhost:4317",
	"observability.tracing.sample_rate": 1.0,
	"observability.metrics.enabled":     true,
	"observability.metrics.path":        "/metrics",

	"security.rate_limit.enabled":             true,
	"security.rate_limit.generate_per_minute": 10,
	"security.rate_limit.health_per_minute":   30,
}

func setDefaults(v *viper.Viper) {
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
}
