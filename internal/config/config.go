package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（匹配 config/config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 存储配置
	Haiku    HaikuConfig    `mapstructure:"haiku"`    // 每日俳句配置
	Email    EmailConfig    `mapstructure:"email"`    // 邮件推送配置
	CORS     CORSConfig     `mapstructure:"cors"`     // 跨域配置
	Cron     CronConfig     `mapstructure:"cron"`     // 定时触发配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port  int    `mapstructure:"port"`  // 服务端口
	Mode  string `mapstructure:"mode"`  // Gin运行模式：debug/release/test
	Pprof bool   `mapstructure:"pprof"` // 是否注册 pprof
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`            // postgres / memory
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	LogLevel        string        `mapstructure:"log_level"`         // gorm 日志级别：silent/error/warn/info
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// HaikuConfig 俳句展示相关配置
type HaikuConfig struct {
	UTCOffset     int    `mapstructure:"utc_offset"`      // "今天"所用的固定时区偏移（秒）
	AssetBaseURL  string `mapstructure:"asset_base_url"`  // 图片存储桶地址
	PublicBaseURL string `mapstructure:"public_base_url"` // 分享链接的公开域名
	SiteURL       string `mapstructure:"site_url"`        // 链接预览页跳转的前端地址
}

// EmailConfig 邮件服务配置
type EmailConfig struct {
	BaseURL string   `mapstructure:"base_url"` // 邮件API地址
	APIKey  string   `mapstructure:"api_key"`  // 邮件API密钥
	From    string   `mapstructure:"from"`     // 发件人
	To      []string `mapstructure:"to"`       // 收件人列表
	Timeout int      `mapstructure:"timeout"`  // 请求超时（秒）
	Proxy   string   `mapstructure:"proxy"`    // 代理地址
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CronConfig 外部定时任务配置
type CronConfig struct {
	Secret string `mapstructure:"secret"` // X-Cron-Secret 需匹配的值
}

// Location 返回"今天"计算使用的固定时区
func (h HaikuConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", h.UTCOffset/3600), h.UTCOffset)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.pprof", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("haiku.utc_offset", 3600)
	v.SetDefault("haiku.public_base_url", "https://dailyhaiku.app")
	v.SetDefault("haiku.site_url", "https://dailyhaiku.app")
	v.SetDefault("email.base_url", "https://api.resend.com")
	v.SetDefault("email.timeout", 15)
	v.SetDefault("cors.allowed_origins", []string{"https://dailyhaiku.vercel.app", "http://localhost:8080"})
}

// LoadConfig 加载配置文件（config/config.yaml，可不存在），敏感项从 .env / 环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	// 1. 加载 .env（若存在）
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// 2. 读取 config.yaml
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("ASSET_BASE_URL"); v != "" {
		cfg.Haiku.AssetBaseURL = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Haiku.PublicBaseURL = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Haiku.SiteURL = v
	}
	if v := os.Getenv("EMAIL_API_KEY"); v != "" {
		cfg.Email.APIKey = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		cfg.Email.To = strings.Split(v, ",")
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		cfg.Cron.Secret = v
	}
	cfg.Haiku.AssetBaseURL = strings.TrimSuffix(cfg.Haiku.AssetBaseURL, "/")
	cfg.Haiku.PublicBaseURL = strings.TrimSuffix(cfg.Haiku.PublicBaseURL, "/")
}
