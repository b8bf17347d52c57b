package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// PlaceholderJWTSecret 示例配置中的占位密钥，生产环境禁止使用
const PlaceholderJWTSecret = "your-super-secret-jwt-key-change-in-production"

// Config 应用配置
type Config struct {
	Port       int    `env:"PORT" envDefault:"5000"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	MongoURI   string `env:"MONGODB_URI,required"`
	MongoDB    string `env:"MONGODB_DB" envDefault:"clientiq"`
	JWTSecret  string `env:"JWT_SECRET,required"`
	JWTExpires int    `env:"JWT_EXPIRES_HOURS" envDefault:"720"`
	CORSOrigin string `env:"CORS_ORIGIN"`
	LogFile    string `env:"LOG_FILE"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SMTP  SMTPConfig
	AI    AIConfig
	Image ImageStoreConfig
}

// SMTPConfig 邮件发送配置，Host 为空或示例值时视为未配置
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	Secure   bool   `env:"SMTP_SECURE" envDefault:"false"`
}

// AIConfig 生成式 AI 配置，默认走 Gemini 的 OpenAI 兼容接口
type AIConfig struct {
	APIKey  string `env:"GOOGLE_GENERATIVE_AI_API_KEY"`
	BaseURL string `env:"AI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model   string `env:"AI_MODEL" envDefault:"gemini-2.5-flash"`
}

// ImageStoreConfig 图片存储配置（S3 兼容）
type ImageStoreConfig struct {
	Endpoint  string `env:"IMAGE_STORE_ENDPOINT"`
	AccessKey string `env:"IMAGE_STORE_ACCESS_KEY"`
	SecretKey string `env:"IMAGE_STORE_SECRET_KEY"`
	Bucket    string `env:"IMAGE_STORE_BUCKET" envDefault:"clientiq"`
	PublicURL string `env:"IMAGE_STORE_PUBLIC_URL"`
	UseSSL    bool   `env:"IMAGE_STORE_USE_SSL" envDefault:"true"`
}

// LoadConfig 从 .env 和环境变量加载配置，缺少必填项时返回错误
func LoadConfig() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置之间的约束
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MongoURI) == "" {
		return errors.New("MONGODB_URI is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWTSecret == PlaceholderJWTSecret {
		return errors.New("change JWT_SECRET before running in production")
	}
	if c.JWTExpires <= 0 {
		c.JWTExpires = 720
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// CORSOrigins 解析逗号分隔的跨域白名单，空表示允许任意来源
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Configured SMTP 是否已配置
func (s SMTPConfig) Configured() bool {
	host := strings.TrimSpace(s.Host)
	return host != "" && host != "smtp.example.com"
}

// Configured AI 是否已配置
func (a AIConfig) Configured() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// Configured 图片存储是否已配置
func (i ImageStoreConfig) Configured() bool {
	return i.Endpoint != "" && i.AccessKey != "" && i.SecretKey != "" && i.Bucket != ""
}
