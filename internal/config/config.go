package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Gemini      GeminiConfig      `yaml:"gemini"`
	Notion      NotionConfig      `yaml:"notion"`
	Mail        MailConfig        `yaml:"mail"`
	Report      ReportConfig      `yaml:"report"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// GeminiConfig 生成端点相关配置
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	// 单次请求超时（秒）
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	// 总尝试次数（含首次）
	MaxAttempts int `yaml:"max_attempts"`
	// 首次重试前的退避时间（秒），之后按 2 的幂递增
	InitialBackoffSeconds int `yaml:"initial_backoff_seconds"`
}

// NotionConfig 记录存储相关配置。
// Databases 以栏目的 JSON 顶层键为 key，如 report、sreDynamics。
type NotionConfig struct {
	Token     string            `yaml:"token"`
	Databases map[string]string `yaml:"databases"`
}

// MailConfig 邮件通知相关配置
type MailConfig struct {
	SendGridAPIKey string   `yaml:"sendgrid_api_key"`
	From           string   `yaml:"from"`
	Recipients     []string `yaml:"recipients"`
}

// ReportConfig 周报相关配置
type ReportConfig struct {
	// 覆盖天数，默认最近 7 天
	PeriodDays int    `yaml:"period_days"`
	OutputFile string `yaml:"output_file"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空时跳过归档
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig 从指定路径加载配置，并用环境变量覆盖密钥类字段
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv 密钥优先从环境变量读取，便于 CI 定时任务注入
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		c.Notion.Token = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Mail.SendGridAPIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash-preview-05-20"
	}
	if c.Gemini.RequestTimeoutSeconds <= 0 {
		c.Gemini.RequestTimeoutSeconds = 120
	}
	if c.Gemini.MaxAttempts <= 0 {
		c.Gemini.MaxAttempts = 3
	}
	if c.Gemini.InitialBackoffSeconds <= 0 {
		c.Gemini.InitialBackoffSeconds = 60
	}
	if c.Report.PeriodDays <= 0 {
		c.Report.PeriodDays = 7
	}
	if c.Report.OutputFile == "" {
		c.Report.OutputFile = "output/weekly_report.html"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 校验运行必需的配置项
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 gemini.api_key")
	}
	if c.Notion.Token == "" {
		return fmt.Errorf("配置错误: 未设置 notion.token")
	}
	return nil
}
