package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Provider    ProviderConfig    `mapstructure:"provider"`
	Translation TranslationConfig `mapstructure:"translation"`
	Analytics   AnalyticsConfig   `mapstructure:"analytics"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Dialect 可选 sqlite 或 postgres
	Dialect string      `mapstructure:"dialect"`
	DSN     string      `mapstructure:"dsn"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProviderConfig 定义了上游翻译服务的配置
type ProviderConfig struct {
	BaseURL        string `mapstructure:"baseURL"`
	APIKey         string `mapstructure:"apiKey"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// Timeout 返回单次上游调用的超时时长
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// TranslationConfig 定义了翻译网关的准入与重试参数
type TranslationConfig struct {
	// MaxTextLength 是单次翻译允许的最大码点数
	MaxTextLength int `mapstructure:"maxTextLength"`
	// CooldownSeconds 是同一用户两次翻译之间的最小间隔
	CooldownSeconds int `mapstructure:"cooldownSeconds"`
	// MaxAttempts 是上游调用的最大尝试次数（含首次）
	MaxAttempts int `mapstructure:"maxAttempts"`
}

// Cooldown 返回准入冷却窗口的时长
func (t TranslationConfig) Cooldown() time.Duration {
	return time.Duration(t.CooldownSeconds) * time.Second
}

// AnalyticsConfig 定义了读侧报表的缓存配置
type AnalyticsConfig struct {
	CacheTTLSeconds int `mapstructure:"cacheTTLSeconds"`
}

// CacheTTL 返回报表缓存的过期时长
func (a AnalyticsConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config") // 文件名 (不带扩展名)
	v.SetConfigType("yaml")   // 文件类型

	// 2. 添加配置文件搜索路径
	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9090
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 配置缺省值，保证配置文件缺项时仍可启动
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.dialect", "sqlite")
	v.SetDefault("database.dsn", "translator.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("provider.timeoutSeconds", 30)
	v.SetDefault("translation.maxTextLength", 5000)
	v.SetDefault("translation.cooldownSeconds", 20)
	v.SetDefault("translation.maxAttempts", 5)
	v.SetDefault("analytics.cacheTTLSeconds", 60)

	// 5. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
