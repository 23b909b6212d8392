package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 删除策略：玩家/分类被删除时如何处理仍引用它的游戏
const (
	PolicyRestrict = "restrict" // 存在引用则拒绝删除
	PolicyCascade  = "cascade"  // 级联：玩家的游戏归档，分类的关联删除
	PolicyNullify  = "nullify"  // 置空：清除游戏上的引用
)

// Config 全局配置结构体（对应 config/config.yaml）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig  `mapstructure:"database"`  // 数据库配置
	Report    ReportConfig    `mapstructure:"report"`    // CSV 报表配置
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"` // 实体生命周期配置
	Log       LogConfig       `mapstructure:"log"`       // 日志配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`             // 服务端口
	Mode            string        `mapstructure:"mode"`             // Gin运行模式：debug/release/test
	PProf           bool          `mapstructure:"pprof"`            // 是否注册 /debug/pprof
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // 优雅退出等待时间
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`            // sqlite / postgres
	DSN             string        `mapstructure:"dsn"`               // sqlite 为文件路径，postgres 为 URL
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数（sqlite 固定为 1）
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	LogLevel        string        `mapstructure:"log_level"`         // GORM 日志级别：silent/error/warn/info
}

// ReportConfig CSV 报表配置
type ReportConfig struct {
	Path               string `mapstructure:"path"`                 // 报表文件路径
	RegenerateOnChange bool   `mapstructure:"regenerate_on_change"` // 实体变更后是否在后台重建报表
}

// LifecycleConfig 删除被引用实体时的策略
type LifecycleConfig struct {
	PlayerDeletePolicy   string `mapstructure:"player_delete_policy"`
	CategoryDeletePolicy string `mapstructure:"category_delete_policy"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // logrus 级别
	Format string `mapstructure:"format"` // text / json
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.pprof", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/juegos.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("report.path", "report/reporte.csv")
	v.SetDefault("report.regenerate_on_change", true)
	v.SetDefault("lifecycle.player_delete_policy", PolicyRestrict)
	v.SetDefault("lifecycle.category_delete_policy", PolicyRestrict)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig 加载配置文件，敏感项与部署项从 .env / 环境变量覆盖。
// path 为空时在 ./config 下查找 config.yaml，找不到则只使用默认值。
func LoadConfig(path string) (*Config, error) {
	// 1. 加载 .env（若存在）
	_ = godotenv.Load()

	// 2. 读取 yaml
	v := viper.New()
	setDefaults(v)
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

	// 3. env > yaml
	if err := overrideFromEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖部署相关配置
func overrideFromEnv(cfg *Config) error {
	if v := os.Getenv("CATALOG_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("CATALOG_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CATALOG_REPORT_PATH"); v != "" {
		cfg.Report.Path = v
	}
	if v := os.Getenv("CATALOG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CATALOG_PORT 非法: %w", err)
		}
		cfg.Server.Port = port
	}
	return nil
}

// Validate 校验枚举类配置项
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn 不能为空")
	}
	if !validPolicy(c.Lifecycle.PlayerDeletePolicy) {
		return fmt.Errorf("lifecycle.player_delete_policy 非法: %q", c.Lifecycle.PlayerDeletePolicy)
	}
	if !validPolicy(c.Lifecycle.CategoryDeletePolicy) {
		return fmt.Errorf("lifecycle.category_delete_policy 非法: %q", c.Lifecycle.CategoryDeletePolicy)
	}
	return nil
}

func validPolicy(p string) bool {
	return p == PolicyRestrict || p == PolicyCascade || p == PolicyNullify
}
