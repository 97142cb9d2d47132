package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Orders   OrdersConfig   `mapstructure:"orders"`
	Timing   TimingConfig   `mapstructure:"timing"`
	Supra    SupraConfig    `mapstructure:"supra"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment     string `mapstructure:"environment"`
	Network         string `mapstructure:"network"`
	DefaultStrategy string `mapstructure:"default_strategy"`
}

// ProfilesConfig 指定网络、交易对、钱包与策略配置文件的位置。
type ProfilesConfig struct {
	Dir          string `mapstructure:"dir"`
	StrategyFile string `mapstructure:"strategy_file"`
}

// OrdersConfig 控制订单解析与确认行为。
type OrdersConfig struct {
	SlippageTolerance    float64 `mapstructure:"slippage_tolerance"`
	ConfirmationAttempts int     `mapstructure:"confirmation_attempts"`
	AutoExecutionGuard   bool    `mapstructure:"auto_execution_guard"`
	AbortOnFailure       bool    `mapstructure:"abort_on_failure"`
}

// TimingConfig 控制执行节奏。
type TimingConfig struct {
	SleepBetweenOrders time.Duration `mapstructure:"sleep_between_orders"`
	SleepBetweenCycles time.Duration `mapstructure:"sleep_between_cycles"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`
}

// SupraConfig 描述 Supra RPC 节点连接信息。
type SupraConfig struct {
	TestnetURL string        `mapstructure:"testnet_url"`
	MainnetURL string        `mapstructure:"mainnet_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	AutoFaucet bool          `mapstructure:"auto_faucet"`
	Retry      RetryConfig   `mapstructure:"retry"`
}

// RetryConfig 统一控制 RPC 重试机制。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MonitorConfig 控制监控事件接口。
type MonitorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// RPCURL 返回目标网络的 RPC 地址。
func (c SupraConfig) RPCURL(network string) (string, error) {
	switch network {
	case "testnet":
		return c.TestnetURL, nil
	case "mainnet":
		return c.MainnetURL, nil
	default:
		return "", fmt.Errorf("未知网络 %q", network)
	}
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.App.Network != "testnet" && c.App.Network != "mainnet" {
		err = multierr.Append(err, errors.New("app.network 必须为 testnet 或 mainnet"))
	}
	if c.Profiles.Dir == "" {
		err = multierr.Append(err, errors.New("profiles.dir 不能为空"))
	}
	if c.Orders.SlippageTolerance < 0 || c.Orders.SlippageTolerance > 0.2 {
		err = multierr.Append(err, errors.New("orders.slippage_tolerance 应位于[0,0.2]"))
	}
	if c.Orders.ConfirmationAttempts <= 0 {
		err = multierr.Append(err, errors.New("orders.confirmation_attempts 必须大于0"))
	}
	if c.Timing.SleepBetweenOrders < 0 || c.Timing.SleepBetweenCycles < 0 || c.Timing.RetryDelay < 0 {
		err = multierr.Append(err, errors.New("timing 各项不能为负"))
	}
	if c.Supra.TestnetURL == "" && c.Supra.MainnetURL == "" {
		err = multierr.Append(err, errors.New("supra.testnet_url 与 supra.mainnet_url 至少配置一个"))
	}
	if c.Supra.Timeout <= 0 {
		err = multierr.Append(err, errors.New("supra.timeout 必须大于0"))
	}
	if c.Supra.Retry.MaxAttempts <= 0 {
		err = multierr.Append(err, errors.New("supra.retry.max_attempts 必须大于0"))
	}
	if c.Supra.Retry.MinDelay <= 0 || c.Supra.Retry.MaxDelay <= 0 {
		err = multierr.Append(err, errors.New("supra.retry.delay 必须为正"))
	}
	if c.Supra.Retry.MinDelay > c.Supra.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("supra.retry.min_delay 不能大于 max_delay"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}
	if c.Monitor.Enabled && (c.Monitor.Port <= 0 || c.Monitor.Port > 65535) {
		err = multierr.Append(err, errors.New("monitor.port 必须位于(0,65535]"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
