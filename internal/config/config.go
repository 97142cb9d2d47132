package config

import (
	"errors"
	"fmt"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "dexlyn"
)

// Load 读取配置文件并结合环境变量返回 Config。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.network", "testnet")
	v.SetDefault("app.default_strategy", "basic_cycle")

	v.SetDefault("profiles.dir", "configs")
	v.SetDefault("profiles.strategy_file", "configs/strategies.json")

	v.SetDefault("orders.slippage_tolerance", 0.01)
	v.SetDefault("orders.confirmation_attempts", 3)
	v.SetDefault("orders.auto_execution_guard", true)
	v.SetDefault("orders.abort_on_failure", false)

	v.SetDefault("timing.sleep_between_orders", "6s")
	v.SetDefault("timing.sleep_between_cycles", "10s")
	v.SetDefault("timing.retry_delay", "5s")

	v.SetDefault("supra.testnet_url", "https://rpc-testnet.supra.com")
	v.SetDefault("supra.mainnet_url", "https://rpc-mainnet.supra.com")
	v.SetDefault("supra.timeout", "30s")
	v.SetDefault("supra.auto_faucet", true)
	v.SetDefault("supra.retry.max_attempts", 5)
	v.SetDefault("supra.retry.min_delay", "500ms")
	v.SetDefault("supra.retry.max_delay", "5s")

	v.SetDefault("database.path", "data/dexlyn_bot.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.in_memory", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.port", 8787)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
