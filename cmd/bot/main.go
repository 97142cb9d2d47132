package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/app"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/config"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/log"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/store"
)

func main() {
	var (
		configPath   string
		strategyName string
		strategyFile string
		cycles       int
	)
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认使用 configs/config.yaml")
	flag.StringVar(&strategyName, "strategy", "", "要执行的策略键名，默认取配置中的 default_strategy")
	flag.StringVar(&strategyFile, "strategy-file", "", "策略文件路径，默认取配置中的 strategy_file")
	flag.IntVar(&cycles, "cycles", 0, "覆盖策略声明的周期数，0 表示使用策略自身的值")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	sqliteStore, err := store.NewSQLite(cfg.Database)
	if err != nil {
		logger.Error("初始化数据库失败", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if closeErr := sqliteStore.Close(); closeErr != nil {
			logger.Warn("关闭数据库失败", zap.Error(closeErr))
		}
	}()

	bot := app.New(cfg, logger, sqliteStore)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx, app.RunOptions{
		Strategy:     strategyName,
		StrategyFile: strategyFile,
		Cycles:       cycles,
	}); err != nil {
		logger.Error("系统运行异常", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("系统已安全退出")
}
