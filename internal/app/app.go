package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/config"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/monitor"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/store"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/strategy"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/supra"
)

// App 聚合核心依赖并驱动一次策略运行的完整生命周期。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// RunOptions 携带命令行对单次运行的覆盖项。
type RunOptions struct {
	Strategy     string // 策略键名，默认取配置中的 default_strategy
	StrategyFile string // 策略文件路径，默认取配置中的 strategy_file
	Cycles       int    // 覆盖策略声明的周期数，0 表示不覆盖
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 装配依赖、执行所选策略并持久化运行报告。
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	a.logger.Info("交易系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("network", a.cfg.App.Network),
	)

	profiles, err := profile.Load(profile.DefaultPaths(a.cfg.Profiles.Dir), a.logger)
	if err != nil {
		return fmt.Errorf("加载档案配置失败: %w", err)
	}

	strategyFile := opts.StrategyFile
	if strategyFile == "" {
		strategyFile = a.cfg.Profiles.StrategyFile
	}
	strategies, err := strategy.NewLoader(a.logger).LoadFile(strategyFile)
	if err != nil {
		return fmt.Errorf("加载策略文件失败: %w", err)
	}

	strategyName := opts.Strategy
	if strategyName == "" {
		strategyName = a.cfg.App.DefaultStrategy
	}
	strat, err := strategy.Select(strategies, strategyName)
	if err != nil {
		return err
	}
	if strat.Network == "" {
		strat.Network = a.cfg.App.Network
	}
	if opts.Cycles != 0 {
		strat.Cycles = opts.Cycles
	}

	network, err := profiles.Network(strat.Network)
	if err != nil {
		return err
	}

	client, err := supra.NewClient(a.cfg.Supra, network, profiles, supra.NewEd25519Signer(), a.logger)
	if err != nil {
		return fmt.Errorf("初始化 Supra 客户端失败: %w", err)
	}

	if err := client.EnsureFunded(ctx, strategyWallets(strat)); err != nil {
		a.logger.Warn("钱包资金检查失败", zap.Error(err))
	}

	monitorSvc, err := monitor.NewService(a.store, a.logger)
	if err != nil {
		return fmt.Errorf("初始化监控服务失败: %w", err)
	}
	if a.cfg.Monitor.Enabled {
		if err := startMonitorServer(ctx, monitorSvc, a.cfg.Monitor.Port, a.logger); err != nil {
			return err
		}
	}

	resolver := order.NewResolver(order.Options{
		SlippageTolerance:  a.cfg.Orders.SlippageTolerance,
		AutoExecutionGuard: a.cfg.Orders.AutoExecutionGuard,
	}, a.logger)

	sequencer := strategy.NewSequencer(
		profiles,
		resolver,
		newJournalingSubmitter(client, monitorSvc),
		strategy.Config{
			SleepBetweenOrders:   a.cfg.Timing.SleepBetweenOrders,
			SleepBetweenCycles:   a.cfg.Timing.SleepBetweenCycles,
			RetryDelay:           a.cfg.Timing.RetryDelay,
			ConfirmationAttempts: a.cfg.Orders.ConfirmationAttempts,
			AbortOnFailure:       a.cfg.Orders.AbortOnFailure,
		},
		a.logger,
	)

	report := sequencer.Run(ctx, strat)
	monitorSvc.RecordRunReport(context.WithoutCancel(ctx), report)

	a.logger.Info("策略运行结束",
		zap.String("strategy", report.Strategy),
		zap.String("state", string(report.State)),
		zap.Int("cycles_completed", report.CyclesCompleted),
		zap.Int("orders_submitted", report.OrdersSubmitted),
		zap.Int("orders_failed", report.OrdersFailed),
	)

	if report.State == strategy.StateFailed {
		err := fmt.Errorf("策略 %q 执行失败: %s", report.Strategy, report.StopReason)
		monitorSvc.RecordError(context.WithoutCancel(ctx), "策略执行失败", err, map[string]interface{}{
			"strategy":         report.Strategy,
			"cycles_completed": report.CyclesCompleted,
			"orders_failed":    report.OrdersFailed,
		})
		return err
	}
	return nil
}

// strategyWallets 收集策略中引用的去重钱包名。
func strategyWallets(strat *strategy.Strategy) []string {
	seen := make(map[string]struct{}, len(strat.Orders))
	names := make([]string, 0, len(strat.Orders))
	for _, raw := range strat.Orders {
		if raw.Wallet == "" {
			continue
		}
		if _, ok := seen[raw.Wallet]; ok {
			continue
		}
		seen[raw.Wallet] = struct{}{}
		names = append(names, raw.Wallet)
	}
	return names
}
