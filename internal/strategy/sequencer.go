package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
)

// Submitter 抽象订单提交端，由其负责签名、广播与确认轮询。
type Submitter interface {
	Submit(ctx context.Context, resolved order.Resolved) (Receipt, error)
}

type profileSource interface {
	Network(name string) (profile.Network, error)
	Pair(name, network string) (profile.Pair, error)
}

type orderResolver interface {
	Resolve(raw order.RawOrder, pair profile.Pair, network profile.Network) (order.Resolved, error)
}

// Config 控制执行节奏与失败策略，取值来自主配置。
type Config struct {
	SleepBetweenOrders   time.Duration
	SleepBetweenCycles   time.Duration
	RetryDelay           time.Duration
	ConfirmationAttempts int
	AbortOnFailure       bool
}

// Sequencer 按声明顺序驱动策略执行。订单之间严格串行，
// 后面的订单可能依赖前面订单产生的仓位变化。
type Sequencer struct {
	profiles  profileSource
	resolver  orderResolver
	submitter Submitter
	cfg       Config
	logger    *zap.Logger
}

// NewSequencer 创建策略执行器。
func NewSequencer(profiles profileSource, resolver orderResolver, submitter Submitter, cfg Config, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConfirmationAttempts <= 0 {
		cfg.ConfirmationAttempts = 1
	}
	return &Sequencer{
		profiles:  profiles,
		resolver:  resolver,
		submitter: submitter,
		cfg:       cfg,
		logger:    logger,
	}
}

type orderOutcome int

const (
	outcomeOK orderOutcome = iota
	outcomeFailed
	outcomeStopped
)

// Run 执行策略的全部周期并返回终态报告。取消信号只在休眠点与
// 单次提交尝试结束后生效，不会打断进行中的提交。
func (s *Sequencer) Run(ctx context.Context, strat *Strategy) Report {
	report := Report{Strategy: strat.Name, State: StatePending}

	network, err := s.profiles.Network(strat.Network)
	if err != nil {
		report.State = StateFailed
		report.StopReason = err.Error()
		return report
	}

	report.State = StateRunning
	infinite := strat.Cycles <= 0

	s.logger.Info("策略开始执行",
		zap.String("strategy", strat.Name),
		zap.String("network", network.Name),
		zap.String("cycles", cyclesLabel(strat.Cycles)),
		zap.Int("orders", len(strat.Orders)),
	)

	for cycle := 1; infinite || cycle <= strat.Cycles; cycle++ {
		s.logger.Info("进入新周期", zap.Int("cycle", cycle))

		for i := range strat.Orders {
			raw := strat.Orders[i]

			if raw.WaitBefore > 0 {
				wait := time.Duration(raw.WaitBefore * float64(time.Second))
				s.logger.Info("订单执行前等待",
					zap.String("order", raw.Name),
					zap.Duration("wait", wait),
				)
				if !s.sleep(ctx, wait) {
					return s.stopped(report, cycle)
				}
			}

			outcome := s.runOrder(ctx, &report, raw, network, cycle)
			switch outcome {
			case outcomeStopped:
				return s.stopped(report, cycle)
			case outcomeFailed:
				if s.cfg.AbortOnFailure {
					report.State = StateFailed
					report.StopReason = fmt.Sprintf("订单 %q 失败且策略配置为失败即中止", raw.Name)
					return report
				}
			}

			if i < len(strat.Orders)-1 {
				if !s.sleep(ctx, s.cfg.SleepBetweenOrders) {
					return s.stopped(report, cycle)
				}
			}
		}

		report.CyclesCompleted++

		if infinite || cycle < strat.Cycles {
			if !s.sleep(ctx, s.cfg.SleepBetweenCycles) {
				return s.stopped(report, cycle+1)
			}
		}
	}

	report.State = StateCompleted
	report.StopReason = "全部周期执行完成"
	s.logger.Info("策略执行完成",
		zap.String("strategy", strat.Name),
		zap.Int("cycles_completed", report.CyclesCompleted),
		zap.Int("orders_submitted", report.OrdersSubmitted),
		zap.Int("orders_failed", report.OrdersFailed),
	)
	return report
}

// runOrder 解析并提交单个订单。解析错误是确定性的，从不重试；
// 提交失败按配置的次数重试。
func (s *Sequencer) runOrder(ctx context.Context, report *Report, raw order.RawOrder, network profile.Network, cycle int) orderOutcome {
	pair, err := s.profiles.Pair(raw.Pair, network.Name)
	if err != nil {
		s.recordFailure(report, cycle, raw.Name, 0, err)
		return outcomeFailed
	}

	resolved, err := s.resolver.Resolve(raw, pair, network)
	if err != nil {
		s.logger.Error("订单解析失败",
			zap.Int("cycle", cycle),
			zap.String("order", raw.Name),
			zap.Error(err),
		)
		s.recordFailure(report, cycle, raw.Name, 0, err)
		return outcomeFailed
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.ConfirmationAttempts; attempt++ {
		receipt, err := s.submitter.Submit(ctx, resolved)
		if err == nil {
			report.OrdersSubmitted++
			s.logger.Info("订单提交成功",
				zap.Int("cycle", cycle),
				zap.String("order", raw.Name),
				zap.Int("attempt", attempt),
				zap.String("tx_hash", receipt.TxHash),
			)
			// 提交成功即视为该订单完成，取消信号留到下一个休眠点处理。
			return outcomeOK
		}

		// 正在进行的尝试结束后才响应取消，不把中断记为订单失败。
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return outcomeStopped
		}

		lastErr = err
		s.logger.Warn("订单提交失败",
			zap.Int("cycle", cycle),
			zap.String("order", raw.Name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.cfg.ConfirmationAttempts),
			zap.Error(err),
		)

		if attempt < s.cfg.ConfirmationAttempts {
			if !s.sleep(ctx, s.cfg.RetryDelay) {
				return outcomeStopped
			}
		}
	}

	s.recordFailure(report, cycle, raw.Name, s.cfg.ConfirmationAttempts, lastErr)
	return outcomeFailed
}

func (s *Sequencer) recordFailure(report *Report, cycle int, name string, attempts int, err error) {
	report.OrdersFailed++
	report.Failures = append(report.Failures, OrderFailure{
		Cycle:    cycle,
		Order:    name,
		Attempts: attempts,
		Reason:   err.Error(),
	})
}

func (s *Sequencer) stopped(report Report, cycle int) Report {
	report.State = StateStopped
	report.StopReason = "收到外部中断信号"
	s.logger.Info("策略执行被中断",
		zap.String("strategy", report.Strategy),
		zap.Int("cycle", cycle),
		zap.Int("cycles_completed", report.CyclesCompleted),
	)
	return report
}

// sleep 在休眠的同时响应取消信号，返回 false 表示运行应进入 STOPPED。
func (s *Sequencer) sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func cyclesLabel(cycles int) string {
	if cycles <= 0 {
		return "infinite"
	}
	return fmt.Sprintf("%d", cycles)
}
