package app

import (
	"context"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/monitor"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/strategy"
)

// journalingSubmitter 在真实提交端外包一层事件记录，
// 每次提交的成败都落入监控流水。
type journalingSubmitter struct {
	inner   strategy.Submitter
	monitor *monitor.Service
}

func newJournalingSubmitter(inner strategy.Submitter, svc *monitor.Service) *journalingSubmitter {
	return &journalingSubmitter{inner: inner, monitor: svc}
}

// Submit 实现 strategy.Submitter。
func (j *journalingSubmitter) Submit(ctx context.Context, resolved order.Resolved) (strategy.Receipt, error) {
	receipt, err := j.inner.Submit(ctx, resolved)
	if err != nil {
		j.monitor.RecordOrderFailed(context.WithoutCancel(ctx), resolved, err)
		return receipt, err
	}
	j.monitor.RecordOrderSubmitted(context.WithoutCancel(ctx), resolved, receipt)
	return receipt, nil
}
