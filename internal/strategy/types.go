package strategy

import (
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
)

// Strategy 描述一次完整的策略运行：目标网络、循环次数与有序订单列表。
// 加载后只读，执行期间不会被修改。
type Strategy struct {
	Key         string          `json:"-"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Network     string          `json:"network"`
	// Cycles 小于等于 0 表示无限循环。
	Cycles int             `json:"cycles"`
	Orders []order.RawOrder `json:"orders"`
}

// State 表示一次策略运行所处的状态。
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

// Report 汇总一次策略运行的终态与计数。
type Report struct {
	Strategy        string
	State           State
	CyclesCompleted int
	OrdersSubmitted int
	OrdersFailed    int
	StopReason      string
	Failures        []OrderFailure
}

// OrderFailure 记录单个订单的失败详情。
type OrderFailure struct {
	Cycle    int
	Order    string
	Attempts int
	Reason   string
}

// Receipt 是提交端返回的交易回执。
type Receipt struct {
	TxHash string
}
