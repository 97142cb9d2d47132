package monitor

import (
	"time"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/strategy"
)

// EventType 表示监控事件类型。
type EventType string

const (
	EventOrderSubmitted EventType = "order_submitted"
	EventOrderFailed    EventType = "order_failed"
	EventRunReport      EventType = "run_report"
	EventError          EventType = "error"
)

// Event 封装通用监控事件。
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderSubmittedPayload 记录一次成功的链上提交。
type OrderSubmittedPayload struct {
	Order   order.Resolved   `json:"order"`
	Receipt strategy.Receipt `json:"receipt"`
}

// OrderFailedPayload 记录提交失败的订单及原因。
type OrderFailedPayload struct {
	Order order.Resolved `json:"order"`
	Error string         `json:"error"`
}

// RunReportPayload 记录一次策略运行的最终报告。
type RunReportPayload struct {
	Report strategy.Report `json:"report"`
}

// ErrorPayload 记录异常。
type ErrorPayload struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}
