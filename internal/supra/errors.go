package supra

import (
	"errors"
	"net"
)

var (
	// ErrSubmitFailed 表示交易提交在耗尽 RPC 重试后仍未被节点接受。
	ErrSubmitFailed = errors.New("supra: submit failed")
	// ErrFaucetUnavailable 表示测试网水龙头请求失败。
	ErrFaucetUnavailable = errors.New("supra: faucet unavailable")
)

// IsRetryable 判断错误是否为瞬态、可重试的网络/节点问题。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 429:
			return true
		case httpErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}
