package supra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/config"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/strategy"
)

const (
	submitPath  = "/rpc/v1/transactions/submit"
	faucetPath  = "/rpc/v1/wallet/faucet/"
	balancePath = "/rpc/v1/accounts/%s/coin_balance"
)

// HTTPError 携带节点返回的非 2xx 状态码与响应片段。
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("supra: 节点返回 %d: %s", e.StatusCode, e.Body)
}

type walletSource interface {
	Wallet(name string) (profile.Wallet, error)
}

// Client 负责把已解析的订单组装为链上交易并提交到 Supra RPC 节点。
// 签名、广播与确认都在这里完成，上层只看到成功或失败。
type Client struct {
	cfg     config.SupraConfig
	baseURL string
	network profile.Network
	wallets walletSource
	signer  Signer
	http    *http.Client
	logger  *zap.Logger
}

// NewClient 构造 RPC 客户端。
func NewClient(cfg config.SupraConfig, network profile.Network, wallets walletSource, signer Signer, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if signer == nil {
		return nil, errors.New("supra: signer 不能为空")
	}

	baseURL, err := cfg.RPCURL(network.Name)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, fmt.Errorf("supra: 网络 %q 未配置 RPC 地址", network.Name)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		network: network,
		wallets: wallets,
		signer:  signer,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

type submitRequest struct {
	Sender    string               `json:"sender"`
	Payload   EntryFunctionPayload `json:"payload"`
	Signature Signature            `json:"signature"`
}

type submitResponse struct {
	TxHash string `json:"tx_hash"`
}

// Submit 实现 strategy.Submitter：签名并提交单个订单，返回交易哈希。
func (c *Client) Submit(ctx context.Context, resolved order.Resolved) (strategy.Receipt, error) {
	wallet, err := c.wallets.Wallet(resolved.Wallet)
	if err != nil {
		return strategy.Receipt{}, err
	}

	payload := BuildPlaceOrderPayload(c.network, wallet, resolved)
	signature, err := c.signer.Sign(wallet, payload)
	if err != nil {
		return strategy.Receipt{}, err
	}

	body, err := json.Marshal(submitRequest{
		Sender:    wallet.Address,
		Payload:   payload,
		Signature: signature,
	})
	if err != nil {
		return strategy.Receipt{}, fmt.Errorf("序列化交易请求失败: %w", err)
	}

	var resp submitResponse
	err = c.callWithRetry(ctx, "submit_transaction", func() error {
		return c.postJSON(ctx, c.baseURL+submitPath, body, &resp)
	})
	if err != nil {
		return strategy.Receipt{}, fmt.Errorf("%w: %s: %v", ErrSubmitFailed, resolved.Name, err)
	}
	if resp.TxHash == "" {
		return strategy.Receipt{}, fmt.Errorf("%w: %s: 节点未返回交易哈希", ErrSubmitFailed, resolved.Name)
	}

	c.logger.Info("交易已提交",
		zap.String("order", resolved.Name),
		zap.String("pair", resolved.Pair),
		zap.String("tx_hash", resp.TxHash),
	)
	return strategy.Receipt{TxHash: resp.TxHash}, nil
}

// EnsureFunded 在策略启动前并发检查各钱包余额，测试网余额为零时
// 自动请求水龙头。主网或关闭 auto_faucet 时跳过。
func (c *Client) EnsureFunded(ctx context.Context, walletNames []string) error {
	if c.network.Name != "testnet" || !c.cfg.AutoFaucet {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, name := range walletNames {
		name := name
		group.Go(func() error {
			wallet, err := c.wallets.Wallet(name)
			if err != nil {
				return err
			}

			balance, err := c.Balance(groupCtx, wallet.Address)
			if err != nil {
				c.logger.Warn("查询钱包余额失败，跳过资金检查",
					zap.String("wallet", name),
					zap.Error(err),
				)
				return nil
			}
			if balance > 0 {
				return nil
			}

			c.logger.Info("测试网钱包余额为零，请求水龙头", zap.String("wallet", name))
			if err := c.faucet(groupCtx, wallet.Address); err != nil {
				c.logger.Warn("水龙头请求失败", zap.String("wallet", name), zap.Error(err))
			}
			return nil
		})
	}
	return group.Wait()
}

type balanceResponse struct {
	Balance uint64 `json:"balance"`
}

// Balance 查询账户余额。
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	var resp balanceResponse
	err := c.callWithRetry(ctx, "account_balance", func() error {
		return c.getJSON(ctx, c.baseURL+fmt.Sprintf(balancePath, address), &resp)
	})
	if err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *Client) faucet(ctx context.Context, address string) error {
	err := c.callWithRetry(ctx, "faucet", func() error {
		return c.postJSON(ctx, c.baseURL+faucetPath+address, nil, nil)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFaucetUnavailable, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(data), 256)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("解析节点响应失败: %w", err)
		}
	}
	return nil
}

func (c *Client) callWithRetry(ctx context.Context, operation string, fn func() error) error {
	attempt := 0
	delay := c.cfg.Retry.MinDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	maxDelay := c.cfg.Retry.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}
	maxAttempts := c.cfg.Retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		attempt++
		start := time.Now()
		err := fn()
		duration := time.Since(start)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("RPC 调用重试后成功",
					zap.String("operation", operation),
					zap.Int("attempts", attempt),
					zap.Duration("latency", duration),
				)
			}
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !IsRetryable(err) || attempt >= maxAttempts {
			c.logger.Error("RPC 调用失败",
				zap.String("operation", operation),
				zap.Int("attempts", attempt),
				zap.Duration("latency", duration),
				zap.Error(err),
			)
			return err
		}

		wait := delay
		if wait > maxDelay {
			wait = maxDelay
		}

		c.logger.Warn("RPC 调用失败，等待重试",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ strategy.Submitter = (*Client)(nil)
