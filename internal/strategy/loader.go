package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	// ErrNoStrategies 表示策略文件中没有任何有效策略。
	ErrNoStrategies = errors.New("strategy: no valid strategies")
	// ErrUnknownStrategy 表示按名称查找策略失败。
	ErrUnknownStrategy = errors.New("strategy: unknown strategy")
)

// Loader 负责从 JSON 文件解析策略集合，只做结构校验，
// 跨字段的业务规则由订单解析器负责。
type Loader struct {
	logger *zap.Logger
}

// NewLoader 创建策略加载器。
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile 读取一个策略文件。文件是名称到策略的 JSON 映射，
// 不含 orders 的条目会被跳过并记录告警。
func (l *Loader) LoadFile(path string) (map[string]*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取策略文件 %q 失败: %w", path, err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("解析策略文件 %q 失败: %w", path, err)
	}

	strategies := make(map[string]*Strategy)
	for key, raw := range entries {
		var s Strategy
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("解析策略 %q 失败: %w", key, err)
		}
		if len(s.Orders) == 0 {
			l.logger.Warn("策略条目缺少订单列表，已跳过", zap.String("strategy", key))
			continue
		}
		s.Key = key
		if s.Name == "" {
			s.Name = key
		}
		if err := validateShape(&s); err != nil {
			return nil, fmt.Errorf("策略 %q 结构校验失败: %w", key, err)
		}
		strategies[key] = &s
	}

	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoStrategies, path)
	}

	l.logger.Info("策略文件加载完成",
		zap.String("path", path),
		zap.Int("strategies", len(strategies)),
	)
	return strategies, nil
}

// Select 按名称取出策略，name 为空时要求文件中只有一个策略。
func Select(strategies map[string]*Strategy, name string) (*Strategy, error) {
	if name == "" {
		if len(strategies) == 1 {
			for _, s := range strategies {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: 未指定策略名且文件包含多个策略", ErrUnknownStrategy)
	}

	s, ok := strategies[name]
	if !ok {
		available := make([]string, 0, len(strategies))
		for key := range strategies {
			available = append(available, key)
		}
		return nil, fmt.Errorf("%w: %q, 可用: %v", ErrUnknownStrategy, name, available)
	}
	return s, nil
}

func validateShape(s *Strategy) error {
	for i, o := range s.Orders {
		if o.Action == "" {
			return fmt.Errorf("订单 #%d 缺少 action", i+1)
		}
		if o.Pair == "" {
			return fmt.Errorf("订单 #%d 缺少 pair", i+1)
		}
		if o.Wallet == "" {
			return fmt.Errorf("订单 #%d 缺少 wallet", i+1)
		}
	}
	return nil
}
