package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrUnknownNetwork 表示请求的网络未在 network.json 中定义。
	ErrUnknownNetwork = errors.New("profile: unknown network")
	// ErrUnknownPair 表示请求的交易对未在 pairs.json 中定义。
	ErrUnknownPair = errors.New("profile: unknown pair")
	// ErrUnknownWallet 表示请求的钱包未在 wallets.json 中定义。
	ErrUnknownWallet = errors.New("profile: unknown wallet")
	// ErrPairUnavailable 表示交易对在目标网络未开放。
	ErrPairUnavailable = errors.New("profile: pair unavailable on network")
)

// Store 持有网络、交易对与钱包配置，加载完成后只读，可在多个并发运行间共享。
type Store struct {
	networks map[string]Network
	pairs    map[string]Pair
	wallets  map[string]Wallet
	logger   *zap.Logger
}

// Paths 指定三类配置文件的位置。
type Paths struct {
	Network string
	Pairs   string
	Wallets string
}

// DefaultPaths 返回配置目录下的默认文件布局。
func DefaultPaths(dir string) Paths {
	return Paths{
		Network: filepath.Join(dir, "network.json"),
		Pairs:   filepath.Join(dir, "pairs.json"),
		Wallets: filepath.Join(dir, "wallets.json"),
	}
}

// Load 读取并校验全部配置文件。配置文件是名称到对象的 JSON 映射，
// 键名区分大小写（例如 "ETH_USD"），因此这里直接用 encoding/json 解析。
func Load(paths Paths, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	networks := make(map[string]Network)
	if err := loadJSONMap(paths.Network, &networks); err != nil {
		return nil, fmt.Errorf("加载网络配置失败: %w", err)
	}
	pairs := make(map[string]Pair)
	if err := loadJSONMap(paths.Pairs, &pairs); err != nil {
		return nil, fmt.Errorf("加载交易对配置失败: %w", err)
	}
	wallets := make(map[string]Wallet)
	if err := loadJSONMap(paths.Wallets, &wallets); err != nil {
		return nil, fmt.Errorf("加载钱包配置失败: %w", err)
	}

	for name, n := range networks {
		n.Name = name
		networks[name] = n
	}
	for name, p := range pairs {
		p.Name = name
		pairs[name] = p
	}
	for name, w := range wallets {
		w.Name = name
		wallets[name] = w
	}

	s := &Store{
		networks: networks,
		pairs:    pairs,
		wallets:  wallets,
		logger:   logger,
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	logger.Info("配置档案加载完成",
		zap.Int("networks", len(networks)),
		zap.Int("pairs", len(pairs)),
		zap.Int("wallets", len(wallets)),
	)

	return s, nil
}

// Network 按名称查找网络配置。
func (s *Store) Network(name string) (Network, error) {
	n, ok := s.networks[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return n, nil
}

// Pair 按名称查找交易对，并校验其在目标网络是否开放。
func (s *Store) Pair(name, network string) (Pair, error) {
	p, ok := s.pairs[name]
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrUnknownPair, name)
	}
	if !p.AvailableOn(network) {
		return Pair{}, fmt.Errorf("%w: %s on %s", ErrPairUnavailable, name, network)
	}
	return p, nil
}

// Wallet 按名称查找钱包。
func (s *Store) Wallet(name string) (Wallet, error) {
	w, ok := s.wallets[name]
	if !ok {
		return Wallet{}, fmt.Errorf("%w: %q", ErrUnknownWallet, name)
	}
	return w, nil
}

// Wallets 返回全部钱包名称，供启动前的资金检查遍历。
func (s *Store) Wallets() []string {
	names := make([]string, 0, len(s.wallets))
	for name := range s.wallets {
		names = append(names, name)
	}
	return names
}

func (s *Store) validate() error {
	var err error

	for name, n := range s.networks {
		if n.ContractAddress == "" {
			err = multierr.Append(err, fmt.Errorf("network %s: contract_address 不能为空", name))
		}
		if n.CollateralToken == "" {
			err = multierr.Append(err, fmt.Errorf("network %s: collateral_token 不能为空", name))
		}
		if n.SizeDecimals <= 0 || n.CollateralDecimals <= 0 || n.PriceDecimals <= 0 {
			err = multierr.Append(err, fmt.Errorf("network %s: 精度必须为正整数", name))
		}
	}

	for name, p := range s.pairs {
		if p.TypeArg == "" {
			err = multierr.Append(err, fmt.Errorf("pair %s: type_arg 不能为空", name))
		}
		if p.MinSizeUSD > p.DefaultSizeUSD || p.DefaultSizeUSD > p.MaxSizeUSD {
			err = multierr.Append(err, fmt.Errorf("pair %s: 需满足 min_size_usd <= default_size_usd <= max_size_usd", name))
		}
	}

	for name, w := range s.wallets {
		if w.Address == "" {
			err = multierr.Append(err, fmt.Errorf("wallet %s: address 不能为空", name))
		}
		if w.PrivateKey == "" {
			err = multierr.Append(err, fmt.Errorf("wallet %s: private_key 未配置", name))
		}
	}

	if err != nil {
		return fmt.Errorf("配置档案校验失败: %w", err)
	}
	return nil
}

func loadJSONMap(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取 %q 失败: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("解析 %q 失败: %w", path, err)
	}
	return nil
}
