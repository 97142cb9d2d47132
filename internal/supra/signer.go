package supra

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
)

// Signer 负责对交易负载签名。密钥材料只在签名器内部使用，
// 不会回流到核心逻辑或日志。
type Signer interface {
	Sign(wallet profile.Wallet, payload EntryFunctionPayload) (Signature, error)
}

// Signature 是签名结果，十六进制编码。
type Signature struct {
	PublicKey string `json:"public_key"`
	Value     string `json:"value"`
}

// Ed25519Signer 使用钱包私钥（hex 编码的 ed25519 种子）对负载的
// 规范化 JSON 序列化结果签名。
type Ed25519Signer struct{}

// NewEd25519Signer 创建默认签名器。
func NewEd25519Signer() *Ed25519Signer {
	return &Ed25519Signer{}
}

// Sign 实现 Signer。
func (s *Ed25519Signer) Sign(wallet profile.Wallet, payload EntryFunctionPayload) (Signature, error) {
	seedHex := strings.TrimPrefix(wallet.PrivateKey, "0x")
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return Signature{}, fmt.Errorf("解析钱包 %q 私钥失败: %w", wallet.Name, err)
	}
	if len(seed) != ed25519.SeedSize {
		return Signature{}, fmt.Errorf("钱包 %q 私钥长度无效: 需要 %d 字节", wallet.Name, ed25519.SeedSize)
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return Signature{}, fmt.Errorf("序列化交易负载失败: %w", err)
	}

	key := ed25519.NewKeyFromSeed(seed)
	sig := ed25519.Sign(key, message)

	return Signature{
		PublicKey: hex.EncodeToString(key.Public().(ed25519.PublicKey)),
		Value:     hex.EncodeToString(sig),
	}, nil
}
