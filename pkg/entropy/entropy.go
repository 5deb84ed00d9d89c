package entropy

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Source yields the per-transition entropy mixed into draw seeds. It stands
// in for block-level entropy: the settlement core treats it as an external
// collaborator and never tests against a live source.
type Source interface {
	Entropy() ([]byte, error)
}

// Reader 是一个全局共享的加密安全随机数生成器实例。
// 默认为 crypto/rand.Reader。
var Reader io.Reader = rand.Reader

// CryptoSource 使用系统的安全随机数生成器。
type CryptoSource struct{}

func (CryptoSource) Entropy() ([]byte, error) {
	b := make([]byte, 32)
	_, err := io.ReadFull(Reader, b)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// FixedSource returns the same entropy every time. Test helper.
type FixedSource []byte

func (f FixedSource) Entropy() ([]byte, error) {
	return []byte(f), nil
}
