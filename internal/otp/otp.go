// Package otp はワンタイムパスワードの発行・検証を提供する。
// コードはメールアドレスをキーとしてメモリ上に保持し、TTL経過後は無効となる。
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// CodeDigits はコードの桁数。000000〜999999の一様分布で生成する。
const CodeDigits = 6

// Result は検証結果の分類。
type Result int

const (
	// Valid はコードが一致し、消費されたことを示す。
	Valid Result = iota
	// NotFound は対象メールアドレスのコードが存在しないことを示す。
	NotFound
	// Expired はコードがTTLを超過していたことを示す。期限切れコードは削除される。
	Expired
	// Mismatch はコードが一致しなかったことを示す。コードは保持され再試行可能。
	Mismatch
)

// String はResultのログ用表現を返す。
func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case NotFound:
		return "not_found"
	case Expired:
		return "expired"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Store はコードの発行と検証のインターフェース。
type Store interface {
	// Issue は新しいコードを発行する。同一メールアドレスの既存コードは上書きされる。
	Issue(ctx context.Context, email string) (string, error)
	// Validate はコードを検証する。一致時はコードを消費し、期限切れ時は削除する。
	// 不一致時はコードを保持する。
	Validate(ctx context.Context, email, code string) Result
}

type entry struct {
	code     string
	issuedAt time.Time
}

// MemoryStore はStoreのメモリ実装。単一のミューテックスで全操作を直列化する。
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Issue は新しい6桁コードを発行し、既存のコードを上書きする。
func (s *MemoryStore) Issue(_ context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	s.mu.Lock()
	s.entries[email] = entry{code: code, issuedAt: s.now()}
	s.mu.Unlock()

	return code, nil
}

// Validate はコードを検証する。検索・期限判定・比較・削除を
// 単一のクリティカルセクションで行う。
func (s *MemoryStore) Validate(_ context.Context, email, code string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return NotFound
	}
	// 発行からTTLちょうどの時刻まで有効。超過した瞬間から期限切れ。
	if s.now().Sub(e.issuedAt) > s.ttl {
		delete(s.entries, email)
		return Expired
	}
	if e.code != code {
		return Mismatch
	}
	delete(s.entries, email)
	return Valid
}

// StartSweeper は期限切れエントリを定期的に掃き出すゴルーチンを起動する。
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop はスイーパーを停止する。
func (s *MemoryStore) Stop() {
	close(s.done)
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for email, e := range s.entries {
		if now.Sub(e.issuedAt) > s.ttl {
			delete(s.entries, email)
		}
	}
}

// generateCode は000000〜999999の一様分布から6桁コードを生成する。
func generateCode() (string, error) {
	var b strings.Builder
	b.Grow(CodeDigits)

	max := big.NewInt(10)
	for i := 0; i < CodeDigits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

var _ Store = (*MemoryStore)(nil)
