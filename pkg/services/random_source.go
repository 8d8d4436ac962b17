package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// RandomSource は乱数の取得元です。テストでは固定列を差し込みます。
type RandomSource interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// lockedSource is a goroutine-safe math/rand source shared by handlers and the stream tick.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a RandomSource. seed == 0 means time-seeded.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomID draws an 8 character base-36 token. Uniqueness is best-effort.
func randomID(rng RandomSource) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = idAlphabet[rng.Intn(len(idAlphabet))]
	}
	return string(b)
}

// randomInRange returns a uniform integer in [lo, hi].
func randomInRange(rng RandomSource, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// pick returns a uniformly random element of items.
func pick(rng RandomSource, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.Intn(len(items))]
}

// round2 小数2桁に丸める
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
