package utils

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// RandomGenerator 提供線程安全的隨機數生成
type RandomGenerator struct {
	rng  *rand.Rand
	lock sync.Mutex
}

var (
	defaultGenerator *RandomGenerator
	once             sync.Once
)

// GetRandomGenerator 返回預設的隨機數生成器實例
func GetRandomGenerator() *RandomGenerator {
	once.Do(func() {
		defaultGenerator = &RandomGenerator{
			rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		}
	})
	return defaultGenerator
}

// NewRandomGenerator 以指定種子創建生成器，供需要可重現結果的測試使用
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Intn 生成 [0,n) 範圍內的隨機整數
func (r *RandomGenerator) Intn(n int) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rng.Intn(n)
}

// RandRange 生成指定範圍內的隨機整數 [min,max]
func (r *RandomGenerator) RandRange(min, max int) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rng.Intn(max-min+1) + min
}

// SampleDistinct 從 [min,max] 中均勻抽取 k 個互不相同的整數，結果升序排列。
// 採用拒絕採樣：抽到重複值時重抽，直到湊滿 k 個。
func (r *RandomGenerator) SampleDistinct(k, min, max int) ([]int, error) {
	if max < min {
		return nil, fmt.Errorf("invalid range [%d,%d]", min, max)
	}
	if k > max-min+1 {
		return nil, fmt.Errorf("cannot sample %d distinct values from [%d,%d]", k, min, max)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	seen := make(map[int]struct{}, k)
	result := make([]int, 0, k)
	for len(result) < k {
		n := r.rng.Intn(max-min+1) + min
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}

	sort.Ints(result)
	return result, nil
}
