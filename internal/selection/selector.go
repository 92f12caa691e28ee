// Package selection 實現選號狀態機。
// 純記憶體狀態，不做任何網絡操作，由購票工作流作為父級持有。
package selection

import (
	"sort"
	"sync"

	"naijalotto_client/internal/domain"
	"naijalotto_client/pkg/utils"
)

// Selector 管理一組有上限的彩票號碼選擇。
// 不變量：選擇恆為集合（無重複）、大小 ≤ maxNumbers、取值 ⊆ [1,30]。
type Selector struct {
	mutex      sync.Mutex
	selected   map[int]struct{}
	maxNumbers int
	disabled   bool
	rng        *utils.RandomGenerator
}

// Option 定義選號器配置選項
type Option func(*Selector)

// WithMaxNumbers 設置選號上限，非正值忽略
func WithMaxNumbers(max int) Option {
	return func(s *Selector) {
		if max > 0 {
			s.maxNumbers = max
		}
	}
}

// WithRandomGenerator 替換隨機數生成器，供需要可重現結果的測試使用
func WithRandomGenerator(rng *utils.RandomGenerator) Option {
	return func(s *Selector) {
		s.rng = rng
	}
}

// NewSelector 創建選號器，默認上限為 5 個號碼
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		selected:   make(map[int]struct{}),
		maxNumbers: domain.MaxSelectable,
		rng:        utils.GetRandomGenerator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle 切換一個號碼的選中狀態。
// 已選中則移除；未選中且未滿則加入；已滿時多餘的點擊靜默忽略，不排隊。
// 超出 [1,30] 的值一律忽略。禁用狀態下整個操作無效。
func (s *Selector) Toggle(n int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.disabled {
		return
	}
	if n < domain.NumberMin || n > domain.NumberMax {
		return
	}

	if _, ok := s.selected[n]; ok {
		delete(s.selected, n)
		return
	}
	if len(s.selected) < s.maxNumbers {
		s.selected[n] = struct{}{}
	}
}

// QuickPick 用 maxNumbers 個互不相同的隨機號碼替換整個選擇，升序排列
func (s *Selector) QuickPick() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.disabled {
		return
	}

	numbers, err := s.rng.SampleDistinct(s.maxNumbers, domain.NumberMin, domain.NumberMax)
	if err != nil {
		// maxNumbers ≤ 30 時不可能發生
		return
	}

	s.selected = make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		s.selected[n] = struct{}{}
	}
}

// Clear 清空選擇
func (s *Selector) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.disabled {
		return
	}
	s.selected = make(map[int]struct{})
}

// Numbers 返回當前選擇的升序副本
func (s *Selector) Numbers() []int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	numbers := make([]int, 0, len(s.selected))
	for n := range s.selected {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Count 返回當前已選號碼數量
func (s *Selector) Count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.selected)
}

// Ready 判斷是否已選滿，選滿才允許進入購票流程
func (s *Selector) Ready() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.selected) == s.maxNumbers
}

// Contains 判斷指定號碼是否已選中
func (s *Selector) Contains(n int) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.selected[n]
	return ok
}

// SetDisabled 設置禁用狀態（開獎結束後選號整體禁用）
func (s *Selector) SetDisabled(disabled bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.disabled = disabled
}

// MaxNumbers 返回選號上限
func (s *Selector) MaxNumbers() int {
	return s.maxNumbers
}
