package review

import (
	"sort"
	"time"
)

// Candidate 是复习排序所需的最小视图
type Candidate struct {
	ID            string
	Correct       int
	Incorrect     int
	DaysUntilNext int
	CreatedAt     time.Time
}

// practiced 返回该条目是否被练习过
func (c Candidate) practiced() bool {
	return c.Correct+c.Incorrect > 0
}

// accuracy 返回观测正确率。只在practiced为真时有意义。
func (c Candidate) accuracy() float64 {
	return float64(c.Correct) / float64(c.Correct+c.Incorrect)
}

// SelectForReview 从候选集中选出最多n条需要复习的记录。
//
// 排序规则：从未练习过的条目优先级最高；其余按观测正确率升序，
// 正确率越低越靠前。平局依次按下一次发生天数、创建时间和ID打破，
// 因此相同输入总是产出相同顺序。
func SelectForReview(candidates []Candidate, n int) []Candidate {
	if n <= 0 {
		return []Candidate{}
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.practiced() != b.practiced() {
			return !a.practiced()
		}
		if a.practiced() && a.accuracy() != b.accuracy() {
			return a.accuracy() < b.accuracy()
		}
		if a.DaysUntilNext != b.DaysUntilNext {
			return a.DaysUntilNext < b.DaysUntilNext
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
