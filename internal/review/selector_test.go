package review

import (
	"reflect"
	"testing"
	"time"
)

func candidateIDs(candidates []Candidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSelectForReviewPriorityTiers(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{ID: "high-accuracy", Correct: 9, Incorrect: 1, DaysUntilNext: 5, CreatedAt: base},
		{ID: "never-practiced", Correct: 0, Incorrect: 0, DaysUntilNext: 300, CreatedAt: base},
		{ID: "low-accuracy", Correct: 1, Incorrect: 9, DaysUntilNext: 100, CreatedAt: base},
	}

	got := candidateIDs(SelectForReview(candidates, 3))
	want := []string{"never-practiced", "low-accuracy", "high-accuracy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectForReview order = %v, want %v", got, want)
	}
}

func TestSelectForReviewTieBreaks(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 1, 0)

	// 正确率相同，先按天数，再按创建时间，最后按ID
	candidates := []Candidate{
		{ID: "b", Correct: 1, Incorrect: 1, DaysUntilNext: 10, CreatedAt: early},
		{ID: "a", Correct: 2, Incorrect: 2, DaysUntilNext: 10, CreatedAt: early},
		{ID: "soon", Correct: 3, Incorrect: 3, DaysUntilNext: 2, CreatedAt: late},
		{ID: "old", Correct: 1, Incorrect: 1, DaysUntilNext: 10, CreatedAt: late},
	}

	got := candidateIDs(SelectForReview(candidates, 4))
	want := []string{"soon", "a", "b", "old"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectForReview order = %v, want %v", got, want)
	}
}

func TestSelectForReviewDeterministic(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{ID: "x", Correct: 0, Incorrect: 0, DaysUntilNext: 40, CreatedAt: base},
		{ID: "y", Correct: 4, Incorrect: 6, DaysUntilNext: 12, CreatedAt: base},
		{ID: "z", Correct: 6, Incorrect: 4, DaysUntilNext: 1, CreatedAt: base},
	}

	first := candidateIDs(SelectForReview(candidates, 2))
	for i := 0; i < 10; i++ {
		again := candidateIDs(SelectForReview(candidates, 2))
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("同一输入产生了不同顺序: %v vs %v", first, again)
		}
	}
}

func TestSelectForReviewLimits(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{ID: "a", DaysUntilNext: 1, CreatedAt: base},
		{ID: "b", DaysUntilNext: 2, CreatedAt: base},
	}

	if got := SelectForReview(candidates, 10); len(got) != 2 {
		t.Errorf("n超过候选数时返回 %d 条, want 2", len(got))
	}
	if got := SelectForReview(candidates, 1); len(got) != 1 {
		t.Errorf("n=1时返回 %d 条, want 1", len(got))
	}
	if got := SelectForReview(nil, 5); len(got) != 0 {
		t.Errorf("空候选集返回 %d 条, want 0", len(got))
	}
	if got := SelectForReview(candidates, 0); len(got) != 0 {
		t.Errorf("n=0时返回 %d 条, want 0", len(got))
	}

	// 输入切片不能被重排
	if candidates[0].ID != "a" || candidates[1].ID != "b" {
		t.Error("SelectForReview修改了输入切片")
	}
}
