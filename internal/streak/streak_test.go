package streak

import "testing"

func TestApplyFlashcard(t *testing.T) {
	state := State{}
	day := "2026-03-10"

	// 连续答对三次
	for i := 1; i <= 3; i++ {
		var counted bool
		state, counted = Apply(state, ModeFlashcard, true, day)
		if !counted {
			t.Fatalf("第%d次闪卡作答未被计入", i)
		}
		if state.FlashcardCurrent != i {
			t.Fatalf("第%d次答对后 FlashcardCurrent = %d, want %d", i, state.FlashcardCurrent, i)
		}
		if state.FlashcardHigh != i {
			t.Fatalf("第%d次答对后 FlashcardHigh = %d, want %d", i, state.FlashcardHigh, i)
		}
	}

	// 答错清零当前连胜，历史最高保持不变
	state, counted := Apply(state, ModeFlashcard, false, day)
	if !counted {
		t.Fatal("闪卡答错未被计入")
	}
	if state.FlashcardCurrent != 0 {
		t.Errorf("答错后 FlashcardCurrent = %d, want 0", state.FlashcardCurrent)
	}
	if state.FlashcardHigh != 3 {
		t.Errorf("答错后 FlashcardHigh = %d, want 3", state.FlashcardHigh)
	}

	// 再次答对从1重新开始，不会超过历史最高
	state, _ = Apply(state, ModeFlashcard, true, day)
	if state.FlashcardCurrent != 1 || state.FlashcardHigh != 3 {
		t.Errorf("重新答对后 current=%d high=%d, want 1/3", state.FlashcardCurrent, state.FlashcardHigh)
	}
	if state.LastFlashcardDate != day {
		t.Errorf("LastFlashcardDate = %q, want %q", state.LastFlashcardDate, day)
	}
}

func TestApplyQuestionOfDayOncePerDay(t *testing.T) {
	state := State{}

	state, counted := Apply(state, ModeQuestionOfDay, true, "2026-03-10")
	if !counted || state.QodStreak != 1 {
		t.Fatalf("首次作答 counted=%v streak=%d, want true/1", counted, state.QodStreak)
	}

	// 同一天的第二次作答不计入，状态不变
	before := state
	state, counted = Apply(state, ModeQuestionOfDay, false, "2026-03-10")
	if counted {
		t.Error("同一天的第二次作答被计入了")
	}
	if state != before {
		t.Errorf("同一天重复作答改变了状态: %+v -> %+v", before, state)
	}
}

func TestApplyQuestionOfDayAcrossDays(t *testing.T) {
	state := State{}

	// 连续三天答对
	days := []string{"2026-02-27", "2026-02-28", "2026-03-01"}
	for i, day := range days {
		state, _ = Apply(state, ModeQuestionOfDay, true, day)
		if state.QodStreak != i+1 {
			t.Fatalf("第%d天后 QodStreak = %d, want %d", i+1, state.QodStreak, i+1)
		}
	}
	if state.QodBest != 3 {
		t.Errorf("QodBest = %d, want 3", state.QodBest)
	}

	// 隔了一天再答对，连续答对的计数继续增长
	state, _ = Apply(state, ModeQuestionOfDay, true, "2026-03-03")
	if state.QodStreak != 4 {
		t.Errorf("间断后 QodStreak = %d, want 4", state.QodStreak)
	}
	if state.QodBest != 4 {
		t.Errorf("间断后 QodBest = %d, want 4", state.QodBest)
	}

	// 次日答错清零
	state, _ = Apply(state, ModeQuestionOfDay, false, "2026-03-04")
	if state.QodStreak != 0 {
		t.Errorf("答错后 QodStreak = %d, want 0", state.QodStreak)
	}
	if state.LastQodDate != "2026-03-04" {
		t.Errorf("LastQodDate = %q, want 2026-03-04", state.LastQodDate)
	}
}

func TestApplyModesIndependent(t *testing.T) {
	state := State{}
	state, _ = Apply(state, ModeFlashcard, true, "2026-03-10")
	state, _ = Apply(state, ModeQuestionOfDay, true, "2026-03-10")
	state, _ = Apply(state, ModeFlashcard, false, "2026-03-10")

	if state.QodStreak != 1 {
		t.Errorf("闪卡答错影响了每日一题连胜: QodStreak = %d, want 1", state.QodStreak)
	}
	if state.FlashcardCurrent != 0 {
		t.Errorf("FlashcardCurrent = %d, want 0", state.FlashcardCurrent)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("flashcard"); err != nil {
		t.Errorf("ParseMode(flashcard) err = %v", err)
	}
	if _, err := ParseMode("questionOfDay"); err != nil {
		t.Errorf("ParseMode(questionOfDay) err = %v", err)
	}
	for _, bad := range []string{"", "quiz", "Flashcard"} {
		if _, err := ParseMode(bad); err == nil {
			t.Errorf("ParseMode(%q) = nil error, want error", bad)
		}
	}
}
