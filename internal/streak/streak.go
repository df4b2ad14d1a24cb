package streak

import "time"

// DateOf 将一个时间点规整为 "2006-01-02" 格式的日期字符串。
// 连胜判定只关心日历日，不关心具体时刻。
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Apply 是连胜状态机的纯函数核心：给定当前状态、一次答题的模式与结果，
// 以及答题发生的日历日，返回新状态和这次答题是否被计入。
//
// 两种模式都统计连续答对的次数：答对时连胜加一并刷新历史最高，答错
// 清零。区别在于每日一题每天只有第一次作答有效，当天已答过时原状态
// 返回且counted为false。两种模式的计数互不影响。
func Apply(state State, mode Mode, correct bool, day string) (State, bool) {
	switch mode {
	case ModeFlashcard:
		if correct {
			state.FlashcardCurrent++
			if state.FlashcardCurrent > state.FlashcardHigh {
				state.FlashcardHigh = state.FlashcardCurrent
			}
		} else {
			state.FlashcardCurrent = 0
		}
		state.LastFlashcardDate = day
		return state, true

	case ModeQuestionOfDay:
		if state.LastQodDate == day {
			return state, false
		}
		if correct {
			state.QodStreak++
			if state.QodStreak > state.QodBest {
				state.QodBest = state.QodStreak
			}
		} else {
			state.QodStreak = 0
		}
		state.LastQodDate = day
		return state, true
	}

	return state, false
}
