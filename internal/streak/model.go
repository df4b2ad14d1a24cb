package streak

import (
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"gorm.io/gorm"
)

// Mode 定义了一次答题所属的练习模式
type Mode string

const (
	ModeFlashcard     Mode = "flashcard"
	ModeQuestionOfDay Mode = "questionOfDay"
)

// ParseMode 将字符串解析为练习模式，未知取值返回校验错误
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFlashcard, ModeQuestionOfDay:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: 未知的练习模式 %q", apperror.ErrValidation, s)
}

// StreakRecord 定义了数据库中每个用户连胜状态的数据结构。
// 日期以 "2006-01-02" 格式的字符串存储，空串表示从未练习。
type StreakRecord struct {
	gorm.Model

	// UserID 是所属用户的UUID，每个用户只有一行
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	// --- 闪卡模式：逐题连胜 ---
	FlashcardCurrentStreak int    `json:"flashcard_current_streak"`
	FlashcardAllTimeHigh   int    `json:"flashcard_all_time_high"`
	LastFlashcardDate      string `gorm:"type:varchar(10)" json:"last_flashcard_date"`

	// --- 每日一题模式：逐日连胜，每天只计一次 ---
	QuestionOfDayStreak     int    `json:"question_of_day_streak"`
	QuestionOfDayBestStreak int    `json:"question_of_day_best_streak"`
	LastQodDate             string `gorm:"type:varchar(10)" json:"last_qod_date"`
}

// State 定义了在Redis streak:state Hash中存储的连胜状态
type State struct {
	FlashcardCurrent  int    `json:"fc"`
	FlashcardHigh     int    `json:"fh"`
	LastFlashcardDate string `json:"fd"`
	QodStreak         int    `json:"qs"`
	QodBest           int    `json:"qb"`
	LastQodDate       string `json:"qd"`
}

func stateFromRecord(rec StreakRecord) State {
	return State{
		FlashcardCurrent:  rec.FlashcardCurrentStreak,
		FlashcardHigh:     rec.FlashcardAllTimeHigh,
		LastFlashcardDate: rec.LastFlashcardDate,
		QodStreak:         rec.QuestionOfDayStreak,
		QodBest:           rec.QuestionOfDayBestStreak,
		LastQodDate:       rec.LastQodDate,
	}
}
