package streak

import (
	"errors"
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"gorm.io/gorm"
)

// StreakDTO 是连胜状态对外的服务层视图
type StreakDTO struct {
	FlashcardCurrentStreak  int    `json:"flashcardCurrentStreak"`
	FlashcardAllTimeHigh    int    `json:"flashcardAllTimeHigh"`
	QuestionOfDayStreak     int    `json:"questionOfDayStreak"`
	QuestionOfDayBestStreak int    `json:"questionOfDayBestStreak"`
	LastFlashcardDate       string `json:"lastFlashcardDate"`
	LastQuestionOfDayDate   string `json:"lastQuestionOfDayDate"`
}

// Format 将内部状态转换为服务层视图
func Format(state State) StreakDTO {
	return StreakDTO{
		FlashcardCurrentStreak:  state.FlashcardCurrent,
		FlashcardAllTimeHigh:    state.FlashcardHigh,
		QuestionOfDayStreak:     state.QodStreak,
		QuestionOfDayBestStreak: state.QodBest,
		LastFlashcardDate:       state.LastFlashcardDate,
		LastQuestionOfDayDate:   state.LastQodDate,
	}
}

// GetState 返回指定用户的连胜状态。
// Redis健康时从缓存读取，降级状态下回落到SQLite快照，
// 此时数值可能落后于缓存最多一个快照周期。
func GetState(userID string) (*StreakDTO, error) {
	if !database.IsRedisHealthy() {
		return getFromSQLite(userID)
	}

	RLockState()
	defer RUnlockState()

	state, err := GetCachedState(userID)
	if err != nil {
		return nil, err
	}
	dto := Format(state)
	return &dto, nil
}

func getFromSQLite(userID string) (*StreakDTO, error) {
	var rec StreakRecord
	err := database.DB.Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		dto := Format(State{})
		return &dto, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite读取用户 %s 的连胜状态: %w", userID, err)
	}

	dto := Format(stateFromRecord(rec))
	return &dto, nil
}
