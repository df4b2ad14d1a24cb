package answer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
	"github.com/Qiuarctica/memodate-backend/pkg/token"
)

// AnswerResult 是一次答题处理的结果。
// Counted为false说明这次作答是每日一题的当日重复提交，
// 所有计数均保持原样。
type AnswerResult struct {
	Counted bool
	Correct bool
	Stats   memory.MemoryStats
	Streak  streak.StreakDTO
}

// ProcessAnswer 处理一次答题提交，是整个复习闭环的核心写路径。
//
// 执行顺序：所有权检查、重放防御、连胜状态机、计数更新。
// SQLite事务先行写入重放记录和答题日志，Redis缓存随后更新，
// 缓存写入失败时回滚整个SQLite事务，两边要么都成功要么都不发生。
func ProcessAnswer(userID string, payload token.QuestionPayload, correct bool) (*AnswerResult, error) {
	mode, err := streak.ParseMode(payload.Mode)
	if err != nil {
		return nil, err
	}
	if !database.IsRedisHealthy() {
		return nil, fmt.Errorf("%w: 缓存暂不可用", apperror.ErrUnavailable)
	}

	// 所有权检查在持久化边界强制执行，不依赖前端自觉
	owned, err := memory.IsOwnedBy(payload.MemoryID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, fmt.Errorf("记录 %s: %w", payload.MemoryID, apperror.ErrNotFound)
	}

	// 重放防御快速路径
	used, err := IsQuestionUsed(payload.QuestionID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, fmt.Errorf("%w: 这道题已经提交过答案", apperror.ErrConflict)
	}

	// 锁顺序固定为先memory后streak，快照流程遵循同样的顺序
	memory.LockRepository()
	defer memory.UnlockRepository()
	streak.LockState()
	defer streak.UnlockState()

	stats, err := memory.GetStats(payload.MemoryID)
	if err != nil {
		return nil, err
	}
	state, err := streak.GetCachedState(userID)
	if err != nil {
		return nil, err
	}

	day := streak.DateOf(time.Now())
	newState, counted := streak.Apply(state, mode, correct, day)

	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 题目ID无论是否计入都会被消费，SQLite唯一索引兜底并发重放
	if err := tx.Create(&UsedQuestionID{QuestionID: payload.QuestionID}).Error; err != nil {
		tx.Rollback()
		if database.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: 这道题已经提交过答案", apperror.ErrConflict)
		}
		return nil, fmt.Errorf("无法记录题目ID: %w", err)
	}

	if counted {
		if correct {
			stats.Correct++
		} else {
			stats.Incorrect++
		}
		// 答题日志是快照之后恢复缓存时的重放来源
		record := Answer{
			QuestionID: payload.QuestionID,
			UserID:     userID,
			MemoryID:   payload.MemoryID,
			Mode:       string(mode),
			Correct:    correct,
		}
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("无法写入答题日志: %w", err)
		}
	}

	pipe := database.RDB.TxPipeline()
	pipe.SAdd(database.Ctx, UsedSetKey, payload.QuestionID)
	if counted {
		statsJSON, _ := json.Marshal(stats)
		stateJSON, _ := json.Marshal(newState)
		pipe.HSet(database.Ctx, memory.StatsKey, payload.MemoryID, statsJSON)
		pipe.SAdd(database.Ctx, memory.DirtySetKey, payload.MemoryID)
		pipe.HSet(database.Ctx, streak.StateKey, userID, stateJSON)
		pipe.SAdd(database.Ctx, streak.DirtySetKey, userID)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("无法更新Redis缓存: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("无法提交答题事务: %w", err)
	}

	return &AnswerResult{
		Counted: counted,
		Correct: correct,
		Stats:   stats,
		Streak:  streak.Format(newState),
	}, nil
}
