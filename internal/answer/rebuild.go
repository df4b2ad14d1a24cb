package answer

import (
	"encoding/json"
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/platform/metadata"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
)

// RebuildAndApplyAnswers 在缓存预热完成后，重放快照之后发生的答题日志。
// SQLite快照只覆盖到上一次备份，之后的计数和连胜变化都记录在answers
// 表中，按ID升序逐条重新走一遍状态机即可恢复到崩溃前的缓存状态。
//
// 调用方必须已持有memory和streak两个模块的写锁。
func RebuildAndApplyAnswers() error {
	lastID, err := metadata.GetLastSnapshotAnswerID(database.DB)
	if err != nil {
		return fmt.Errorf("无法读取上次快照的答题ID: %w", err)
	}

	statsByMemory := make(map[string]memory.MemoryStats)
	stateByUser := make(map[string]streak.State)
	processed := 0

	const batchSize = 500
	cursor := lastID
	for {
		var batch []Answer
		err := database.DB.Where("id > ?", cursor).Order("id ASC").Limit(batchSize).Find(&batch).Error
		if err != nil {
			return fmt.Errorf("无法读取答题日志: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, ans := range batch {
			// 惰性地从预热后的缓存取出快照基线
			stats, ok := statsByMemory[ans.MemoryID]
			if !ok {
				stats, err = memory.GetStats(ans.MemoryID)
				if err != nil {
					return err
				}
			}
			state, ok := stateByUser[ans.UserID]
			if !ok {
				state, err = streak.GetCachedState(ans.UserID)
				if err != nil {
					return err
				}
			}

			mode, err := streak.ParseMode(ans.Mode)
			if err != nil {
				return fmt.Errorf("答题日志 %d 含有非法模式: %w", ans.ID, err)
			}
			newState, counted := streak.Apply(state, mode, ans.Correct, streak.DateOf(ans.CreatedAt))
			if counted {
				if ans.Correct {
					stats.Correct++
				} else {
					stats.Incorrect++
				}
			}

			statsByMemory[ans.MemoryID] = stats
			stateByUser[ans.UserID] = newState
			processed++
		}

		cursor = batch[len(batch)-1].ID
	}

	if processed == 0 {
		fmt.Println("快照之后没有新的答题日志需要重放。")
		return nil
	}

	// 重放结果一次性写回缓存，并标脏以便下次快照落盘
	pipe := database.RDB.Pipeline()
	for memoryID, stats := range statsByMemory {
		statsJSON, _ := json.Marshal(stats)
		pipe.HSet(database.Ctx, memory.StatsKey, memoryID, statsJSON)
		pipe.SAdd(database.Ctx, memory.DirtySetKey, memoryID)
	}
	for userID, state := range stateByUser {
		stateJSON, _ := json.Marshal(state)
		pipe.HSet(database.Ctx, streak.StateKey, userID, stateJSON)
		pipe.SAdd(database.Ctx, streak.DirtySetKey, userID)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("无法写回重放结果: %w", err)
	}

	fmt.Printf("成功重放 %d 条答题日志。\n", processed)
	return nil
}
