package backup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/answer"
	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/config"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/platform/metadata"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
	"github.com/Qiuarctica/memodate-backend/pkg/lifecycle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var backupMutex sync.Mutex // 避免意外竞态

// StartBackupScheduler 启动一个后台Goroutine来定期执行数据库快照。
// 它接收一个lifecycle.Handle来管理其生命周期。
func StartBackupScheduler(handle *lifecycle.Handle) {
	defer handle.Close()
	interval := time.Duration(config.Cfg.Backup.IntervalMinutes) * time.Minute
	fmt.Println("数据快照调度器已启动。")

	for {
		// 使用可中断的休眠来代替ticker，
		// 收到停机信号时循环可以立刻从休眠中唤醒并退出。
		if err := handle.Sleep(interval); err != nil {
			fmt.Println("快照调度器: 休眠被中断，正在关闭...")
			return
		}

		if !database.IsRedisHealthy() {
			fmt.Println("快照调度器: 检测到Redis不可用，跳过本次快照。")
			continue
		}

		fmt.Println("快照调度器: 正在执行定时快照...")
		if err := CreateConsistentSnapshotInDB(handle.Ctx()); err != nil {
			if err != context.Canceled && err != context.DeadlineExceeded {
				fmt.Printf("快照调度器错误: 执行快照失败: %v\n", err)
			}
		} else {
			fmt.Println("快照调度器: 快照成功。")
		}
	}
}

// CreateConsistentSnapshotInDB 执行一次原子的、一致的增量快照。
//
// 在持有memory和streak两个模块写锁的窗口内，读取快照水位线
// （answers表的最大ID）并消费两个脏集合，之后锁外将脏数据落盘。
// 落盘失败时脏集合会被合并恢复，等待下一次快照重试。
func CreateConsistentSnapshotInDB(ctx context.Context) (err error) {
	backupMutex.Lock()
	defer backupMutex.Unlock()

	var lastAnswerID uint
	var dirtyMemoryIDs, dirtyUserIDs []string

	err = func() error {
		// 锁顺序与答题写路径保持一致：先memory后streak
		memory.LockRepository()
		defer memory.UnlockRepository()
		streak.LockState()
		defer streak.UnlockState()

		// 持锁期间不会有新答题落库，这个水位线与脏集合是一致的
		if err := database.DB.Model(&answer.Answer{}).Select("COALESCE(MAX(id), 0)").Scan(&lastAnswerID).Error; err != nil {
			return fmt.Errorf("无法读取答题水位线: %w", err)
		}

		pipe := database.RDB.TxPipeline()
		dirtyMemoryCmd := pipe.SMembers(database.Ctx, memory.DirtySetKey)
		dirtyUserCmd := pipe.SMembers(database.Ctx, streak.DirtySetKey)
		pipe.Del(database.Ctx, memory.DirtySetKey)
		pipe.Del(database.Ctx, streak.DirtySetKey)
		if _, err := pipe.Exec(database.Ctx); err != nil {
			return fmt.Errorf("无法原子地消费脏集合: %w", err)
		}
		dirtyMemoryIDs, _ = dirtyMemoryCmd.Result()
		dirtyUserIDs, _ = dirtyUserCmd.Result()
		return nil
	}()
	if err != nil {
		return err
	}

	// 落盘失败时把已消费的脏集合合并回去，下次快照重试
	defer func() {
		if err == nil {
			return
		}
		pipe := database.RDB.Pipeline()
		for _, id := range dirtyMemoryIDs {
			pipe.SAdd(database.Ctx, memory.DirtySetKey, id)
		}
		for _, id := range dirtyUserIDs {
			pipe.SAdd(database.Ctx, streak.DirtySetKey, id)
		}
		pipe.Exec(database.Ctx)
	}()

	lastSnapshotID, err := metadata.GetLastSnapshotAnswerID(database.DB)
	if err != nil {
		return fmt.Errorf("无法读取上次快照水位线: %w", err)
	}
	if lastAnswerID == lastSnapshotID && len(dirtyMemoryIDs) == 0 && len(dirtyUserIDs) == 0 {
		// 无需备份
		return nil
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return err
	default:
	}

	// 读取脏数据的当前缓存值。脏集合消费后这些键仍可能被继续更新，
	// 多落盘一次相同的值是无害的。
	memoryStats := make(map[string]memory.MemoryStats, len(dirtyMemoryIDs))
	for _, memoryID := range dirtyMemoryIDs {
		stats, statsErr := memory.GetStats(memoryID)
		if statsErr != nil {
			err = statsErr
			return err
		}
		memoryStats[memoryID] = stats
	}

	streakStates := make(map[string]streak.State, len(dirtyUserIDs))
	for _, userID := range dirtyUserIDs {
		state, stateErr := streak.GetCachedState(userID)
		if stateErr != nil {
			err = stateErr
			return err
		}
		streakStates[userID] = state
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return err
	default:
	}

	const maxRetry = 3
	for i := 0; i < maxRetry; i++ {
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			// 计数用Update而不是Upsert，已删除的记录不能被快照复活
			for memoryID, stats := range memoryStats {
				updateErr := tx.Model(&memory.Memory{}).
					Where("memory_id = ?", memoryID).
					Updates(map[string]interface{}{
						"correct_count":   stats.Correct,
						"incorrect_count": stats.Incorrect,
					}).Error
				if updateErr != nil {
					return fmt.Errorf("持久化记录 %s 的计数失败: %w", memoryID, updateErr)
				}
			}

			for userID, state := range streakStates {
				record := streak.StreakRecord{
					UserID:                  userID,
					FlashcardCurrentStreak:  state.FlashcardCurrent,
					FlashcardAllTimeHigh:    state.FlashcardHigh,
					LastFlashcardDate:       state.LastFlashcardDate,
					QuestionOfDayStreak:     state.QodStreak,
					QuestionOfDayBestStreak: state.QodBest,
					LastQodDate:             state.LastQodDate,
				}
				upsertErr := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "user_id"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"flashcard_current_streak", "flashcard_all_time_high", "last_flashcard_date",
						"question_of_day_streak", "question_of_day_best_streak", "last_qod_date",
						"updated_at",
					}),
				}).Create(&record).Error
				if upsertErr != nil {
					return fmt.Errorf("持久化用户 %s 的连胜状态失败: %w", userID, upsertErr)
				}
			}

			if metaErr := metadata.SetLastSnapshotAnswerID(tx, lastAnswerID); metaErr != nil {
				return fmt.Errorf("更新快照水位线失败: %w", metaErr)
			}
			return nil
		})

		if err == nil || !database.IsRetryableError(err) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	return err
}
