package startup

import (
	"context"
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/answer"
	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/backup"
	"github.com/Qiuarctica/memodate-backend/internal/platform/metadata"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
	"github.com/Qiuarctica/memodate-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeCachedDB(); err != nil {
		return err
	}
	if err := user.PrimeCachedDB(); err != nil {
		return err
	}
	if err := memory.PrimeCachedDB(); err != nil {
		return err
	}
	if err := streak.PrimeCachedDB(); err != nil {
		return err
	}
	if err := answer.PrimeModule(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis缓存。
// Redis重启后缓存是空的，需要从SQLite快照恢复，
// 再重放快照之后的答题日志补齐差量。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	err := func() error {
		user.LockRepository()
		defer user.UnlockRepository()
		if err := user.WarmupCache(); err != nil {
			return err
		}

		memory.LockRepository()
		defer memory.UnlockRepository()
		if err := memory.WarmupCache(); err != nil {
			return err
		}

		streak.LockState()
		defer streak.UnlockState()
		if err := streak.WarmupCache(); err != nil {
			return err
		}

		if err := answer.RecoverReplayDefense(); err != nil {
			return err
		}
		if err := answer.RebuildAndApplyAnswers(); err != nil {
			return err
		}
		return nil
	}()
	if err != nil {
		return err
	}

	// 触发一次新的快照
	fmt.Println("缓存热重建完成，正在触发一次新的数据快照...")
	if err := backup.CreateConsistentSnapshotInDB(context.Background()); err != nil {
		fmt.Printf("警告: 缓存热重建后的快照创建失败: %v\n", err)
	} else {
		fmt.Println("快照创建成功！")
	}

	return nil
}
