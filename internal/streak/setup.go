package streak

import (
	"encoding/json"
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
)

func migrateDB() error {
	if err := database.DB.AutoMigrate(&StreakRecord{}); err != nil {
		return fmt.Errorf("无法迁移streak表: %w", err)
	}
	fmt.Println("Streak数据库表迁移成功。")
	return nil
}

// WarmupCache 从SQLite加载全部连胜记录并预热到Redis
func WarmupCache() error {
	var rows []StreakRecord
	if err := database.DB.Find(&rows).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取连胜记录: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, StateKey)
	pipe.Del(database.Ctx, DirtySetKey)
	for _, row := range rows {
		stateJSON, _ := json.Marshal(stateFromRecord(row))
		pipe.HSet(database.Ctx, StateKey, row.UserID, stateJSON)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热连胜缓存到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 条连胜记录到Redis。\n", len(rows))
	return nil
}

// PrimeCachedDB 是streak模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
