package memory

import (
	"encoding/json"
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Memory{}); err != nil {
		return fmt.Errorf("无法迁移memory表: %w", err)
	}
	fmt.Println("Memory数据库表迁移成功。")
	return nil
}

// WarmupCache 从SQLite加载全部纪念日记录，并预热到Redis。
// 旧的缓存键会先被清空，确保数据一致性。
func WarmupCache() error {
	var rows []Memory
	if err := database.DB.Find(&rows).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取纪念日记录: %w", err)
	}

	// 收集所有出现过的用户，以便清空各自的所有权索引
	owners := make(map[string]bool)
	for _, row := range rows {
		owners[row.OwnerID] = true
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, InfoKey)
	pipe.Del(database.Ctx, StatsKey)
	pipe.Del(database.Ctx, DirtySetKey)
	for ownerID := range owners {
		pipe.Del(database.Ctx, OwnerKey(ownerID))
	}

	for _, row := range rows {
		info := MemoryInfo{
			Name:        row.Name,
			DisplayName: row.DisplayName,
			Category:    row.Category,
			Month:       row.Month,
			Day:         row.Day,
			OwnerID:     row.OwnerID,
			CreatedAt:   row.CreatedAt,
		}
		infoJSON, _ := json.Marshal(info)
		statsJSON, _ := json.Marshal(MemoryStats{Correct: row.CorrectCount, Incorrect: row.IncorrectCount})
		pipe.HSet(database.Ctx, InfoKey, row.MemoryID, infoJSON)
		pipe.HSet(database.Ctx, StatsKey, row.MemoryID, statsJSON)
		pipe.SAdd(database.Ctx, OwnerKey(row.OwnerID), row.MemoryID)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热纪念日缓存到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 条纪念日记录到Redis。\n", len(rows))
	return nil
}

// PrimeCachedDB 是memory模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
