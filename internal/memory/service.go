package memory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/pkg/recurrence"
	"github.com/google/uuid"
)

// --- Service-Level Data Transfer Objects (DTOs) ---

// MemoryDTO 包含了一条纪念日记录的完整视图，
// DaysUntilNext 在每次读取时重新计算，从不落盘。
type MemoryDTO struct {
	ID            string
	Info          MemoryInfo
	Stats         MemoryStats
	DaysUntilNext int
}

// Patch 定义了更新操作允许修改的字段，nil表示保持不变。
type Patch struct {
	Name     *string
	Category *string
	Month    *int
	Day      *int
}

// --- Service Functions ---

// ListMemories 返回指定用户的全部纪念日记录。
// 结果按下一次发生日期升序排列，平局时按创建时间和ID排序，顺序是确定的。
// Redis健康时从缓存读取，降级状态下回落到SQLite。
func ListMemories(userID string) ([]MemoryDTO, error) {
	if !database.IsRedisHealthy() {
		return listFromSQLite(userID)
	}

	RLockRepository()
	defer RUnlockRepository()

	// 1. 从所有权索引获取该用户的全部MemoryID
	memoryIDs, err := database.RDB.SMembers(database.Ctx, OwnerKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("无法从Redis获取用户记录索引: %w", err)
	}
	if len(memoryIDs) == 0 {
		return []MemoryDTO{}, nil
	}

	// 2. 使用Pipeline一次性获取所有记录的静态信息和计数
	pipe := database.RDB.Pipeline()
	infoCmd := pipe.HMGet(database.Ctx, InfoKey, memoryIDs...)
	statsCmd := pipe.HMGet(database.Ctx, StatsKey, memoryIDs...)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return nil, fmt.Errorf("执行Redis Pipeline失败: %w", err)
	}
	infoJSONs, _ := infoCmd.Result()
	statsJSONs, _ := statsCmd.Result()

	// 3. 组合成DTO列表
	now := time.Now()
	memories := make([]MemoryDTO, 0, len(memoryIDs))
	for i, id := range memoryIDs {
		if infoJSONs[i] == nil {
			continue // 索引和Hash短暂不一致时跳过，重建会修复
		}
		var info MemoryInfo
		var stats MemoryStats
		_ = json.Unmarshal([]byte(infoJSONs[i].(string)), &info)
		if statsJSONs[i] != nil {
			_ = json.Unmarshal([]byte(statsJSONs[i].(string)), &stats)
		}
		memories = append(memories, MemoryDTO{
			ID:            id,
			Info:          info,
			Stats:         stats,
			DaysUntilNext: recurrence.DaysUntilNext(info.Month, info.Day, now),
		})
	}

	sortMemories(memories)
	return memories, nil
}

// listFromSQLite 是降级路径，直接从数据库组装列表。
// 计数可能落后于缓存最多一个快照周期。
func listFromSQLite(userID string) ([]MemoryDTO, error) {
	var rows []Memory
	if err := database.DB.Where("owner_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite读取用户记录: %w", err)
	}

	now := time.Now()
	memories := make([]MemoryDTO, 0, len(rows))
	for _, row := range rows {
		memories = append(memories, MemoryDTO{
			ID: row.MemoryID,
			Info: MemoryInfo{
				Name:        row.Name,
				DisplayName: row.DisplayName,
				Category:    row.Category,
				Month:       row.Month,
				Day:         row.Day,
				OwnerID:     row.OwnerID,
				CreatedAt:   row.CreatedAt,
			},
			Stats:         MemoryStats{Correct: row.CorrectCount, Incorrect: row.IncorrectCount},
			DaysUntilNext: recurrence.DaysUntilNext(row.Month, row.Day, now),
		})
	}

	sortMemories(memories)
	return memories, nil
}

func sortMemories(memories []MemoryDTO) {
	sort.Slice(memories, func(i, j int) bool {
		if memories[i].DaysUntilNext != memories[j].DaysUntilNext {
			return memories[i].DaysUntilNext < memories[j].DaysUntilNext
		}
		if !memories[i].Info.CreatedAt.Equal(memories[j].Info.CreatedAt) {
			return memories[i].Info.CreatedAt.Before(memories[j].Info.CreatedAt)
		}
		return memories[i].ID < memories[j].ID
	})
}

// CreateMemory 校验草稿并创建一条新记录。
// SQLite先行写入，Redis缓存写入失败时回滚数据库事务，保证不出现幽灵记录。
func CreateMemory(userID string, draft Draft) (*MemoryDTO, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	if !database.IsRedisHealthy() {
		return nil, fmt.Errorf("%w: 缓存暂不可用", apperror.ErrUnavailable)
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	row := Memory{
		MemoryID:    newUUID.String(),
		OwnerID:     userID,
		Name:        draft.Name,
		DisplayName: DeriveDisplayName(draft.Name, Category(draft.Category)),
		Category:    Category(draft.Category),
		Month:       draft.Month,
		Day:         draft.Day,
	}

	LockRepository()
	defer UnlockRepository()

	// 开启一个SQLite事务
	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&row).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("无法在SQLite中创建记录: %w", err)
	}

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
	statsJSON, _ := json.Marshal(MemoryStats{})

	// 缓存写入失败时回滚SQLite，保证两边一致
	pipe := database.RDB.TxPipeline()
	pipe.HSet(database.Ctx, InfoKey, row.MemoryID, infoJSON)
	pipe.HSet(database.Ctx, StatsKey, row.MemoryID, statsJSON)
	pipe.SAdd(database.Ctx, OwnerKey(userID), row.MemoryID)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("无法将新记录写入Redis缓存: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("无法提交记录创建事务: %w", err)
	}

	return &MemoryDTO{
		ID:            row.MemoryID,
		Info:          info,
		Stats:         MemoryStats{},
		DaysUntilNext: recurrence.DaysUntilNext(row.Month, row.Day, time.Now()),
	}, nil
}

// UpdateMemory 合并补丁并更新一条记录。任一环节失败时集合保持原状。
// name或category变化时展示名会被重新推导；计数字段不受更新影响。
func UpdateMemory(userID, memoryID string, patch Patch) (*MemoryDTO, error) {
	if !database.IsRedisHealthy() {
		return nil, fmt.Errorf("%w: 缓存暂不可用", apperror.ErrUnavailable)
	}

	LockRepository()
	defer UnlockRepository()

	var row Memory
	err := database.DB.Where("memory_id = ? AND owner_id = ?", memoryID, userID).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("记录 %s: %w", memoryID, apperror.ErrNotFound)
	}

	// 合并补丁字段
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Category != nil {
		row.Category = Category(*patch.Category)
	}
	if patch.Month != nil {
		row.Month = *patch.Month
	}
	if patch.Day != nil {
		row.Day = *patch.Day
	}

	// 合并后的完整结果重新过一遍录入校验
	if err := ValidateDraft(Draft{
		Name:     row.Name,
		Category: string(row.Category),
		Month:    row.Month,
		Day:      row.Day,
	}); err != nil {
		return nil, err
	}
	row.DisplayName = DeriveDisplayName(row.Name, row.Category)

	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Save(&row).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("无法在SQLite中更新记录: %w", err)
	}

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
	if err := database.RDB.HSet(database.Ctx, InfoKey, row.MemoryID, infoJSON).Err(); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("无法更新Redis缓存中的记录: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("无法提交记录更新事务: %w", err)
	}

	return &MemoryDTO{
		ID:            row.MemoryID,
		Info:          info,
		Stats:         MemoryStats{Correct: row.CorrectCount, Incorrect: row.IncorrectCount},
		DaysUntilNext: recurrence.DaysUntilNext(row.Month, row.Day, time.Now()),
	}, nil
}

// DeleteMemory 删除一条记录。
// 删除一条已不存在的记录是无操作的成功，两个并发删除都能正常完成。
func DeleteMemory(userID, memoryID string) error {
	if !database.IsRedisHealthy() {
		return fmt.Errorf("%w: 缓存暂不可用", apperror.ErrUnavailable)
	}

	LockRepository()
	defer UnlockRepository()

	result := database.DB.Where("memory_id = ? AND owner_id = ?", memoryID, userID).Delete(&Memory{})
	if result.Error != nil {
		return fmt.Errorf("无法从SQLite删除记录: %w", result.Error)
	}

	// RowsAffected为0说明记录已经不在，继续清理缓存即可
	pipe := database.RDB.TxPipeline()
	pipe.HDel(database.Ctx, InfoKey, memoryID)
	pipe.HDel(database.Ctx, StatsKey, memoryID)
	pipe.SRem(database.Ctx, OwnerKey(userID), memoryID)
	pipe.SRem(database.Ctx, DirtySetKey, memoryID)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("无法从Redis缓存删除记录: %w", err)
	}

	return nil
}
