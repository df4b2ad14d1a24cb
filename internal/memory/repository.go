package memory

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/go-redis/redis/v8"
)

// --- Redis 键名常量 ---
// 这些定义归属于仓库，因为它们描述了仓库所管理的外部动态数据结构

const (
	// InfoKey 是一个Redis Hash，存储所有纪念日的静态信息
	// Field: MemoryID, Value: MemoryInfo 的JSON序列化字符串
	InfoKey = "memory:info"

	// StatsKey 是一个Redis Hash，存储所有纪念日的答题计数
	// Field: MemoryID, Value: MemoryStats 的JSON序列化字符串
	StatsKey = "memory:stats"

	// OwnerKeyPrefix 加上用户UUID构成一个Redis Set的键，
	// 存储该用户拥有的全部MemoryID，是所有权检查的依据
	OwnerKeyPrefix = "memory:owner:"

	// DirtySetKey 是一个Redis Set，存储自上次快照以来计数发生过变化的
	// MemoryID，用于增量备份
	DirtySetKey = "memory:dirty"
)

// OwnerKey 返回指定用户的所有权索引键
func OwnerKey(userID string) string {
	return OwnerKeyPrefix + userID
}

// MemoryInfo 定义了在Redis memory:info Hash中存储的静态数据
type MemoryInfo struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Category    Category  `json:"category"`
	Month       int       `json:"month"`
	Day         int       `json:"day"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MemoryStats 定义了在Redis memory:stats Hash中存储的答题计数
type MemoryStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// --- 并发控制 ---

// repoMutex 是一个模块内部的全局读写锁，
// 用于保护对本模块管理的Redis键的并发访问。
var repoMutex sync.RWMutex

// LockRepository 获取模块全局写锁。
func LockRepository() {
	repoMutex.Lock()
}

// UnlockRepository 释放模块全局写锁。
func UnlockRepository() {
	repoMutex.Unlock()
}

// RLockRepository 获取模块全局读锁。
func RLockRepository() {
	repoMutex.RLock()
}

// RUnlockRepository 释放模块全局读锁。
func RUnlockRepository() {
	repoMutex.RUnlock()
}

// --- 缓存访问辅助函数 ---

// IsOwnedBy 检查一条记录是否属于指定用户。只查询Redis缓存。
func IsOwnedBy(memoryID, userID string) (bool, error) {
	owned, err := database.RDB.SIsMember(database.Ctx, OwnerKey(userID), memoryID).Result()
	if err != nil {
		return false, fmt.Errorf("检查记录所有权时出错: %w", err)
	}
	return owned, nil
}

// GetStats 从Redis中获取单条记录的答题计数。记录不存在时返回零值。
func GetStats(memoryID string) (MemoryStats, error) {
	statsJSON, err := database.RDB.HGet(database.Ctx, StatsKey, memoryID).Result()
	if err == redis.Nil {
		return MemoryStats{}, nil
	}
	if err != nil {
		return MemoryStats{}, fmt.Errorf("无法从Redis获取记录 %s 的计数: %w", memoryID, err)
	}

	var stats MemoryStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return MemoryStats{}, fmt.Errorf("无法解析记录 %s 的计数: %w", memoryID, err)
	}
	return stats, nil
}

// GetInfo 从Redis中获取单条记录的静态信息。记录不存在时返回nil。
func GetInfo(memoryID string) (*MemoryInfo, error) {
	infoJSON, err := database.RDB.HGet(database.Ctx, InfoKey, memoryID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法从Redis获取记录 %s 的信息: %w", memoryID, err)
	}

	var info MemoryInfo
	if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
		return nil, fmt.Errorf("无法解析记录 %s 的信息: %w", memoryID, err)
	}
	return &info, nil
}
