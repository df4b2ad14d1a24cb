package streak

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/go-redis/redis/v8"
)

const (
	// StateKey 是一个Redis Hash，存储所有用户的连胜状态
	// Field: UserID, Value: State 的JSON序列化字符串
	StateKey = "streak:state"

	// DirtySetKey 是一个Redis Set，存储自上次快照以来连胜状态
	// 发生过变化的UserID，用于增量备份
	DirtySetKey = "streak:dirty"
)

// stateMutex 保护对本模块管理的Redis键的并发访问
var stateMutex sync.RWMutex

func LockState() {
	stateMutex.Lock()
}

func UnlockState() {
	stateMutex.Unlock()
}

func RLockState() {
	stateMutex.RLock()
}

func RUnlockState() {
	stateMutex.RUnlock()
}

// GetCachedState 从Redis读取指定用户的连胜状态。
// 用户还没有任何记录时返回零值状态。
func GetCachedState(userID string) (State, error) {
	stateJSON, err := database.RDB.HGet(database.Ctx, StateKey, userID).Result()
	if err == redis.Nil {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("无法从Redis获取用户 %s 的连胜状态: %w", userID, err)
	}

	var state State
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return State{}, fmt.Errorf("无法解析用户 %s 的连胜状态: %w", userID, err)
	}
	return state, nil
}
