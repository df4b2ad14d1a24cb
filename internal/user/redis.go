package user

import "sync"

const (
	// KnownUsersKey 是一个 Redis Set 的键，缓存所有已注册用户的UUID。
	// 会话中间件用它做低成本的存在性检查。
	KnownUsersKey = "user:known"
)

// repoMutex 保护已注册用户集合在预热重建期间的一致性
var repoMutex sync.RWMutex

func LockRepository() {
	repoMutex.Lock()
}

func UnlockRepository() {
	repoMutex.Unlock()
}

func RLockRepository() {
	repoMutex.RLock()
}

func RUnlockRepository() {
	repoMutex.RUnlock()
}
