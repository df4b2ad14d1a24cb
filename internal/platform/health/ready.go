package health

import (
	"fmt"
	"sync"
	"time"
)

// ReadinessCeiling 是启动初始化允许阻塞UI就绪的最长时间。
// 超过这个上限后，服务器会以降级状态开始对外服务，
// 后台健康检查器负责在Redis可用后完成缓存重建。
const ReadinessCeiling = 5 * time.Second

var (
	readyOnce sync.Once
	readyChan = make(chan struct{})
)

// MarkReady 标记启动初始化已经完成。多次调用是安全的。
func MarkReady() {
	readyOnce.Do(func() {
		close(readyChan)
	})
}

// IsReady 返回启动初始化是否已经完成。
func IsReady() bool {
	select {
	case <-readyChan:
		return true
	default:
		return false
	}
}

// AwaitReady 阻塞等待启动初始化完成，但不会超过ReadinessCeiling。
// 返回值表示初始化是否在时限内完成；超时的情况下调用方必须以降级状态继续启动，
// 绝不允许无限等待。
func AwaitReady() bool {
	timer := time.NewTimer(ReadinessCeiling)
	defer timer.Stop()

	select {
	case <-readyChan:
		return true
	case <-timer.C:
		fmt.Printf("警告: 启动初始化未能在 %v 内完成，服务器将以降级状态启动。\n", ReadinessCeiling)
		return false
	}
}
