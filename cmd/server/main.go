package main

import (
	"fmt"
	"net/http"

	"github.com/Qiuarctica/memodate-backend/api"
	"github.com/Qiuarctica/memodate-backend/internal/platform/backup"
	"github.com/Qiuarctica/memodate-backend/internal/platform/config"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/platform/health"
	"github.com/Qiuarctica/memodate-backend/internal/platform/shutdown"
	"github.com/Qiuarctica/memodate-backend/internal/platform/startup"
	"github.com/Qiuarctica/memodate-backend/pkg/lifecycle"
	"github.com/Qiuarctica/memodate-backend/pkg/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}
	if cfg.Auth.Secret == "" {
		panic("配置项 auth.secret 不能为空")
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID，失败时进入降级状态
	health.InitializeRunID()

	// 初始化在后台执行，启动流程最多等待一个就绪上限，
	// 避免Redis缓慢或不可用时服务器无限期无法监听
	go func() {
		if err := startup.InitializeApplication(); err != nil {
			fmt.Printf("错误: 应用初始化失败: %v\n", err)
			// 清空已知run_id，让后台健康检查器在Redis可用后强制重建缓存
			database.SetInitialRunID("")
			return
		}
		health.MarkReady()
	}()

	if !health.AwaitReady() {
		fmt.Println("以降级状态继续启动，后台健康检查器将负责恢复。")
	}

	// 两阶段停机的生命周期管理器
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	healthHandle, err := forcefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	backupHandle, err := gracefulMgr.NewServiceHandle("backup-scheduler")
	if err != nil {
		panic(err)
	}
	go backup.StartBackupScheduler(backupHandle)

	router := api.NewRouter(*cfg)
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("服务器启动失败: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
