package answer

import (
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
)

func migrateDB() error {
	if err := database.DB.AutoMigrate(&Answer{}, &UsedQuestionID{}); err != nil {
		return fmt.Errorf("无法迁移answer相关表: %w", err)
	}
	fmt.Println("Answer数据库表迁移成功。")
	return nil
}

// PrimeModule 是answer模块的初始化总入口
func PrimeModule() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := RecoverReplayDefense(); err != nil {
		return err
	}
	return nil
}
