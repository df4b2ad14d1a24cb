package metadata

import (
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
)

// PrimeCachedDB 是metadata模块的初始化总入口
func PrimeCachedDB() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	fmt.Println("Metadata数据库表迁移成功。")
	return nil
}
