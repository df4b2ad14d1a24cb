package stats

import (
	"net/http"

	"github.com/Qiuarctica/memodate-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// GetUserStats 返回当前用户的统计报告
func GetUserStats(c *gin.Context) {
	report, err := BuildReport(user.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成统计报告失败"})
		return
	}
	c.JSON(http.StatusOK, report)
}
