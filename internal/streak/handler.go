package streak

import (
	"net/http"

	"github.com/Qiuarctica/memodate-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// GetUserStreaks 返回当前用户两种练习模式的连胜状态
func GetUserStreaks(c *gin.Context) {
	dto, err := GetState(user.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取连胜状态失败"})
		return
	}
	c.JSON(http.StatusOK, dto)
}
