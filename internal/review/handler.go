package review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/platform/config"
	"github.com/Qiuarctica/memodate-backend/internal/user"
	"github.com/gin-gonic/gin"
)

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "服务暂时不可用，请稍后重试"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "处理请求时发生内部错误"})
	}
}

// GetReviewQueue 返回当前用户的闪卡复习队列。
// 可选的limit参数用于控制队列长度，缺省时使用配置值。
func GetReviewQueue(c *gin.Context) {
	limit := config.Cfg.Review.QueueSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit参数必须是正整数"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	cards, err := BuildQueue(user.CurrentUserID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetQuestionOfDay 返回当前用户今天的每日一题
func GetQuestionOfDay(c *gin.Context) {
	card, err := QuestionOfDay(user.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusOK, gin.H{"question": nil, "message": "还没有可以练习的记录"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": card})
}
