package answer

import (
	"errors"
	"net/http"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/user"
	"github.com/Qiuarctica/memodate-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// SubmitAnswerRequest 是提交答案的请求体。
// questionId/memoryId/mode/signature必须与出题时下发的内容完全一致。
type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	MemoryID   string `json:"memoryId" binding:"required"`
	Mode       string `json:"mode" binding:"required"`
	Correct    *bool  `json:"correct" binding:"required"`
	Signature  string `json:"signature" binding:"required"`
}

type StatsView struct {
	CorrectCount   int `json:"correctCount"`
	IncorrectCount int `json:"incorrectCount"`
}

// SubmitAnswer 处理答案提交
func SubmitAnswer(c *gin.Context) {
	var body SubmitAnswerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	payload := token.QuestionPayload{
		QuestionID: body.QuestionID,
		MemoryID:   body.MemoryID,
		Mode:       body.Mode,
	}
	if !token.ValidateQuestionSignature(payload, body.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "题目签名无效"})
		return
	}

	result, err := ProcessAnswer(user.CurrentUserID(c), payload, *body.Correct)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperror.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到该记录"})
		case errors.Is(err, apperror.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "这道题已经提交过答案"})
		case errors.Is(err, apperror.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "服务暂时不可用，请稍后重试"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理答案时发生内部错误"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counted": result.Counted,
		"correct": result.Correct,
		"stats": StatsView{
			CorrectCount:   result.Stats.Correct,
			IncorrectCount: result.Stats.Incorrect,
		},
		"streaks": result.Streak,
	})
}
