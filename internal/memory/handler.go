package memory

import (
	"errors"
	"net/http"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// --- API 请求/响应模型 ---

type CreateMemoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Month    int    `json:"month" binding:"required"`
	Day      int    `json:"day" binding:"required"`
}

type UpdateMemoryRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Month    *int    `json:"month"`
	Day      *int    `json:"day"`
}

type MemoryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"displayName"`
	Category       string    `json:"category"`
	Month          int       `json:"month"`
	Day            int       `json:"day"`
	CorrectCount   int       `json:"correctCount"`
	IncorrectCount int       `json:"incorrectCount"`
	DaysUntilNext  int       `json:"daysUntilNext"`
	CreatedAt      time.Time `json:"createdAt"`
}

func formatMemory(dto MemoryDTO) MemoryResponse {
	return MemoryResponse{
		ID:             dto.ID,
		Name:           dto.Info.Name,
		DisplayName:    dto.Info.DisplayName,
		Category:       string(dto.Info.Category),
		Month:          dto.Info.Month,
		Day:            dto.Info.Day,
		CorrectCount:   dto.Stats.Correct,
		IncorrectCount: dto.Stats.Incorrect,
		DaysUntilNext:  dto.DaysUntilNext,
		CreatedAt:      dto.Info.CreatedAt,
	}
}

// respondServiceError 将服务层错误映射为HTTP响应
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "找不到该记录"})
	case errors.Is(err, apperror.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "服务暂时不可用，请稍后重试"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "处理请求时发生内部错误"})
	}
}

// --- 控制器函数 ---

// ListUserMemories 返回当前用户的全部纪念日记录
func ListUserMemories(c *gin.Context) {
	memories, err := ListMemories(user.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取记录列表失败"})
		return
	}

	responses := make([]MemoryResponse, 0, len(memories))
	for _, dto := range memories {
		responses = append(responses, formatMemory(dto))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateUserMemory 创建一条新的纪念日记录
func CreateUserMemory(c *gin.Context) {
	var body CreateMemoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	dto, err := CreateMemory(user.CurrentUserID(c), Draft{
		Name:     body.Name,
		Category: body.Category,
		Month:    body.Month,
		Day:      body.Day,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatMemory(*dto))
}

// UpdateUserMemory 更新一条已有的纪念日记录
func UpdateUserMemory(c *gin.Context) {
	var body UpdateMemoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	dto, err := UpdateMemory(user.CurrentUserID(c), c.Param("id"), Patch{
		Name:     body.Name,
		Category: body.Category,
		Month:    body.Month,
		Day:      body.Day,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatMemory(*dto))
}

// DeleteUserMemory 删除一条纪念日记录
func DeleteUserMemory(c *gin.Context) {
	if err := DeleteMemory(user.CurrentUserID(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}
