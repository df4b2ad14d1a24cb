package user

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/gin-gonic/gin"
)

// --- API 请求/响应模型 ---

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type RefreshRequest struct {
	Token string `json:"token" binding:"required"`
}

type SessionResponse struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func formatSession(s *Session) SessionResponse {
	return SessionResponse{
		UserID:    s.UserID,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// --- 控制器函数 ---

// RegisterUser 处理新用户注册
func RegisterUser(c *gin.Context) {
	var body CredentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	session, err := Register(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "该邮箱已被注册"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败，请稍后重试"})
		return
	}

	c.JSON(http.StatusOK, formatSession(session))
}

// LoginUser 处理用户登录
func LoginUser(c *gin.Context) {
	var body CredentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	session, err := Authenticate(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "邮箱或口令不正确"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败，请稍后重试"})
		return
	}

	c.JSON(http.StatusOK, formatSession(session))
}

// RefreshUserSession 用旧令牌换取新令牌。
// 失败时客户端保持当前会话不变，不视为致命错误。
func RefreshUserSession(c *gin.Context) {
	var body RefreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	session, err := RefreshSession(body.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "会话无效或已过期"})
		return
	}

	c.JSON(http.StatusOK, formatSession(session))
}

// GetCurrentSession 返回当前已认证的会话信息
func GetCurrentSession(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	// 中间件已经校验过，这里只为取expiresAt重新解析一次
	session, err := ParseSession(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "会话无效或已过期"})
		return
	}

	resp := formatSession(session)
	resp.Token = "" // 不回显令牌本身
	c.JSON(http.StatusOK, resp)
}
