package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/platform/config"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session 描述了一个已建立的用户会话。
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Register 创建一个新用户并签发会话令牌。
// SQLite写入和Redis缓存写入是原子的：缓存写入失败会回滚数据库事务。
func Register(email, password string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("无法处理口令: %w", err)
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	LockRepository()
	defer UnlockRepository()

	// 开启一个SQLite事务
	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	newUser := User{UUID: newUUID.String(), Email: email, PasswordHash: string(hash)}
	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		if database.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("邮箱 %s: %w", email, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("无法在SQLite中创建新用户: %w", err)
	}

	// 尝试将新UUID添加到Redis缓存中
	if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, newUser.UUID).Err(); err != nil {
		// 如果Redis写入失败，回滚SQLite的写入，保证数据一致性
		tx.Rollback()
		return nil, fmt.Errorf("无法将新用户 %s 添加到Redis缓存: %w", newUser.UUID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("无法提交用户注册事务: %w", err)
	}

	return IssueSession(newUser.UUID)
}

// Authenticate 校验邮箱与口令，成功时签发会话令牌。
func Authenticate(email, password string) (*Session, error) {
	var u User
	if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("邮箱或口令不正确: %w", apperror.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("邮箱或口令不正确: %w", apperror.ErrNotAuthenticated)
	}

	return IssueSession(u.UUID)
}

// IssueSession 为指定用户签发一个新的JWT会话令牌。
func IssueSession(userID string) (*Session, error) {
	ttl := time.Duration(config.Cfg.Auth.TokenTTLHours) * time.Hour
	expiresAt := time.Now().Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Cfg.Auth.Secret))
	if err != nil {
		return nil, fmt.Errorf("无法签发会话令牌: %w", err)
	}

	return &Session{UserID: userID, Token: tokenStr, ExpiresAt: expiresAt}, nil
}

// ParseSession 解析并校验一个会话令牌，返回其承载的会话信息。
func ParseSession(tokenStr string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名算法: %v", t.Header["alg"])
		}
		return []byte(config.Cfg.Auth.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("会话令牌无效: %w", apperror.ErrNotAuthenticated)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("会话令牌载荷无效: %w", apperror.ErrNotAuthenticated)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Session{UserID: claims.Subject, Token: tokenStr, ExpiresAt: expiresAt}, nil
}

// RefreshSession 用一个仍然有效的令牌换取一个新令牌。
// 刷新是尽力而为的：任何失败都不影响旧令牌的剩余有效期。
func RefreshSession(tokenStr string) (*Session, error) {
	current, err := ParseSession(tokenStr)
	if err != nil {
		return nil, err
	}
	return IssueSession(current.UserID)
}

// IsUserActivated 检查一个给定的UUID是否是已注册用户。
// 它只查询Redis缓存，以获得最高性能。
func IsUserActivated(uuidStr string) (bool, error) {
	if uuidStr == "" {
		return false, nil
	}
	exists, err := database.RDB.SIsMember(database.Ctx, KnownUsersKey, uuidStr).Result()
	if err != nil {
		return false, fmt.Errorf("检查Redis用户缓存时出错: %w", err)
	}
	return exists, nil
}
