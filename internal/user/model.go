package user

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户在SQLite数据库中的持久化模型。
type User struct {
	// UUID 是用户的主键，注册时由服务端生成。
	UUID string `gorm:"primarykey;type:varchar(36)"`

	// Email 是用户的登录标识，全局唯一。
	Email string `gorm:"uniqueIndex;not null"`

	// PasswordHash 是bcrypt处理后的口令散列，绝不参与序列化。
	PasswordHash string `gorm:"not null" json:"-"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
