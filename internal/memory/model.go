package memory

import (
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/pkg/recurrence"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Category 定义了纪念日的类型枚举
type Category string

const (
	CategoryBirthday    Category = "birthday"
	CategoryAnniversary Category = "anniversary"
	CategorySpecial     Category = "special"
	CategoryHoliday     Category = "holiday"
)

// Valid 检查类别是否属于固定的枚举集合
func (c Category) Valid() bool {
	switch c {
	case CategoryBirthday, CategoryAnniversary, CategorySpecial, CategoryHoliday:
		return true
	}
	return false
}

// DeriveDisplayName 根据名称和类别推导展示名。
// 类别集合是封闭的，这里的switch必须穷尽所有取值。
func DeriveDisplayName(name string, category Category) string {
	switch category {
	case CategoryBirthday:
		return fmt.Sprintf("%s's Birthday", name)
	case CategoryAnniversary, CategorySpecial, CategoryHoliday:
		return name
	}
	return name
}

// Memory 定义了数据库中纪念日记录的数据结构
type Memory struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// MemoryID 是记录的唯一字符串ID（UUID v7），业务逻辑中的主键
	MemoryID string `gorm:"uniqueIndex;not null" json:"id"`

	// OwnerID 是所属用户的UUID，创建后不可变更
	OwnerID string `gorm:"index;not null" json:"owner_id"`

	// Name 是用户填写的名称，例如人名或事件名
	Name string `gorm:"not null" json:"name"`

	// DisplayName 是推导出的展示名，name或category变化时重新计算
	DisplayName string `json:"display_name"`

	// Category 是纪念日类别
	Category Category `gorm:"type:varchar(16)" json:"category"`

	// Month/Day 是周期性日期，按参照闰年校验（2月29日合法）
	Month int `json:"month"`
	Day   int `json:"day"`

	// --- 以下是用于复习的计数字段，只增不减 ---

	// CorrectCount 是答对的总次数
	CorrectCount int `json:"correct_count"`

	// IncorrectCount 是答错的总次数
	IncorrectCount int `json:"incorrect_count"`
}

// Draft 定义了创建纪念日时需要用户提供的全部字段
type Draft struct {
	Name     string `validate:"required,min=1,max=100"`
	Category string `validate:"required"`
	Month    int    `validate:"required"`
	Day      int    `validate:"required"`
}

var validate = validator.New()

// ValidateDraft 在数据录入边界完整校验一份草稿。
// 校验失败的输入绝不会触达持久化层。
func ValidateDraft(d Draft) error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	if !Category(d.Category).Valid() {
		return fmt.Errorf("%w: 未知的类别 %q", apperror.ErrValidation, d.Category)
	}
	if !recurrence.IsValidDate(d.Month, d.Day) {
		return fmt.Errorf("%w: 非法的日期 %d-%d", apperror.ErrValidation, d.Month, d.Day)
	}
	return nil
}
