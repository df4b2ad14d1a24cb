package answer

import "gorm.io/gorm"

// Answer 定义了数据库中一次答题记录的数据结构。
// 它是恢复流程的重放日志：快照之后的答题会在重建时按序重放。
type Answer struct {
	gorm.Model

	// QuestionID 是这道题的一次性UUID，一道题只能被提交一次
	QuestionID string `gorm:"uniqueIndex;not null" json:"question_id"`

	// UserID 是作答用户的UUID
	UserID string `gorm:"index;not null" json:"user_id"`

	// MemoryID 是被考察的纪念日记录ID
	MemoryID string `gorm:"index;not null" json:"memory_id"`

	// Mode 是作答所属的练习模式
	Mode string `gorm:"type:varchar(16)" json:"mode"`

	// Correct 是这次作答是否正确
	Correct bool `json:"correct"`
}

// UsedQuestionID 记录所有已被消费过的题目ID，用于重放防御。
// 即使某次作答未被计入连胜（例如每日一题当天重复作答），
// 对应的题目ID也会进入这张表。
type UsedQuestionID struct {
	gorm.Model
	QuestionID string `gorm:"uniqueIndex;not null"`
}
