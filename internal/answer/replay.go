package answer

import (
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
)

// UsedSetKey 是一个Redis Set，存储所有已被消费过的题目ID。
// 它是重放防御的快速路径，SQLite中的used_question_ids表是其事实来源。
const UsedSetKey = "question:used"

// IsQuestionUsed 检查一个题目ID是否已被消费过
func IsQuestionUsed(questionID string) (bool, error) {
	used, err := database.RDB.SIsMember(database.Ctx, UsedSetKey, questionID).Result()
	if err != nil {
		return false, fmt.Errorf("检查题目ID时出错: %w", err)
	}
	return used, nil
}

// RecoverReplayDefense 从SQLite恢复已消费题目ID的Redis集合。
// Redis重启后必须先执行这一步，否则旧题目可以被重复提交。
func RecoverReplayDefense() error {
	var ids []string
	if err := database.DB.Model(&UsedQuestionID{}).Pluck("question_id", &ids).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取已消费的题目ID: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, UsedSetKey)

	// 分批SAdd，避免单条命令携带过大的参数列表
	const batchSize = 500
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		members := make([]interface{}, 0, end-start)
		for _, id := range ids[start:end] {
			members = append(members, id)
		}
		pipe.SAdd(database.Ctx, UsedSetKey, members...)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("恢复重放防御集合失败: %w", err)
	}

	fmt.Printf("成功恢复 %d 个已消费的题目ID到Redis。\n", len(ids))
	return nil
}
