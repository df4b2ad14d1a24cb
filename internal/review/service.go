package review

import (
	"fmt"

	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
	"github.com/Qiuarctica/memodate-backend/pkg/token"
	"github.com/google/uuid"
)

// QuestionCard 是下发给前端的一道复习题。
// 签名覆盖QuestionID、MemoryID和Mode，提交答案时必须原样带回。
type QuestionCard struct {
	QuestionID  string `json:"questionId"`
	MemoryID    string `json:"memoryId"`
	Mode        string `json:"mode"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	Signature   string `json:"signature"`
}

// buildCard 为一条记录生成一道带签名的复习题
func buildCard(dto memory.MemoryDTO, mode streak.Mode) (*QuestionCard, error) {
	questionUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成题目ID: %w", err)
	}

	payload := token.QuestionPayload{
		QuestionID: questionUUID.String(),
		MemoryID:   dto.ID,
		Mode:       string(mode),
	}
	signature, err := token.GenerateQuestionSignature(payload)
	if err != nil {
		return nil, fmt.Errorf("无法为题目生成签名: %w", err)
	}

	return &QuestionCard{
		QuestionID:  payload.QuestionID,
		MemoryID:    payload.MemoryID,
		Mode:        payload.Mode,
		DisplayName: dto.Info.DisplayName,
		Category:    string(dto.Info.Category),
		Signature:   signature,
	}, nil
}

// toCandidates 将记录列表转换为排序候选集
func toCandidates(memories []memory.MemoryDTO) []Candidate {
	candidates := make([]Candidate, 0, len(memories))
	for _, dto := range memories {
		candidates = append(candidates, Candidate{
			ID:            dto.ID,
			Correct:       dto.Stats.Correct,
			Incorrect:     dto.Stats.Incorrect,
			DaysUntilNext: dto.DaysUntilNext,
			CreatedAt:     dto.Info.CreatedAt,
		})
	}
	return candidates
}

// BuildQueue 为指定用户生成一条闪卡复习队列，最多limit道题。
// 没有任何记录时返回空队列，这不是错误。
func BuildQueue(userID string, limit int) ([]QuestionCard, error) {
	if !database.IsRedisHealthy() {
		return nil, fmt.Errorf("%w: 缓存暂不可用", apperror.ErrUnavailable)
	}

	memories, err := memory.ListMemories(userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]memory.MemoryDTO, len(memories))
	for _, dto := range memories {
		byID[dto.ID] = dto
	}

	selected := SelectForReview(toCandidates(memories), limit)
	cards := make([]QuestionCard, 0, len(selected))
	for _, candidate := range selected {
		card, err := buildCard(byID[candidate.ID], streak.ModeFlashcard)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

// QuestionOfDay 为指定用户生成今天的每日一题。
// 取复习优先级最高的一条记录出题，没有记录时返回nil。
func QuestionOfDay(userID string) (*QuestionCard, error) {
	if !database.IsRedisHealthy() {
		return nil, fmt.Errorf("%w: 缓存暂不可用", apperror.ErrUnavailable)
	}

	memories, err := memory.ListMemories(userID)
	if err != nil {
		return nil, err
	}
	if len(memories) == 0 {
		return nil, nil
	}

	selected := SelectForReview(toCandidates(memories), 1)
	for _, dto := range memories {
		if dto.ID == selected[0].ID {
			return buildCard(dto, streak.ModeQuestionOfDay)
		}
	}
	return nil, nil
}
