package stats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
	"github.com/go-redis/redis/v8"
)

const (
	// reportKeyPrefix 加上用户UUID构成报告缓存键
	reportKeyPrefix = "stats:report:"

	// reportTTL 是报告缓存的过期时间。报告是聚合视图，
	// 短暂的陈旧可以接受，换来重复刷新时的零成本响应。
	reportTTL = time.Minute
)

// UpcomingEntry 是即将到来的纪念日摘要
type UpcomingEntry struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Category      string `json:"category"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	DaysUntilNext int    `json:"daysUntilNext"`
}

// UserStatsReport 是用户统计页的聚合报告。
// OverallAccuracy在没有任何答题时为0，
// Upcoming是按下一次发生日期排列的最近5条记录。
type UserStatsReport struct {
	MemoriesCount   int              `json:"memoriesCount"`
	TotalCorrect    int              `json:"totalCorrect"`
	TotalIncorrect  int              `json:"totalIncorrect"`
	OverallAccuracy float64          `json:"overallAccuracy"`
	Streaks         streak.StreakDTO `json:"streaks"`
	Upcoming        []UpcomingEntry  `json:"upcoming"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

func reportKey(userID string) string {
	return reportKeyPrefix + userID
}

// BuildReport 为指定用户生成统计报告。
// Redis健康时报告会被缓存一分钟；降级状态下每次直接从SQLite聚合。
func BuildReport(userID string) (*UserStatsReport, error) {
	if database.IsRedisHealthy() {
		cached, err := database.RDB.Get(database.Ctx, reportKey(userID)).Result()
		if err == nil {
			var report UserStatsReport
			if json.Unmarshal([]byte(cached), &report) == nil {
				return &report, nil
			}
		} else if err != redis.Nil {
			return nil, fmt.Errorf("无法读取报告缓存: %w", err)
		}
	}

	report, err := computeReport(userID)
	if err != nil {
		return nil, err
	}

	if database.IsRedisHealthy() {
		reportJSON, _ := json.Marshal(report)
		// 缓存写入失败不影响本次响应
		database.RDB.Set(database.Ctx, reportKey(userID), reportJSON, reportTTL)
	}
	return report, nil
}

func computeReport(userID string) (*UserStatsReport, error) {
	memories, err := memory.ListMemories(userID)
	if err != nil {
		return nil, err
	}
	streaks, err := streak.GetState(userID)
	if err != nil {
		return nil, err
	}

	report := &UserStatsReport{
		MemoriesCount: len(memories),
		Streaks:       *streaks,
		Upcoming:      []UpcomingEntry{},
		GeneratedAt:   time.Now(),
	}

	for _, dto := range memories {
		report.TotalCorrect += dto.Stats.Correct
		report.TotalIncorrect += dto.Stats.Incorrect
	}
	if total := report.TotalCorrect + report.TotalIncorrect; total > 0 {
		report.OverallAccuracy = float64(report.TotalCorrect) / float64(total)
	}

	// ListMemories已按下一次发生日期排好序，直接取前5条
	limit := 5
	if len(memories) < limit {
		limit = len(memories)
	}
	for _, dto := range memories[:limit] {
		report.Upcoming = append(report.Upcoming, UpcomingEntry{
			ID:            dto.ID,
			DisplayName:   dto.Info.DisplayName,
			Category:      string(dto.Info.Category),
			Month:         dto.Info.Month,
			Day:           dto.Info.Day,
			DaysUntilNext: dto.DaysUntilNext,
		})
	}

	return report, nil
}
