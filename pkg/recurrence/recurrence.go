package recurrence

import "time"

// referenceLeapYear 是用于校验(月, 日)组合合法性的参照闰年。
// 选择闰年是为了让2月29日被视为合法输入。
const referenceLeapYear = 2024

// daysInMonth 返回参照闰年下每个月的天数。
var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsValidDate 检查一个(月, 日)组合在参照闰年下是否合法。
// 2月29日被接受；具体年份下的落点由 NextOccurrence 的归一化策略决定。
func IsValidDate(month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysInMonth[month]
}

// truncateToDate 将一个时间点截断为UTC日历日的零点。
func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence 计算一个周期性(月, 日)相对于参考时间点的下一次发生日期。
// 候选日期首先在参考年份中构造；如果它严格早于参考日期（今年已经过去），
// 则推进整一年。
//
// 闰日策略：统一通过 time.Date 的日期归一化来落实——在非闰年中，
// 2月29日会被归一化为3月1日。该策略在全仓库范围内唯一，不做特判。
func NextOccurrence(month, day int, ref time.Time) time.Time {
	refDate := truncateToDate(ref)

	candidate := time.Date(refDate.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(refDate) {
		candidate = time.Date(refDate.Year()+1, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

// DaysUntilNext 返回从参考时间点到下一次发生日期的整日差。
// 对任何通过 IsValidDate 校验的输入，返回值都落在 [0, 366] 区间内；
// 当且仅当(月, 日)就是参考时间点所在的日历日时返回0。
//
// 非法的(月, 日)组合属于调用方的前置条件违反，应当在数据录入边界被拦截，
// 本函数不对其报错。
func DaysUntilNext(month, day int, ref time.Time) int {
	refDate := truncateToDate(ref)
	next := NextOccurrence(month, day, ref)
	return int(next.Sub(refDate).Hours() / 24)
}
