package service

import (
	"sort"
	"time"

	"github.com/nerufirm/appneruf/internal/domain"
)

// TimelineFilter 时间线分类筛选
type TimelineFilter string

const (
	TimelineFilterAll       TimelineFilter = "すべて"
	TimelineFilterCondition TimelineFilter = TimelineFilter(domain.CategoryCondition)
	TimelineFilterExcretion TimelineFilter = TimelineFilter(domain.CategoryExcretion)
	TimelineFilterSleep     TimelineFilter = TimelineFilter(domain.CategorySleep)
	TimelineFilterMeal      TimelineFilter = TimelineFilter(domain.CategoryMeal)
	TimelineFilterOther     TimelineFilter = TimelineFilter(domain.CategoryOther)
)

// ParseTimelineFilter 空串视为全部；未知值返回 false
func ParseTimelineFilter(s string) (TimelineFilter, bool) {
	switch f := TimelineFilter(s); f {
	case "", TimelineFilterAll:
		return TimelineFilterAll, true
	case TimelineFilterCondition, TimelineFilterExcretion, TimelineFilterSleep, TimelineFilterMeal, TimelineFilterOther:
		return f, true
	default:
		return "", false
	}
}

// MergeTimeline 合并日次记录与聊天记录，按时间倒序
// 同一时刻保持输入顺序（日次记录在前）；零值时间排在最后
func MergeTimeline(records []domain.DailyRecord, logs []domain.ChatLog) []domain.TimelineItem {
	items := make([]domain.TimelineItem, 0, len(records)+len(logs))
	for i := range records {
		items = append(items, domain.TimelineItem{
			Type:        domain.TimelineDailyRecord,
			Time:        records[i].RecordTime,
			DailyRecord: &records[i],
		})
	}
	for i := range logs {
		items = append(items, domain.TimelineItem{
			Type:    domain.TimelineChatLog,
			Time:    logs[i].SendTime,
			ChatLog: &logs[i],
		})
	}
	sortTimeline(items)
	return items
}

func sortTimeline(items []domain.TimelineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return newerThan(items[i].Time, items[j].Time)
	})
}

// newerThan 无效（零值）时间排在最后
func newerThan(a, b time.Time) bool {
	switch {
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	default:
		return a.After(b)
	}
}

// FilterTimeline 按分类筛选
func FilterTimeline(items []domain.TimelineItem, filter TimelineFilter) []domain.TimelineItem {
	if filter == "" || filter == TimelineFilterAll {
		return items
	}
	out := make([]domain.TimelineItem, 0, len(items))
	for _, it := range items {
		if matchesFilter(it, filter) {
			out = append(out, it)
		}
	}
	return out
}

func matchesFilter(it domain.TimelineItem, filter TimelineFilter) bool {
	switch it.Type {
	case domain.TimelineChatLog:
		if it.ChatLog == nil {
			return false
		}
		tag := it.ChatLog.CategoryTag
		if tag == "" {
			tag = domain.CategoryOther
		}
		return TimelineFilter(tag) == filter
	case domain.TimelineDailyRecord:
		if it.DailyRecord == nil {
			return false
		}
		r := it.DailyRecord
		switch filter {
		case TimelineFilterCondition:
			return r.HasCondition()
		case TimelineFilterExcretion:
			return r.HasExcretion()
		case TimelineFilterMeal:
			return r.HasMeal()
		case TimelineFilterOther:
			return !r.HasCondition() && !r.HasExcretion() && !r.HasMeal()
		}
	}
	return false
}
