package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerufirm/appneruf/internal/domain"
)

func at(h, m int) time.Time {
	return time.Date(2024, 5, 1, h, m, 0, 0, time.UTC)
}

func TestMergeTimeline_OrdersDescending(t *testing.T) {
	records := []domain.DailyRecord{
		{ID: "d1", RecordTime: at(8, 0)},
		{ID: "d2", RecordTime: at(12, 0)},
	}
	logs := []domain.ChatLog{
		{ID: "c1", SendTime: at(10, 0)},
		{ID: "c2", SendTime: at(13, 0)},
	}

	items := MergeTimeline(records, logs)
	require.Len(t, items, 4)
	assert.Equal(t, "c2", items[0].ChatLog.ID)
	assert.Equal(t, "d2", items[1].DailyRecord.ID)
	assert.Equal(t, "c1", items[2].ChatLog.ID)
	assert.Equal(t, "d1", items[3].DailyRecord.ID)
}

func TestMergeTimeline_TiesKeepInputOrder(t *testing.T) {
	records := []domain.DailyRecord{{ID: "d1", RecordTime: at(9, 0)}}
	logs := []domain.ChatLog{
		{ID: "c1", SendTime: at(9, 0)},
		{ID: "c2", SendTime: at(9, 0)},
	}

	items := MergeTimeline(records, logs)
	require.Len(t, items, 3)
	assert.Equal(t, domain.TimelineDailyRecord, items[0].Type)
	assert.Equal(t, "c1", items[1].ChatLog.ID)
	assert.Equal(t, "c2", items[2].ChatLog.ID)
}

func TestMergeTimeline_ZeroTimeSortsLast(t *testing.T) {
	logs := []domain.ChatLog{
		{ID: "bad"},
		{ID: "c1", SendTime: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	items := MergeTimeline(nil, logs)
	require.Len(t, items, 2)
	assert.Equal(t, "c1", items[0].ChatLog.ID)
	assert.Equal(t, "bad", items[1].ChatLog.ID)
}

func TestMergeTimeline_TimesOutsideNanosecondRange(t *testing.T) {
	// UnixNano 只能表示 1678–2262 年
	old := time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)
	far := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.DailyRecord{{ID: "d-old", RecordTime: old}, {ID: "d-zero"}}
	logs := []domain.ChatLog{{ID: "c-now", SendTime: at(9, 0)}, {ID: "c-far", SendTime: far}}

	items := MergeTimeline(records, logs)
	require.Len(t, items, 4)
	assert.Equal(t, "c-far", items[0].ChatLog.ID)
	assert.Equal(t, "c-now", items[1].ChatLog.ID)
	assert.Equal(t, "d-old", items[2].DailyRecord.ID)
	assert.Equal(t, "d-zero", items[3].DailyRecord.ID)
}

func TestMergeTimeline_Empty(t *testing.T) {
	assert.Empty(t, MergeTimeline(nil, nil))
}

func TestFilterTimeline(t *testing.T) {
	records := []domain.DailyRecord{
		{ID: "vitals", RecordTime: at(9, 0), BodyTemp: floatPtr(36.5)},
		{ID: "urine", RecordTime: at(9, 1), ExcretionUrine: strPtr("多め")},
		{ID: "meal", RecordTime: at(9, 2), MealAmount: strPtr("全量")},
		{ID: "empty", RecordTime: at(9, 3)},
	}
	logs := []domain.ChatLog{
		{ID: "sleep", SendTime: at(10, 0), CategoryTag: domain.CategorySleep},
		{ID: "untagged", SendTime: at(10, 1)},
		{ID: "excretion", SendTime: at(10, 2), CategoryTag: domain.CategoryExcretion},
	}
	items := MergeTimeline(records, logs)

	ids := func(f TimelineFilter) []string {
		var out []string
		for _, it := range FilterTimeline(items, f) {
			if it.ChatLog != nil {
				out = append(out, it.ChatLog.ID)
			} else {
				out = append(out, it.DailyRecord.ID)
			}
		}
		return out
	}

	assert.Len(t, ids(TimelineFilterAll), 7)
	assert.Equal(t, []string{"vitals"}, ids(TimelineFilterCondition))
	assert.Equal(t, []string{"excretion", "urine"}, ids(TimelineFilterExcretion))
	assert.Equal(t, []string{"sleep"}, ids(TimelineFilterSleep))
	assert.Equal(t, []string{"meal"}, ids(TimelineFilterMeal))
	assert.Equal(t, []string{"untagged", "empty"}, ids(TimelineFilterOther))
}

func TestParseTimelineFilter(t *testing.T) {
	f, ok := ParseTimelineFilter("")
	assert.True(t, ok)
	assert.Equal(t, TimelineFilterAll, f)

	f, ok = ParseTimelineFilter("睡眠")
	assert.True(t, ok)
	assert.Equal(t, TimelineFilterSleep, f)

	_, ok = ParseTimelineFilter("unknown")
	assert.False(t, ok)
}
