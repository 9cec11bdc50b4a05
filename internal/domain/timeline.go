package domain

import "time"

// TimelineItemType 时间线条目类型
type TimelineItemType string

const (
	TimelineDailyRecord TimelineItemType = "daily_record"
	TimelineChatLog     TimelineItemType = "chat_log"
)

// TimelineItem 日次记录与聊天记录合并后的时间线条目（只读，每次读取时重新计算）
// 根据 Type，DailyRecord 与 ChatLog 中恰有一个非空
type TimelineItem struct {
	Type        TimelineItemType `json:"type"`
	Time        time.Time        `json:"time"`
	DailyRecord *DailyRecord     `json:"daily_record,omitempty"`
	ChatLog     *ChatLog         `json:"chat_log,omitempty"`
	Resident    *ResidentRef     `json:"resident,omitempty"`
}

// ResidentRef 时间线条目所属入居者（仅施設全体タイムライン填充）
type ResidentRef struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	BuildingRoom *string `json:"building_room"`
}
