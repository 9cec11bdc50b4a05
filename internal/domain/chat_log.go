package domain

import "time"

// CategoryTag 聊天记录的护理分类标签
type CategoryTag string

const (
	CategoryExcretion CategoryTag = "排泄"
	CategoryCondition CategoryTag = "体調"
	CategorySleep     CategoryTag = "睡眠"
	CategoryMeal      CategoryTag = "食事"
	CategoryOther     CategoryTag = "その他"
)

// ChatLog 外部聊天同步记录（对应 chat_logs 表）
// ID 即外部 message_id，是 upsert 的幂等键
type ChatLog struct {
	ID          string      `db:"id" json:"id"`                     // TEXT, PRIMARY KEY
	UserID      string      `db:"user_id" json:"user_id"`           // TEXT, FK residents.id
	StaffName   *string     `db:"staff_name" json:"staff_name"`     // TEXT, nullable
	Message     string      `db:"message" json:"message"`           // TEXT, NOT NULL
	SendTime    time.Time   `db:"send_time" json:"send_time"`       // TIMESTAMPTZ（固定 +09:00 解释）
	CategoryTag CategoryTag `db:"category_tag" json:"category_tag"` // 排泄/体調/睡眠/食事/その他
}

// ChatLogWithResident 附带入居者信息的聊天记录（仪表盘用）
type ChatLogWithResident struct {
	ChatLog
	ResidentName *string `db:"resident_name" json:"resident_name"`
	BuildingRoom *string `db:"building_room" json:"building_room"`
}
