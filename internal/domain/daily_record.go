package domain

import "time"

// DailyRecord 日次记录（对应 daily_records 表），由职员通过表单录入
type DailyRecord struct {
	ID             string    `db:"id" json:"id"`                           // TEXT, PRIMARY KEY (uuid)
	UserID         string    `db:"user_id" json:"user_id"`                 // TEXT, FK residents.id
	StaffID        *string   `db:"staff_id" json:"staff_id"`               // TEXT, nullable
	RecordTime     time.Time `db:"record_time" json:"record_time"`         // TIMESTAMPTZ
	BodyTemp       *float64  `db:"body_temp" json:"body_temp"`             // NUMERIC(4,1), nullable
	BPHigh         *int      `db:"bp_high" json:"bp_high"`                 // INTEGER, nullable
	BPLow          *int      `db:"bp_low" json:"bp_low"`                   // INTEGER, nullable
	Pulse          *int      `db:"pulse" json:"pulse"`                     // INTEGER, nullable
	SpO2           *int      `db:"spo2" json:"spo2"`                       // INTEGER, nullable
	ExcretionUrine *string   `db:"excretion_urine" json:"excretion_urine"` // TEXT, nullable
	MealAmount     *string   `db:"meal_amount" json:"meal_amount"`         // TEXT, nullable
}

// DailyRecordWithResident 附带入居者信息的日次记录（仪表盘用）
type DailyRecordWithResident struct {
	DailyRecord
	ResidentName *string `db:"resident_name" json:"resident_name"`
	BuildingRoom *string `db:"building_room" json:"building_room"`
}

// HasCondition 是否含有体温/血压/脉搏/SpO2 任一项
func (r DailyRecord) HasCondition() bool {
	return r.BodyTemp != nil || r.BPHigh != nil || r.Pulse != nil || r.SpO2 != nil
}

// HasExcretion 是否含有排尿记录
func (r DailyRecord) HasExcretion() bool {
	return r.ExcretionUrine != nil && *r.ExcretionUrine != ""
}

// HasMeal 是否含有食事量记录
func (r DailyRecord) HasMeal() bool {
	return r.MealAmount != nil && *r.MealAmount != ""
}
