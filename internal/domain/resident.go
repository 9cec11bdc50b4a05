package domain

import "strings"

// 入居状态（residents.status 的取值）
const (
	ResidentStatusOccupied     = "入居"
	ResidentStatusHospitalized = "入院"
	ResidentStatusDischarged   = "退所"
	ResidentStatusVacant       = "空床"
)

// VacantBedMarker 空床占位记录的名称中包含该字样
const VacantBedMarker = "空床"

// Resident 入居者领域模型（对应 residents 表）
type Resident struct {
	ID               string  `db:"id" json:"id"`                                // TEXT, PRIMARY KEY
	Name             string  `db:"name" json:"name"`                            // TEXT, NOT NULL
	Gender           *string `db:"gender" json:"gender"`                        // TEXT, nullable
	BirthDate        *string `db:"birth_date" json:"birth_date"`                // DATE（以 YYYY-MM-DD 文本读取）
	BuildingRoom     *string `db:"building_room" json:"building_room"`          // TEXT, nullable
	CareLevel        *string `db:"care_level" json:"care_level"`                // TEXT, nullable
	PrimaryDoctor    *string `db:"primary_doctor" json:"primary_doctor"`        // TEXT, nullable
	EmergencyContact *string `db:"emergency_contact" json:"emergency_contact"`  // TEXT, nullable
	Status           *string `db:"status" json:"status"`                        // TEXT, nullable（入居/入院/退所/空床）
}

// ResidentSummary 列表用的精简字段
type ResidentSummary struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	BuildingRoom *string `db:"building_room" json:"building_room"`
	Status       *string `db:"status" json:"status"`
}

// ResidentName 名册中的 (id, name) 对，用于构建名寄せ映射
type ResidentName struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// IsHiddenByDefault 入院/退所 以及空床占位默认不在列表中显示
func (r ResidentSummary) IsHiddenByDefault() bool {
	if r.Status != nil && (*r.Status == ResidentStatusHospitalized || *r.Status == ResidentStatusDischarged) {
		return true
	}
	return strings.Contains(r.Name, VacantBedMarker)
}
