package domain

// Staff 职员（对应 staff 表）
type Staff struct {
	ID         string  `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Department *string `db:"department" json:"department"`
}

// StaffSession 登录后保存在会话中的职员信息
type StaffSession struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
