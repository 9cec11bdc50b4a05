package domain

// MedicalHistory 既往歴（对应 medical_histories 表）
type MedicalHistory struct {
	ID          int64   `db:"id" json:"id"`
	UserID      string  `db:"user_id" json:"user_id"`
	DiseaseName *string `db:"disease_name" json:"disease_name"`
	OnsetDate   *string `db:"onset_date" json:"onset_date"`
	Hospital    *string `db:"hospital" json:"hospital"`
}

// Medication 服薬（对应 medications 表）
type Medication struct {
	ID           string  `db:"id" json:"id"`
	UserID       string  `db:"user_id" json:"user_id"`
	Timing       *string `db:"timing" json:"timing"`
	MedicineName *string `db:"medicine_name" json:"medicine_name"`
	Dosage       *string `db:"dosage" json:"dosage"`
}
