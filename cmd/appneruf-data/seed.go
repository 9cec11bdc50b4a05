package main

import (
	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/repository"
)

func ptr(s string) *string { return &s }

// seedDemo 写入演示数据（无 DB 模式下本地联调用）
func seedDemo(mem *repository.MemoryStore) {
	occupied := ptr(domain.ResidentStatusOccupied)
	residents := []domain.Resident{
		{ID: "R001", Name: "山田 太郎", Gender: ptr("男"), BirthDate: ptr("1938-04-12"), BuildingRoom: ptr("A-101"), CareLevel: ptr("要介護2"), Status: occupied},
		{ID: "R002", Name: "佐藤 花子", Gender: ptr("女"), BirthDate: ptr("1941-11-03"), BuildingRoom: ptr("A-102"), CareLevel: ptr("要介護3"), Status: occupied},
		{ID: "R003", Name: "鈴木 一郎", Gender: ptr("男"), BirthDate: ptr("1935-07-21"), BuildingRoom: ptr("B-201"), CareLevel: ptr("要介護1"), Status: ptr(domain.ResidentStatusHospitalized)},
		{ID: "R004", Name: "空床", BuildingRoom: ptr("B-202"), Status: ptr(domain.ResidentStatusVacant)},
	}
	for _, r := range residents {
		mem.PutResident(r)
	}

	mem.PutMedicalHistory(domain.MedicalHistory{ID: 1, UserID: "R001", DiseaseName: ptr("高血圧"), OnsetDate: ptr("2015-06-01"), Hospital: ptr("市立病院")})
	mem.PutMedication(domain.Medication{ID: "M001", UserID: "R001", Timing: ptr("朝食後"), MedicineName: ptr("アムロジピン"), Dosage: ptr("5mg")})

	staff := []domain.Staff{
		{ID: "S001", Name: "田中 美咲", Department: ptr("介護")},
		{ID: "S002", Name: "高橋 健", Department: ptr("看護")},
	}
	for _, s := range staff {
		mem.PutStaff(s)
	}
}
