package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nerufirm/appneruf/internal/chatwork"
)

// 表头（与同步接口字段同名）
const (
	colDatetime     = "datetime"
	colResidentName = "resident_name"
	colMessage      = "message"
	colStaffName    = "staff_name"
	colMessageID    = "message_id"
)

var templateHeaders = []string{colDatetime, colResidentName, colMessage, colStaffName, colMessageID}

// staff_name 可缺省
var requiredHeaders = []string{colDatetime, colResidentName, colMessage, colMessageID}

var errNoSheet = errors.New("workbook has no sheets")

// readEntries 读取工作表（默认第一个），每行转为一条原始聊天记录
// 全空行跳过；字段值不做校验，交给服务端判定
func readEntries(path, sheet string) ([]chatwork.RawChatEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, errNoSheet
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing header column(s): %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) chatwork.Text {
		idx, ok := headerMap[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return chatwork.Text(row[idx])
	}

	entries := make([]chatwork.RawChatEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		entries = append(entries, chatwork.RawChatEntry{
			Datetime:     cell(row, colDatetime),
			ResidentName: cell(row, colResidentName),
			Message:      cell(row, colMessage),
			StaffName:    cell(row, colStaffName),
			MessageID:    cell(row, colMessageID),
		})
	}
	return entries, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// writeTemplate 生成只有表头的导入模板
func writeTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "chat_logs"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	widths := []float64{22, 18, 60, 16, 24}
	for i, h := range templateHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}
