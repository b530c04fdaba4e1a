package httpapi

import (
	"bytes"
	"fmt"
	"strings"

	"eldercare-data/internal/service"

	"github.com/xuri/excelize/v2"
)

// RosterHeader 护理人员花名册表头（导入/导出共用）
var RosterHeader = []string{
	"Name",
	"Email",
	"Phone",
	"Password",
	"CPF",
	"Birthday",
	"Registro Conselho",
	"Nivel Experiencia",
	"Formacao",
	"Function",
	"Teams",
	"Specialties",
}

const rosterSheetName = "Attendants"

// GenerateRosterExport 生成护理人员花名册 Excel 文件
func GenerateRosterExport(attendants []*service.AttendantInfo) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(rosterSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range RosterHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(rosterSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(rosterSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, a := range attendants {
		row := rowIdx + 2 // 第1行是表头
		values := rosterRow(a)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if v == "" {
				continue
			}
			if err := f.SetCellValue(rosterSheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(rosterSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func rosterRow(a *service.AttendantInfo) []string {
	values := make([]string, len(RosterHeader))
	values[0] = a.Name
	values[1] = a.Email
	values[2] = a.Phone
	// Password 列导出时留空
	if d := a.AttendantData; d != nil {
		values[4] = d.CPF
		values[5] = d.Birthday
		values[6] = d.RegistroConselho
		values[7] = d.NivelExperiencia
		values[8] = d.Formacao
		values[9] = d.FunctionName
		values[10] = strings.Join(d.TeamNames, "; ")
		values[11] = strings.Join(d.Specialties, "; ")
	}
	return values
}

// ParseRosterImport 解析上传的花名册 Excel，逐行转换为注册请求。
// 返回的切片与数据行一一对应（第 i 项对应第 i+2 行）。
func ParseRosterImport(data []byte) ([]service.RegisterAttendantRequest, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headerMap := make(map[string]int)
	for i, h := range rows[0] {
		headerMap[strings.TrimSpace(h)] = i
	}

	cell := func(row []string, header string) string {
		idx, ok := headerMap[header]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var reqs []service.RegisterAttendantRequest
	for _, row := range rows[1:] {
		req := service.RegisterAttendantRequest{
			Name:     cell(row, "Name"),
			Email:    cell(row, "Email"),
			Phone:    cell(row, "Phone"),
			Password: cell(row, "Password"),
			AttendantData: &service.AttendantData{
				CPF:              cell(row, "CPF"),
				Birthday:         cell(row, "Birthday"),
				RegistroConselho: cell(row, "Registro Conselho"),
				NivelExperiencia: cell(row, "Nivel Experiencia"),
				Formacao:         cell(row, "Formacao"),
				FunctionName:     cell(row, "Function"),
				TeamNames:        splitNames(cell(row, "Teams")),
				Specialties:      splitNames(cell(row, "Specialties")),
			},
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(s, ";") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
