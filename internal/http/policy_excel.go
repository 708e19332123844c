package httpapi

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"policy-data/internal/domain"
)

// PolicyImportHeader 导入模板表头（列名即导入识别的字段别名）
var PolicyImportHeader = []string{
	"firstname",
	"dob",
	"address",
	"phone",
	"state",
	"zip",
	"email",
	"gender",
	"userType",
	"agent",
	"account_name",
	"category_name",
	"company_name",
	"policyNumber",
	"policyStartDate",
	"policyEndDate",
}

// PolicyExportHeader 导出表头
var PolicyExportHeader = []string{
	"Policy Number",
	"Start Date",
	"End Date",
	"Category",
	"Carrier",
	"Agent",
	"Account",
	"User ID",
}

// GeneratePolicyImportTemplate 生成导入模板 Excel 文件（只有表头）
func GeneratePolicyImportTemplate() ([]byte, error) {
	return generatePolicyExcel(PolicyImportHeader, nil)
}

// GeneratePolicyExport 生成保单导出 Excel 文件
func GeneratePolicyExport(policies []*domain.Policy) ([]byte, error) {
	rows := make([][]any, 0, len(policies))
	for _, p := range policies {
		start := ""
		if p.PolicyStartDate.Valid {
			start = p.PolicyStartDate.Time.Format("2006-01-02")
		}
		end := ""
		if p.PolicyEndDate.Valid {
			end = p.PolicyEndDate.Time.Format("2006-01-02")
		}
		rows = append(rows, []any{
			p.PolicyNumber,
			start,
			end,
			p.CategoryName.String,
			p.CompanyName.String,
			p.AgentName.String,
			p.AccountName.String,
			p.UserID,
		})
	}
	return generatePolicyExcel(PolicyExportHeader, rows)
}

// generatePolicyExcel 生成保单 Excel 文件的通用函数
func generatePolicyExcel(headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Policies"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
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

	// 写入表头
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// 统一列宽
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	// 写入数据（第2行起）
	for rowIdx, cells := range rows {
		for colIdx, value := range cells {
			if value == nil || value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	// Write to bytes buffer
	// Note: File must remain open during Write operation
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
