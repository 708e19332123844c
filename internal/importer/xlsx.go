package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook 读取 XLSX 文件的第一个工作表，按表头转成有序行序列
// 第1行为表头，其余工作表忽略；全空行跳过
func ReadWorkbook(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}

	header := rows[0]
	out := make([]Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := Row{}
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			if value != "" {
				empty = false
			}
			row[name] = value
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
