package domain

// LOB 保单类别（Line of Business）领域模型（对应 lobs 表）
// 自然键：category_name（全局唯一）
type LOB struct {
	LOBID        string `db:"lob_id"`
	CategoryName string `db:"category_name"` // NOT NULL, UNIQUE
}

func (l *LOB) ToJSON() map[string]any {
	return map[string]any{
		"lob_id":        l.LOBID,
		"category_name": l.CategoryName,
	}
}
