package domain

// Carrier 承保公司领域模型（对应 carriers 表）
// 自然键：company_name（全局唯一）
type Carrier struct {
	CarrierID   string `db:"carrier_id"`
	CompanyName string `db:"company_name"` // NOT NULL, UNIQUE
}

func (c *Carrier) ToJSON() map[string]any {
	return map[string]any{
		"carrier_id":   c.CarrierID,
		"company_name": c.CompanyName,
	}
}
