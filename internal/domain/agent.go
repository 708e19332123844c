package domain

// Agent 保险代理人领域模型（对应 agents 表）
// 自然键：agent_name
type Agent struct {
	AgentID   string `db:"agent_id"`
	AgentName string `db:"agent_name"` // NOT NULL
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (a *Agent) ToJSON() map[string]any {
	return map[string]any{
		"agent_id":   a.AgentID,
		"agent_name": a.AgentName,
	}
}
