package domain

import (
	"database/sql"
)

// Policy 保单领域模型（对应 policies 表）
// 五个引用字段全部 NOT NULL：任一实体未解析成功的行不会写入保单
type Policy struct {
	PolicyID     string `db:"policy_id"`
	PolicyNumber string `db:"policy_number"` // NOT NULL, UNIQUE

	PolicyStartDate sql.NullTime `db:"policy_start_date"` // nullable
	PolicyEndDate   sql.NullTime `db:"policy_end_date"`   // nullable

	// References for relationships
	PolicyCategoryID    string `db:"policy_category_id"`    // FK lobs
	CompanyCollectionID string `db:"company_collection_id"` // FK carriers
	UserID              string `db:"user_id"`               // FK users
	AgentID             string `db:"agent_id"`              // FK agents
	AccountID           string `db:"account_id"`            // FK accounts

	// 关联名称（查询时JOIN获取，不存储在 policies 表）
	CategoryName sql.NullString `db:"category_name"`
	CompanyName  sql.NullString `db:"company_name"`
	AgentName    sql.NullString `db:"agent_name"`
	AccountName  sql.NullString `db:"account_name"`
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (p *Policy) ToJSON() map[string]any {
	m := map[string]any{
		"policy_id":             p.PolicyID,
		"policy_number":         p.PolicyNumber,
		"policy_category_id":    p.PolicyCategoryID,
		"company_collection_id": p.CompanyCollectionID,
		"user_id":               p.UserID,
		"agent_id":              p.AgentID,
		"account_id":            p.AccountID,
	}
	if p.PolicyStartDate.Valid {
		m["policy_start_date"] = p.PolicyStartDate.Time.Format("2006-01-02")
	}
	if p.PolicyEndDate.Valid {
		m["policy_end_date"] = p.PolicyEndDate.Time.Format("2006-01-02")
	}
	if p.CategoryName.Valid {
		m["category_name"] = p.CategoryName.String
	}
	if p.CompanyName.Valid {
		m["company_name"] = p.CompanyName.String
	}
	if p.AgentName.Valid {
		m["agent_name"] = p.AgentName.String
	}
	if p.AccountName.Valid {
		m["account_name"] = p.AccountName.String
	}
	return m
}

// PolicyAggregate 按用户聚合的保单统计（GET /api/policies/aggregated）
type PolicyAggregate struct {
	UserID        string `db:"user_id"`
	UserName      string `db:"user_name"`
	UserEmail     string `db:"user_email"`
	TotalPolicies int    `db:"total_policies"`
}

func (a *PolicyAggregate) ToJSON() map[string]any {
	return map[string]any{
		"userId":        a.UserID,
		"userName":      a.UserName,
		"userEmail":     a.UserEmail,
		"totalPolicies": a.TotalPolicies,
	}
}
