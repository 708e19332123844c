package importer

import (
	"database/sql"
	"strings"
	"time"
)

// Row 一行原始表格数据（键为表头单元格，值为对应单元格文本）
type Row map[string]string

// Record 归一化后的行记录：字段名固定，缺失的可选字段为零值/Null
type Record struct {
	// User
	FirstName   string
	DOB         sql.NullTime
	Address     sql.NullString
	PhoneNumber sql.NullString
	State       sql.NullString
	ZipCode     sql.NullString
	Email       sql.NullString
	Gender      sql.NullString
	UserType    sql.NullString

	// 其余四个实体的自然键
	AgentName    string
	AccountName  string
	CategoryName string
	CompanyName  string

	// Policy
	PolicyNumber    string
	PolicyStartDate sql.NullTime
	PolicyEndDate   sql.NullTime
}

// PolicyLabel 日志用标识：无保单号时显示 N/A
func (r Record) PolicyLabel() string {
	if r.PolicyNumber == "" {
		return "N/A"
	}
	return r.PolicyNumber
}

// Normalize 把异构表头的原始行映射到固定字段
// 别名规则先到先得：firstname → first_name → name；zip → postal；
// policyNumber → policy_number；日期两种拼写均接受，解析失败归 Null
func Normalize(row Row) Record {
	rec := Record{
		FirstName:    firstNonEmpty(row, "firstname", "first_name", "name"),
		DOB:          parseDate(pick(row, "dob")),
		Address:      nullString(pick(row, "address")),
		PhoneNumber:  nullString(pick(row, "phone")),
		State:        nullString(pick(row, "state")),
		ZipCode:      nullString(firstNonEmpty(row, "zip", "postal")),
		Email:        nullString(pick(row, "email")),
		Gender:       nullString(pick(row, "gender")),
		UserType:     nullString(pick(row, "userType")),
		AgentName:    pick(row, "agent"),
		AccountName:  pick(row, "account_name"),
		CategoryName: pick(row, "category_name"),
		CompanyName:  pick(row, "company_name"),
		PolicyNumber: firstNonEmpty(row, "policyNumber", "policy_number"),
	}
	rec.PolicyStartDate = parseDate(firstNonEmpty(row, "policyStartDate", "policy_start_date"))
	rec.PolicyEndDate = parseDate(firstNonEmpty(row, "policyEndDate", "policy_end_date"))
	return rec
}

func pick(row Row, key string) string {
	return strings.TrimSpace(row[key])
}

func firstNonEmpty(row Row, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// dateLayouts 表格里常见的日期写法；excelize 对日期单元格默认给出 m/d/yy
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1/2/06",
	time.RFC3339,
}

func parseDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t, Valid: true}
		}
	}
	// 无效日期不报错，按缺失处理
	return sql.NullTime{}
}
