package domain

import (
	"database/sql"
)

// User 投保用户领域模型（对应 users 表）
// email 全局唯一；无 email 的行每次导入都会新建记录（去重键缺失，见导入设计）
type User struct {
	UserID string `db:"user_id"`

	FirstName string `db:"first_name"` // NOT NULL

	DOB         sql.NullTime   `db:"dob"`          // nullable
	Address     sql.NullString `db:"address"`      // nullable
	PhoneNumber sql.NullString `db:"phone_number"` // nullable
	State       sql.NullString `db:"state"`        // nullable
	ZipCode     sql.NullString `db:"zip_code"`     // nullable
	Email       sql.NullString `db:"email"`        // UNIQUE, nullable in DB（见上）
	Gender      sql.NullString `db:"gender"`       // nullable
	UserType    sql.NullString `db:"user_type"`    // nullable
}

// ToJSON 转换为JSON格式（用于HTTP响应）
func (u *User) ToJSON() map[string]any {
	m := map[string]any{
		"user_id":    u.UserID,
		"first_name": u.FirstName,
	}
	if u.DOB.Valid {
		m["dob"] = u.DOB.Time.Format("2006-01-02")
	}
	if u.Address.Valid {
		m["address"] = u.Address.String
	}
	if u.PhoneNumber.Valid {
		m["phone_number"] = u.PhoneNumber.String
	}
	if u.State.Valid {
		m["state"] = u.State.String
	}
	if u.ZipCode.Valid {
		m["zip_code"] = u.ZipCode.String
	}
	if u.Email.Valid {
		m["email"] = u.Email.String
	}
	if u.Gender.Valid {
		m["gender"] = u.Gender.String
	}
	if u.UserType.Valid {
		m["user_type"] = u.UserType.String
	}
	return m
}
