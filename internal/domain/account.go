package domain

// Account 用户账户领域模型（对应 accounts 表）
// 自然键：account_name；user_id 指向同一行解析出的 User（最后一行覆盖归属）
type Account struct {
	AccountID   string `db:"account_id"`
	AccountName string `db:"account_name"` // NOT NULL
	UserID      string `db:"user_id"`      // NOT NULL, FK users
}

func (a *Account) ToJSON() map[string]any {
	return map[string]any{
		"account_id":   a.AccountID,
		"account_name": a.AccountName,
		"user_id":      a.UserID,
	}
}
