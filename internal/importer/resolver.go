package importer

import (
	"context"
	"errors"
	"fmt"

	"policy-data/internal/domain"
)

// ErrNoUserIdentity 行里既没有 email 也没有名字：该行整体放弃（静默跳过，不算错误）
var ErrNoUserIdentity = errors.New("row has no email and no first name")

// Refs 单行解析出的五个实体ID；缺失实体以空串表示，由 Writer 的前置门槛统一检查
type Refs struct {
	AgentID   string
	UserID    string
	AccountID string
	LOBID     string
	CarrierID string
}

// Complete 五个引用是否齐全
func (r Refs) Complete() bool {
	return r.AgentID != "" && r.UserID != "" && r.AccountID != "" && r.LOBID != "" && r.CarrierID != ""
}

// Missing 缺失的引用名（告警日志用）
func (r Refs) Missing() []string {
	var out []string
	if r.AgentID == "" {
		out = append(out, "agent")
	}
	if r.UserID == "" {
		out = append(out, "user")
	}
	if r.AccountID == "" {
		out = append(out, "account")
	}
	if r.LOBID == "" {
		out = append(out, "lob")
	}
	if r.CarrierID == "" {
		out = append(out, "carrier")
	}
	return out
}

// Resolver 单行五实体解析管道
// 固定顺序 Agent → User → Account → LOB → Carrier（Account 依赖已解析的 User）
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve 幂等解析一行的全部实体
// 自然键字段为空的实体视为"本行未解析"（不报错）；User 无任何标识返回 ErrNoUserIdentity
func (rs *Resolver) Resolve(ctx context.Context, rec Record) (Refs, error) {
	var refs Refs

	// 1. Agent
	if rec.AgentName != "" {
		id, err := rs.store.Agents.UpsertByName(ctx, rec.AgentName)
		if err != nil {
			return refs, fmt.Errorf("resolve agent %q: %w", rec.AgentName, err)
		}
		refs.AgentID = id
	}

	// 2. User
	user := &domain.User{
		FirstName:   rec.FirstName,
		DOB:         rec.DOB,
		Address:     rec.Address,
		PhoneNumber: rec.PhoneNumber,
		State:       rec.State,
		ZipCode:     rec.ZipCode,
		Email:       rec.Email,
		Gender:      rec.Gender,
		UserType:    rec.UserType,
	}
	switch {
	case rec.Email.Valid:
		// 按 email 去重，整条覆盖：同一 email 最后一行生效
		id, err := rs.store.Users.UpsertByEmail(ctx, user)
		if err != nil {
			return refs, fmt.Errorf("resolve user %q: %w", rec.Email.String, err)
		}
		refs.UserID = id
	case rec.FirstName != "":
		// 无 email 有名字：每次新建，不去重（按规格保留的行为）
		id, err := rs.store.Users.Insert(ctx, user)
		if err != nil {
			return refs, fmt.Errorf("insert user %q: %w", rec.FirstName, err)
		}
		refs.UserID = id
	default:
		return refs, ErrNoUserIdentity
	}

	// 3. Account（依赖已解析的 User）
	if rec.AccountName != "" && refs.UserID != "" {
		id, err := rs.store.Accounts.UpsertByName(ctx, rec.AccountName, refs.UserID)
		if err != nil {
			return refs, fmt.Errorf("resolve account %q: %w", rec.AccountName, err)
		}
		refs.AccountID = id
	}

	// 4. LOB
	if rec.CategoryName != "" {
		id, err := rs.store.LOBs.UpsertByName(ctx, rec.CategoryName)
		if err != nil {
			return refs, fmt.Errorf("resolve lob %q: %w", rec.CategoryName, err)
		}
		refs.LOBID = id
	}

	// 5. Carrier
	if rec.CompanyName != "" {
		id, err := rs.store.Carriers.UpsertByName(ctx, rec.CompanyName)
		if err != nil {
			return refs, fmt.Errorf("resolve carrier %q: %w", rec.CompanyName, err)
		}
		refs.CarrierID = id
	}

	return refs, nil
}
