package repository

import (
	"context"
	"errors"

	"policy-data/internal/domain"
)

// 哨兵错误：行级错误处理依赖它们区分“可跳过”的失败
var (
	// ErrDuplicatePolicy policy_number 唯一约束冲突
	ErrDuplicatePolicy = errors.New("duplicate policy number")
	// ErrUserNotFound 按名称查询用户无结果
	ErrUserNotFound = errors.New("user not found")
)

// AgentsRepo 代理人Repository接口
// Upsert 必须是单条原子语句（INSERT ... ON CONFLICT），避免读-写竞态
type AgentsRepo interface {
	UpsertByName(ctx context.Context, agentName string) (string, error)
}

// UsersRepo 用户Repository接口
type UsersRepo interface {
	// UpsertByEmail 按 email 去重，整条记录覆盖（同一 email 最后一次写入生效）
	UpsertByEmail(ctx context.Context, user *domain.User) (string, error)
	// Insert 无 email 的用户每次新建（无去重键可用）
	Insert(ctx context.Context, user *domain.User) (string, error)
	// FindByFirstName 按 first_name 模糊匹配（不区分大小写），无结果返回 ErrUserNotFound
	FindByFirstName(ctx context.Context, firstName string) (*domain.User, error)
}

// AccountsRepo 账户Repository接口
type AccountsRepo interface {
	// UpsertByName user_id 每次覆盖为本行解析出的用户
	UpsertByName(ctx context.Context, accountName, userID string) (string, error)
}

// LOBsRepo 保单类别Repository接口
type LOBsRepo interface {
	UpsertByName(ctx context.Context, categoryName string) (string, error)
}

// CarriersRepo 承保公司Repository接口
type CarriersRepo interface {
	UpsertByName(ctx context.Context, companyName string) (string, error)
}

// PoliciesRepo 保单Repository接口
type PoliciesRepo interface {
	// Insert 新建保单；policy_number 冲突返回 ErrDuplicatePolicy
	Insert(ctx context.Context, policy *domain.Policy) (string, error)
	// ListByUser 查询某用户的全部保单（JOIN 类别/承保公司/代理人/账户名称）
	ListByUser(ctx context.Context, userID string) ([]*domain.Policy, error)
	// AggregateByUser 按用户聚合保单数量
	AggregateByUser(ctx context.Context) ([]*domain.PolicyAggregate, error)
	// ListAll 导出用（JOIN 名称字段）
	ListAll(ctx context.Context) ([]*domain.Policy, error)
}

// MessagesRepo 定时消息Repository接口
type MessagesRepo interface {
	Insert(ctx context.Context, msg *domain.ScheduledMessage) (string, error)
}
