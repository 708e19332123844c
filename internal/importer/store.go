package importer

import (
	"database/sql"

	"policy-data/internal/database"
	"policy-data/internal/repository"
)

// Store 一次导入运行持有的实体存储句柄
// 每次运行独立建连，所有退出路径上由 Runner 统一释放
type Store struct {
	Agents   repository.AgentsRepo
	Users    repository.UsersRepo
	Accounts repository.AccountsRepo
	LOBs     repository.LOBsRepo
	Carriers repository.CarriersRepo
	Policies repository.PoliciesRepo

	closer func() error
}

func (s *Store) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// StoreFactory 建立一次运行的存储连接；失败即整次运行失败（不处理任何行）
type StoreFactory func() (*Store, error)

// NewPostgresStoreFactory 每次运行打开独立的 Postgres 连接
func NewPostgresStoreFactory(dsn string) StoreFactory {
	return func() (*Store, error) {
		db, err := database.Open(dsn)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	}
}

// NewPostgresStore 在已有连接上组装仓储
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Agents:   repository.NewPostgresAgentsRepo(db),
		Users:    repository.NewPostgresUsersRepo(db),
		Accounts: repository.NewPostgresAccountsRepo(db),
		LOBs:     repository.NewPostgresLOBsRepo(db),
		Carriers: repository.NewPostgresCarriersRepo(db),
		Policies: repository.NewPostgresPoliciesRepo(db),
		closer:   db.Close,
	}
}

// NewMemoryStore 内存仓储（DB 未启用的开发模式和单元测试）
func NewMemoryStore(
	agents *repository.MemoryAgentsRepo,
	users *repository.MemoryUsersRepo,
	accounts *repository.MemoryAccountsRepo,
	lobs *repository.MemoryLOBsRepo,
	carriers *repository.MemoryCarriersRepo,
	policies *repository.MemoryPoliciesRepo,
) *Store {
	return &Store{
		Agents:   agents,
		Users:    users,
		Accounts: accounts,
		LOBs:     lobs,
		Carriers: carriers,
		Policies: policies,
	}
}
