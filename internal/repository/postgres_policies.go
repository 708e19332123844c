package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"policy-data/internal/domain"
)

// uniqueViolation PostgreSQL 唯一约束错误码
const uniqueViolation = "23505"

// PostgresPoliciesRepo 保单Repository实现
type PostgresPoliciesRepo struct {
	db *sql.DB
}

func NewPostgresPoliciesRepo(db *sql.DB) *PostgresPoliciesRepo {
	return &PostgresPoliciesRepo{db: db}
}

// Insert 新建保单；policy_number 冲突映射为 ErrDuplicatePolicy（行级错误，不中断导入）
func (r *PostgresPoliciesRepo) Insert(ctx context.Context, policy *domain.Policy) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO policies (
			policy_number, policy_start_date, policy_end_date,
			policy_category_id, company_collection_id, user_id, agent_id, account_id
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING policy_id::text`,
		policy.PolicyNumber,
		policy.PolicyStartDate,
		policy.PolicyEndDate,
		policy.PolicyCategoryID,
		policy.CompanyCollectionID,
		policy.UserID,
		policy.AgentID,
		policy.AccountID,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", fmt.Errorf("%w: %s", ErrDuplicatePolicy, policy.PolicyNumber)
		}
		return "", err
	}
	return id, nil
}

const policySelectColumns = `
	p.policy_id::text,
	p.policy_number,
	p.policy_start_date,
	p.policy_end_date,
	p.policy_category_id::text,
	p.company_collection_id::text,
	p.user_id::text,
	p.agent_id::text,
	p.account_id::text,
	l.category_name,
	c.company_name,
	ag.agent_name,
	ac.account_name`

const policyJoins = `
	FROM policies p
	LEFT JOIN lobs l ON p.policy_category_id = l.lob_id
	LEFT JOIN carriers c ON p.company_collection_id = c.carrier_id
	LEFT JOIN agents ag ON p.agent_id = ag.agent_id
	LEFT JOIN accounts ac ON p.account_id = ac.account_id`

// ListByUser 查询某用户的全部保单（关联名称一并返回）
func (r *PostgresPoliciesRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Policy, error) {
	query := `SELECT` + policySelectColumns + policyJoins + `
		WHERE p.user_id = $1
		ORDER BY p.policy_number`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPolicies(rows)
}

// ListAll 导出用：全部保单（关联名称一并返回）
func (r *PostgresPoliciesRepo) ListAll(ctx context.Context) ([]*domain.Policy, error) {
	query := `SELECT` + policySelectColumns + policyJoins + `
		ORDER BY p.policy_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPolicies(rows)
}

func scanPolicies(rows *sql.Rows) ([]*domain.Policy, error) {
	out := []*domain.Policy{}
	for rows.Next() {
		var p domain.Policy
		if err := rows.Scan(
			&p.PolicyID,
			&p.PolicyNumber,
			&p.PolicyStartDate,
			&p.PolicyEndDate,
			&p.PolicyCategoryID,
			&p.CompanyCollectionID,
			&p.UserID,
			&p.AgentID,
			&p.AccountID,
			&p.CategoryName,
			&p.CompanyName,
			&p.AgentName,
			&p.AccountName,
		); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// AggregateByUser 按用户聚合保单数量
func (r *PostgresPoliciesRepo) AggregateByUser(ctx context.Context) ([]*domain.PolicyAggregate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.user_id::text, u.first_name, COALESCE(u.email, '') AS user_email, COUNT(*) AS total_policies
		 FROM policies p
		 JOIN users u ON p.user_id = u.user_id
		 GROUP BY p.user_id, u.first_name, u.email
		 ORDER BY total_policies DESC, u.first_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.PolicyAggregate{}
	for rows.Next() {
		var a domain.PolicyAggregate
		if err := rows.Scan(&a.UserID, &a.UserName, &a.UserEmail, &a.TotalPolicies); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
