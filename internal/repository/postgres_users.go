package repository

import (
	"context"
	"database/sql"
	"errors"

	"policy-data/internal/domain"
)

// PostgresUsersRepo 用户Repository实现
type PostgresUsersRepo struct {
	db *sql.DB
}

func NewPostgresUsersRepo(db *sql.DB) *PostgresUsersRepo {
	return &PostgresUsersRepo{db: db}
}

// UpsertByEmail 按 email 原子 upsert，整条记录覆盖
func (r *PostgresUsersRepo) UpsertByEmail(ctx context.Context, user *domain.User) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (first_name, dob, address, phone_number, state, zip_code, email, gender, user_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (email)
		 DO UPDATE SET first_name   = EXCLUDED.first_name,
		               dob          = EXCLUDED.dob,
		               address      = EXCLUDED.address,
		               phone_number = EXCLUDED.phone_number,
		               state        = EXCLUDED.state,
		               zip_code     = EXCLUDED.zip_code,
		               gender       = EXCLUDED.gender,
		               user_type    = EXCLUDED.user_type
		 RETURNING user_id::text`,
		user.FirstName,
		user.DOB,
		user.Address,
		user.PhoneNumber,
		user.State,
		user.ZipCode,
		user.Email,
		user.Gender,
		user.UserType,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Insert 新建用户（无 email 行走这条路径，不去重）
func (r *PostgresUsersRepo) Insert(ctx context.Context, user *domain.User) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (first_name, dob, address, phone_number, state, zip_code, email, gender, user_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING user_id::text`,
		user.FirstName,
		user.DOB,
		user.Address,
		user.PhoneNumber,
		user.State,
		user.ZipCode,
		user.Email,
		user.Gender,
		user.UserType,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FindByFirstName 按名称模糊查询（不区分大小写），取第一个匹配
func (r *PostgresUsersRepo) FindByFirstName(ctx context.Context, firstName string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id::text, first_name, dob, address, phone_number, state, zip_code, email, gender, user_type
		 FROM users
		 WHERE first_name ILIKE '%' || $1 || '%'
		 ORDER BY first_name
		 LIMIT 1`,
		firstName,
	).Scan(
		&u.UserID,
		&u.FirstName,
		&u.DOB,
		&u.Address,
		&u.PhoneNumber,
		&u.State,
		&u.ZipCode,
		&u.Email,
		&u.Gender,
		&u.UserType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
