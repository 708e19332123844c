package importer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"policy-data/internal/domain"
)

// ErrMissingReference 五个外键不齐全，保单拒绝写入（该行跳过，不重试不排队）
var ErrMissingReference = errors.New("missing required foreign key")

// ErrMissingPolicyNumber 保单号缺失（NOT NULL 约束，行级错误）
var ErrMissingPolicyNumber = errors.New("policy_number is required")

// Writer 保单写入器：前置门槛 + 持久化
type Writer struct {
	store  *Store
	logger *zap.Logger
}

func NewWriter(store *Store, logger *zap.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Write 校验五个引用齐全后写入保单
// policy_number 唯一冲突透传 repository.ErrDuplicatePolicy，由调用方按行级错误处理
func (w *Writer) Write(ctx context.Context, refs Refs, rec Record) (string, error) {
	if !refs.Complete() {
		w.logger.Warn("Skipping policy record due to missing required foreign key",
			zap.String("policy_number", rec.PolicyLabel()),
			zap.Strings("missing", refs.Missing()),
		)
		return "", ErrMissingReference
	}

	if rec.PolicyNumber == "" {
		return "", ErrMissingPolicyNumber
	}

	policy := &domain.Policy{
		PolicyNumber:        rec.PolicyNumber,
		PolicyStartDate:     rec.PolicyStartDate,
		PolicyEndDate:       rec.PolicyEndDate,
		PolicyCategoryID:    refs.LOBID,
		CompanyCollectionID: refs.CarrierID,
		UserID:              refs.UserID,
		AgentID:             refs.AgentID,
		AccountID:           refs.AccountID,
	}

	id, err := w.store.Policies.Insert(ctx, policy)
	if err != nil {
		return "", fmt.Errorf("insert policy %s: %w", rec.PolicyLabel(), err)
	}
	return id, nil
}
