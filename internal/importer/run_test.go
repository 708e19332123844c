package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"policy-data/internal/repository"
)

// writeWorkbook 生成测试用 XLSX：第1行表头，其余为数据行
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func drainEvents(events <-chan Event) []Event {
	out := []Event{}
	for e := range events {
		out = append(out, e)
	}
	return out
}

var importHeader = []any{
	"firstname", "email", "agent", "account_name", "category_name", "company_name", "policyNumber",
}

func validRow(name, email, policyNumber string) []any {
	return []any{name, email, "Bob", "AccA", "Auto", "Acme", policyNumber}
}

func TestRunner_FullScenario(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	path := writeWorkbook(t, [][]any{
		importHeader,
		{"Ana", "a@x.com", "Bob", "AccA", "Auto", "Acme", "P1"},
	})

	runID, events := runner.Start(path)
	got := drainEvents(events)

	require.NotEmpty(t, runID)
	require.Len(t, got, 3)
	assert.Equal(t, StatusInfo, got[0].Status)
	assert.Equal(t, StatusInfo, got[1].Status)
	assert.Equal(t, "Found 1 records. Starting insert...", got[1].Message)
	assert.Equal(t, StatusSuccess, got[2].Status)
	assert.Equal(t, 1, got[2].Inserted)

	assert.Equal(t, 1, fx.agents.Count())
	assert.Equal(t, 1, fx.users.Count())
	assert.Equal(t, 1, fx.accounts.Count())
	assert.Equal(t, 1, fx.lobs.Count())
	assert.Equal(t, 1, fx.carriers.Count())
	require.Equal(t, 1, fx.policies.Count())

	policies, err := fx.policies.ListAll(context.Background())
	require.NoError(t, err)
	p := policies[0]
	assert.Equal(t, "P1", p.PolicyNumber)
	assert.NotEmpty(t, p.UserID)
	assert.NotEmpty(t, p.AgentID)
	assert.NotEmpty(t, p.AccountID)
	assert.NotEmpty(t, p.PolicyCategoryID)
	assert.NotEmpty(t, p.CompanyCollectionID)

	// Account 归属 Ana
	account, ok := fx.accounts.Get(p.AccountID)
	require.True(t, ok)
	assert.Equal(t, p.UserID, account.UserID)
}

func TestRunner_CarrierDedupWithinRun(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	rows := [][]any{importHeader}
	for i := 0; i < 5; i++ {
		rows = append(rows, validRow("Ana", fmt.Sprintf("u%d@x.com", i), fmt.Sprintf("P%d", i)))
	}

	_, events := runner.Start(writeWorkbook(t, rows))
	got := drainEvents(events)

	require.Equal(t, StatusSuccess, got[len(got)-1].Status)
	assert.Equal(t, 5, got[len(got)-1].Inserted)
	// 同名 Carrier/Agent/LOB/Account 全程只有一条
	assert.Equal(t, 1, fx.carriers.Count())
	assert.Equal(t, 1, fx.agents.Count())
	assert.Equal(t, 1, fx.lobs.Count())
	assert.Equal(t, 1, fx.accounts.Count())
}

func TestRunner_MissingForeignKeysSkipsPolicy(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	// agent 和 company 均缺失：解析成功但保单被门槛拦下
	path := writeWorkbook(t, [][]any{
		importHeader,
		{"Ana", "a@x.com", "", "AccA", "Auto", "", "P1"},
	})

	_, events := runner.Start(path)
	got := drainEvents(events)

	require.Equal(t, StatusSuccess, got[len(got)-1].Status)
	assert.Equal(t, 0, got[len(got)-1].Inserted)
	assert.Equal(t, 0, fx.policies.Count())
}

func TestRunner_RerunIsIdempotentForEntities(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	path := writeWorkbook(t, [][]any{
		importHeader,
		validRow("Ana", "a@x.com", "P1"),
		validRow("Bo", "b@x.com", "P2"),
	})

	_, events := runner.Start(path)
	first := drainEvents(events)
	require.Equal(t, StatusSuccess, first[len(first)-1].Status)
	assert.Equal(t, 2, first[len(first)-1].Inserted)

	// 二次运行：实体不重复，保单因唯一约束整批跳过
	_, events = runner.Start(path)
	second := drainEvents(events)
	require.Equal(t, StatusSuccess, second[len(second)-1].Status)
	assert.Equal(t, 0, second[len(second)-1].Inserted)

	assert.Equal(t, 1, fx.agents.Count())
	assert.Equal(t, 2, fx.users.Count())
	assert.Equal(t, 1, fx.accounts.Count())
	assert.Equal(t, 1, fx.lobs.Count())
	assert.Equal(t, 1, fx.carriers.Count())
	assert.Equal(t, 2, fx.policies.Count())
}

func TestRunner_RowsWithoutIdentitySkippedSilently(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	rows := [][]any{importHeader}
	for i := 0; i < 10; i++ {
		rows = append(rows, validRow("Ana", fmt.Sprintf("u%d@x.com", i), fmt.Sprintf("P%d", i)))
	}
	// 两行既无 email 也无名字
	rows = append(rows, []any{"", "", "Bob", "AccA", "Auto", "Acme", "P-no-user-1"})
	rows = append(rows, []any{"", "", "Bob", "AccA", "Auto", "Acme", "P-no-user-2"})

	_, events := runner.Start(writeWorkbook(t, rows))
	got := drainEvents(events)

	terminal := got[len(got)-1]
	require.Equal(t, StatusSuccess, terminal.Status)
	assert.Equal(t, 10, terminal.Inserted)
	assert.Equal(t, 10, fx.policies.Count())
}

func TestRunner_MissingPolicyNumberConflictDoesNotAbortRun(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	// 两行 Acme 均无保单号：行级失败，但运行完整收尾且 Carrier 只有一条
	path := writeWorkbook(t, [][]any{
		importHeader,
		{"Ana", "a@x.com", "Bob", "AccA", "Auto", "Acme", ""},
		{"Bo", "b@x.com", "Bob", "AccA", "Auto", "Acme", ""},
	})

	_, events := runner.Start(path)
	got := drainEvents(events)

	terminal := got[len(got)-1]
	require.Equal(t, StatusSuccess, terminal.Status)
	assert.Equal(t, 0, terminal.Inserted)
	assert.Equal(t, 1, fx.carriers.Count())
	assert.Equal(t, 0, fx.policies.Count())
}

func TestRunner_StoreConnectionFailureIsFatal(t *testing.T) {
	runner := NewRunner(func() (*Store, error) {
		return nil, errors.New("connection refused")
	}, zap.NewNop())

	_, events := runner.Start("does-not-matter.xlsx")
	got := drainEvents(events)

	// 连接失败：单个 error 事件，不处理任何行
	require.Len(t, got, 1)
	assert.Equal(t, StatusError, got[0].Status)
	assert.Contains(t, got[0].Error, "connection refused")
}

func TestRunner_UnreadableFileIsFatal(t *testing.T) {
	fx := newMemFixture()
	runner := NewRunner(func() (*Store, error) { return fx.store, nil }, zap.NewNop())

	_, events := runner.Start(filepath.Join(t.TempDir(), "missing.xlsx"))
	got := drainEvents(events)

	terminal := got[len(got)-1]
	require.Equal(t, StatusError, terminal.Status)
	assert.Equal(t, 0, fx.policies.Count())

	// 终态事件唯一
	terminals := 0
	for _, e := range got {
		if e.Terminal() {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
}

func TestWriter_MissingReferenceGate(t *testing.T) {
	fx := newMemFixture()
	writer := NewWriter(fx.store, zap.NewNop())

	_, err := writer.Write(context.Background(), Refs{UserID: "u"}, Record{PolicyNumber: "P1"})
	require.ErrorIs(t, err, ErrMissingReference)
	assert.Equal(t, 0, fx.policies.Count())
}

func TestWriter_DuplicatePolicyNumber(t *testing.T) {
	fx := newMemFixture()
	resolver := NewResolver(fx.store)
	writer := NewWriter(fx.store, zap.NewNop())
	ctx := context.Background()

	rec := Record{
		FirstName:    "Ana",
		Email:        nullStr("a@x.com"),
		AgentName:    "Bob",
		AccountName:  "AccA",
		CategoryName: "Auto",
		CompanyName:  "Acme",
		PolicyNumber: "P1",
	}
	refs, err := resolver.Resolve(ctx, rec)
	require.NoError(t, err)

	_, err = writer.Write(ctx, refs, rec)
	require.NoError(t, err)

	_, err = writer.Write(ctx, refs, rec)
	require.ErrorIs(t, err, repository.ErrDuplicatePolicy)
	assert.Equal(t, 1, fx.policies.Count())
}
